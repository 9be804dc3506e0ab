package ledger

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/corefin/payproc/internal/domain"
)

// txKey locates a stored deposit or withdrawal. Lookups always use the full
// (client, tx) pair, never the transaction id alone, so a dispute naming the
// wrong client can never reach another client's transaction.
type txKey struct {
	client domain.ClientID
	tx     domain.TxID
}

// entry pairs a stored deposit or withdrawal with its dispute status. The
// transaction payload is immutable; only the status advances.
type entry struct {
	txn    domain.Transaction
	status domain.TxStatus
}

// Ledger owns one balance per known client and the append-only history of
// accepted deposit and withdrawal transactions. Entries are kept for the
// lifetime of the ledger so late disputes can always find their anchor.
//
// A Ledger is not safe for concurrent use; the caller supplies a total
// order of transactions and feeds them one at a time.
type Ledger struct {
	index    map[txKey]int
	entries  []entry
	balances map[domain.ClientID]*Balance
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		index:    make(map[txKey]int),
		balances: make(map[domain.ClientID]*Balance),
	}
}

// ProcessTransaction validates and applies a single transaction. It either
// applies completely or rejects with no state change; a failure never
// affects subsequent transactions.
func (l *Ledger) ProcessTransaction(t domain.Transaction) error {
	key := txKey{client: t.Client, tx: t.Tx}

	if t.Kind.HasAmount() {
		if _, ok := l.index[key]; ok {
			return errors.Wrapf(ErrDuplicateTransaction, "client %d tx %d", t.Client, t.Tx)
		}
	}

	balance, ok := l.balances[t.Client]
	if !ok {
		if t.Kind != domain.KindDeposit {
			return errors.Wrapf(ErrNoInitialDeposit, "client %d", t.Client)
		}
		// First deposit implicitly opens the account.
		balance = NewBalance(t.Client)
		l.balances[t.Client] = balance
	}

	if balance.Locked() {
		return errors.Wrapf(ErrFrozenAccount, "client %d", t.Client)
	}

	switch t.Kind {
	case domain.KindDeposit:
		if err := balance.Deposit(t.Amount); err != nil {
			return err
		}
		l.record(key, t)
		return nil

	case domain.KindWithdrawal:
		if err := balance.Withdraw(t.Amount); err != nil {
			return err
		}
		l.record(key, t)
		return nil

	case domain.KindDispute, domain.KindResolve, domain.KindChargeBack:
		return l.advanceDispute(balance, key, t.Kind)

	default:
		return errors.Errorf("unknown transaction kind: %s", t.Kind)
	}
}

// record appends an accepted deposit or withdrawal to the history and
// registers it in the index.
func (l *Ledger) record(key txKey, t domain.Transaction) {
	l.index[key] = len(l.entries)
	l.entries = append(l.entries, entry{txn: t, status: domain.StatusActive})
}

// advanceDispute applies a dispute, resolve or chargeback to the referenced
// entry. The status transition is validated first, the balance is mutated
// next, and the new status is committed only after the balance call
// succeeds, so a failure at either step leaves nothing half-applied.
func (l *Ledger) advanceDispute(balance *Balance, key txKey, kind domain.TxKind) error {
	i, ok := l.index[key]
	if !ok {
		return errors.Wrapf(ErrMissingTransaction, "client %d tx %d", key.client, key.tx)
	}
	ent := &l.entries[i]

	next, err := ent.status.Advance(kind)
	if err != nil {
		return err
	}

	switch kind {
	case domain.KindDispute:
		amount := ent.txn.Amount
		if ent.txn.Kind == domain.KindWithdrawal {
			// Stored negative so the withdrawn money never counts as held,
			// while a later chargeback still refunds it.
			amount = amount.Neg()
		}
		if err := balance.Hold(key.tx, amount); err != nil {
			return err
		}

	case domain.KindResolve:
		if err := balance.RemoveHold(key.tx); err != nil {
			return err
		}

	case domain.KindChargeBack:
		if err := balance.ApplyHold(key.tx); err != nil {
			return err
		}
		balance.Lock()
	}

	ent.status = next
	return nil
}

// AvailableBalance returns the available funds of the client. The second
// return value is false for a client the ledger has never seen.
func (l *Ledger) AvailableBalance(client domain.ClientID) (decimal.Decimal, bool) {
	balance, ok := l.balances[client]
	if !ok {
		return decimal.Zero, false
	}
	return balance.Available(), true
}

// Snapshot returns the reported balance of a single client. The second
// return value is false for a client the ledger has never seen.
func (l *Ledger) Snapshot(client domain.ClientID) (domain.BalanceSnapshot, bool) {
	balance, ok := l.balances[client]
	if !ok {
		return domain.BalanceSnapshot{}, false
	}
	return balance.Snapshot(), true
}

// Snapshots returns one snapshot per client that has ever had an accepted
// transaction. No client ordering is guaranteed.
func (l *Ledger) Snapshots() []domain.BalanceSnapshot {
	snapshots := make([]domain.BalanceSnapshot, 0, len(l.balances))
	for _, balance := range l.balances {
		snapshots = append(snapshots, balance.Snapshot())
	}
	return snapshots
}
