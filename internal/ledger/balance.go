// Package ledger implements the per-client balance model and the
// transaction ledger that owns it.
package ledger

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/corefin/payproc/internal/domain"
)

// Balance tracks the monetary state of a single client: the total funds,
// the holds opened by active disputes, and the permanent lock flag.
type Balance struct {
	client domain.ClientID
	total  decimal.Decimal
	holds  map[domain.TxID]decimal.Decimal
	locked bool
}

// NewBalance creates an empty balance for the client.
func NewBalance(client domain.ClientID) *Balance {
	return &Balance{
		client: client,
		total:  decimal.Zero,
		holds:  make(map[domain.TxID]decimal.Decimal),
	}
}

// Available returns the funds not frozen by open disputes.
func (b *Balance) Available() decimal.Decimal {
	return b.total.Sub(b.Held())
}

// Held returns the sum of funds frozen by open disputes.
//
// Withdrawal-originated holds are stored negative and excluded here: the
// withdrawn money already left the account when the withdrawal settled, so
// counting it as held would inflate the funds available for further
// withdrawals.
func (b *Balance) Held() decimal.Decimal {
	held := decimal.Zero
	for _, amount := range b.holds {
		if amount.IsPositive() {
			held = held.Add(amount)
		}
	}
	return held
}

// Total returns the net settled funds, unaffected by holds.
func (b *Balance) Total() decimal.Decimal {
	return b.total
}

// Locked reports whether the balance is permanently frozen.
func (b *Balance) Locked() bool {
	return b.locked
}

// Lock freezes the balance for the rest of its life.
func (b *Balance) Lock() {
	b.locked = true
}

// Deposit adds funds to the balance.
func (b *Balance) Deposit(amount decimal.Decimal) error {
	if b.locked {
		return ErrAccountLocked
	}

	b.total = b.total.Add(amount)

	return nil
}

// Withdraw removes funds from the balance. The check runs against the total
// balance, not the available one: open disputes do not block withdrawals.
func (b *Balance) Withdraw(amount decimal.Decimal) error {
	if amount.GreaterThan(b.total) {
		return ErrInsufficientFunds
	}
	if b.locked {
		return ErrAccountLocked
	}

	b.total = b.total.Sub(amount)

	return nil
}

// Hold records a signed hold against the transaction. A disputed deposit
// holds its positive amount, reducing Available. A disputed withdrawal holds
// the negated amount; that entry only marks the withdrawal as disputed so
// ApplyHold can refund it, and never counts towards Held.
func (b *Balance) Hold(tx domain.TxID, amount decimal.Decimal) error {
	if _, ok := b.holds[tx]; ok {
		return errors.Wrapf(ErrMultiHold, "tx %d", tx)
	}

	b.holds[tx] = amount

	return nil
}

// RemoveHold deletes the hold, releasing the funds back to Available.
// Total is untouched.
func (b *Balance) RemoveHold(tx domain.TxID) error {
	if _, ok := b.holds[tx]; !ok {
		return errors.Wrapf(ErrNoHold, "tx %d", tx)
	}

	delete(b.holds, tx)

	return nil
}

// ApplyHold subtracts the stored hold amount from the total and deletes the
// hold. A positive hold (disputed deposit) reduces the total, reversing the
// deposit; a negative hold (disputed withdrawal) increases it, refunding the
// withdrawal. Either way the original transaction's effect on the total is
// undone.
func (b *Balance) ApplyHold(tx domain.TxID) error {
	amount, ok := b.holds[tx]
	if !ok {
		return errors.Wrapf(ErrNoHold, "tx %d", tx)
	}

	b.total = b.total.Sub(amount)
	delete(b.holds, tx)

	return nil
}

// Snapshot captures the reported quantities of the balance.
func (b *Balance) Snapshot() domain.BalanceSnapshot {
	return domain.BalanceSnapshot{
		Client:    b.client,
		Available: b.Available(),
		Held:      b.Held(),
		Total:     b.total,
		Locked:    b.locked,
	}
}
