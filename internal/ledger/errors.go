package ledger

import "github.com/pkg/errors"

// Ledger-level failures.
var (
	// ErrDuplicateTransaction a deposit or withdrawal reused an already
	// registered (client, tx) pair.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")

	// ErrMissingTransaction a dispute, resolve or chargeback referenced an
	// unknown (client, tx) pair.
	ErrMissingTransaction = errors.New("referenced transaction not found")

	// ErrNoInitialDeposit a non-deposit operation arrived for a client that
	// has no balance yet. Only a deposit opens an account.
	ErrNoInitialDeposit = errors.New("client has no account yet")

	// ErrFrozenAccount any operation arrived for a client whose balance is
	// locked by a prior chargeback.
	ErrFrozenAccount = errors.New("account is frozen")
)

// Balance-level failures, surfaced through the ledger unchanged.
var (
	// ErrInsufficientFunds a withdrawal exceeded the total balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountLocked a balance operation hit a locked balance.
	ErrAccountLocked = errors.New("account is locked")

	// ErrMultiHold a hold was placed on a transaction that already has one.
	ErrMultiHold = errors.New("transaction already held")

	// ErrNoHold a hold was released or applied for a transaction without one.
	ErrNoHold = errors.New("no hold on transaction")
)
