package domain

import "github.com/pkg/errors"

// ErrUnexpectedTxStatus is returned when a dispute, resolve or chargeback
// is attempted against a transaction whose current status does not allow it.
var ErrUnexpectedTxStatus = errors.New("unexpected transaction status")

// TxStatus is the dispute lifecycle state of a stored deposit or withdrawal.
//
// The only legal transitions are:
//
//	Active → Disputed → Resolved
//	Active → Disputed → ChargedBack
//
// Resolved and ChargedBack are terminal.
type TxStatus int

const (
	// StatusActive is the initial state of every accepted deposit or withdrawal.
	StatusActive TxStatus = iota
	// StatusDisputed marks a transaction with an open dispute.
	StatusDisputed
	// StatusResolved marks a dispute closed in favour of the transaction.
	StatusResolved
	// StatusChargedBack marks a dispute closed by reversing the transaction.
	StatusChargedBack
)

// String returns the string representation.
func (s TxStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDisputed:
		return "disputed"
	case StatusResolved:
		return "resolved"
	case StatusChargedBack:
		return "chargedback"
	default:
		return "invalid"
	}
}

// Advance returns the status that results from applying the given operation
// to a transaction currently in status s. It never mutates; callers commit
// the returned status only once the corresponding balance mutation succeeds.
func (s TxStatus) Advance(k TxKind) (TxStatus, error) {
	switch k {
	case KindDispute:
		if s != StatusActive {
			return s, errors.Wrapf(ErrUnexpectedTxStatus, "cannot dispute a %s transaction", s)
		}
		return StatusDisputed, nil
	case KindResolve:
		if s != StatusDisputed {
			return s, errors.Wrapf(ErrUnexpectedTxStatus, "cannot resolve a %s transaction", s)
		}
		return StatusResolved, nil
	case KindChargeBack:
		if s != StatusDisputed {
			return s, errors.Wrapf(ErrUnexpectedTxStatus, "cannot charge back a %s transaction", s)
		}
		return StatusChargedBack, nil
	default:
		return s, errors.Wrapf(ErrUnexpectedTxStatus, "%s does not advance transaction status", k)
	}
}
