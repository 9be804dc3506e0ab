// Package domain defines core data structures used throughout the payment engine.
package domain

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ClientID identifies an account holder. Each client owns exactly one balance.
type ClientID uint16

// TxID identifies a deposit or withdrawal. It is unique across the whole
// ledger regardless of client, and anchors later disputes against that
// transaction.
type TxID uint32

// TxKind is the kind of an incoming transaction.
type TxKind int

const (
	// KindDeposit credits funds to a client.
	KindDeposit TxKind = iota
	// KindWithdrawal debits funds from a client.
	KindWithdrawal
	// KindDispute opens a dispute against a prior deposit or withdrawal.
	KindDispute
	// KindResolve closes a dispute, releasing the held funds.
	KindResolve
	// KindChargeBack closes a dispute by reversing the disputed transaction.
	KindChargeBack
)

// String returns the string representation.
func (k TxKind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeBack:
		return "chargeback"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// HasAmount reports whether transactions of this kind carry an amount.
// Only deposits and withdrawals do; the dispute lifecycle kinds reference
// a prior transaction by id instead.
func (k TxKind) HasAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Transaction is a single client payment operation. Amount is meaningful
// only when Kind.HasAmount() is true.
type Transaction struct {
	Kind   TxKind
	Client ClientID
	Tx     TxID
	Amount decimal.Decimal
}

// NewDeposit builds a deposit transaction. The amount must not be negative.
func NewDeposit(client ClientID, tx TxID, amount decimal.Decimal) (Transaction, error) {
	if amount.IsNegative() {
		return Transaction{}, errors.Errorf("deposit amount must not be negative, got %s", amount.String())
	}
	return Transaction{Kind: KindDeposit, Client: client, Tx: tx, Amount: amount}, nil
}

// NewWithdrawal builds a withdrawal transaction. The amount must not be negative.
func NewWithdrawal(client ClientID, tx TxID, amount decimal.Decimal) (Transaction, error) {
	if amount.IsNegative() {
		return Transaction{}, errors.Errorf("withdrawal amount must not be negative, got %s", amount.String())
	}
	return Transaction{Kind: KindWithdrawal, Client: client, Tx: tx, Amount: amount}, nil
}

// NewDispute builds a dispute referencing a prior transaction.
func NewDispute(client ClientID, tx TxID) Transaction {
	return Transaction{Kind: KindDispute, Client: client, Tx: tx}
}

// NewResolve builds a resolve referencing a disputed transaction.
func NewResolve(client ClientID, tx TxID) Transaction {
	return Transaction{Kind: KindResolve, Client: client, Tx: tx}
}

// NewChargeBack builds a chargeback referencing a disputed transaction.
func NewChargeBack(client ClientID, tx TxID) Transaction {
	return Transaction{Kind: KindChargeBack, Client: client, Tx: tx}
}

// String returns a log-friendly representation.
func (t Transaction) String() string {
	if t.Kind.HasAmount() {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", t.Kind, t.Client, t.Tx, t.Amount.String())
	}
	return fmt.Sprintf("%s client=%d tx=%d", t.Kind, t.Client, t.Tx)
}
