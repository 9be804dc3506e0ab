package domain

import "github.com/shopspring/decimal"

// BalanceSnapshot is an immutable projection of a client balance for
// external reporting.
type BalanceSnapshot struct {
	Client    ClientID        `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}
