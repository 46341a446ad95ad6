package service

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// Overview is every account with the ledger-wide figures.
type Overview struct {
	// Accounts are ordered from the lowest balance to the highest.
	Accounts []ledger.Account
	Total    decimal.Decimal
	Budget   decimal.Decimal
}
