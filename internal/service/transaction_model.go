package service

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

// PostRequest is an expense or income as the user entered it.
type PostRequest struct {
	Kind        ledger.Kind
	AccountText string
	Amount      decimal.Decimal
	Label       string
	Description string
	// Date defaults to today.
	Date omit.Val[time.Time]
}

// Posted is the result of a successful posting.
type Posted struct {
	Transaction ledger.Transaction
	Account     ledger.Account
	Budget      decimal.Decimal
}

// TransactionCursor identifies a position in a paginated result set and
// carries the ledger length seen on the first page so later postings do not
// shift subsequent pages.
type TransactionCursor struct {
	Position int
	Limit    int
	Count    int
}
