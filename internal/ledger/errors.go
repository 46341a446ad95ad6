package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAmbiguousAccount   = errors.New("account name is ambiguous")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidAccountName = errors.New("account name is empty")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSameAccount        = errors.New("transfer source and destination are the same account")
)

// InsufficientFundsError carries the balance and shortfall of a rejected
// withdrawal from an account that may not go negative.
type InsufficientFundsError struct {
	Account string
	Balance decimal.Decimal
	Amount  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in %q: balance %s, requested %s", e.Account, e.Balance, e.Amount)
}

// Shortfall is how much the balance lacks to cover the amount.
func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Amount.Sub(e.Balance)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// AmbiguousAccountError lists the accounts that matched a lookup equally well.
type AmbiguousAccountError struct {
	Input      string
	Candidates []string
}

func (e *AmbiguousAccountError) Error() string {
	return fmt.Sprintf("%q matches several accounts: %s", e.Input, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousAccountError) Is(target error) bool {
	return target == ErrAmbiguousAccount
}
