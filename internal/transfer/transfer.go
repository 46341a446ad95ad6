// Package transfer is the state machine that decides whether a transfer
// executes at once, is rejected, or waits for the user's confirmation.
package transfer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

type State string

const (
	StateRequested           State = "requested"
	StateExecuted            State = "executed"
	StateRejected            State = "rejected"
	StatePendingConfirmation State = "pending_confirmation"
	StateCancelled           State = "cancelled"
)

// Terminal reports whether the workflow instance has ended.
func (s State) Terminal() bool {
	return s == StateExecuted || s == StateRejected || s == StateCancelled
}

// Policy decides how a confirmation treats balances that moved after staging.
type Policy string

const (
	// PolicyPreserve applies the staged transfer as is and flags drift.
	PolicyPreserve Policy = "preserve"
	// PolicyRevalidate re-runs the negative-balance gate on current balances.
	PolicyRevalidate Policy = "revalidate"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyPreserve:
		return PolicyPreserve, nil
	case PolicyRevalidate:
		return PolicyRevalidate, nil
	}
	return "", fmt.Errorf("unknown confirm policy %q", s)
}

var affirmative = map[string]bool{
	"نعم":   true,
	"yes":   true,
	"y":     true,
	"ok":    true,
	"موافق": true,
}

// IsAffirmative reports whether a reply confirms a pending transfer.
func IsAffirmative(reply string) bool {
	return affirmative[strings.ToLower(strings.TrimSpace(reply))]
}

// Request is a transfer as the user typed it.
type Request struct {
	From   string
	To     string
	Amount decimal.Decimal
	Date   time.Time
}

// Pending is a transfer staged for confirmation, with the balances it was
// checked against.
type Pending struct {
	ID                uuid.UUID
	From              string
	To                string
	Amount            decimal.Decimal
	Date              time.Time
	StagedFromBalance decimal.Decimal
	StagedToBalance   decimal.Decimal
	StagedAt          time.Time
}

// Projected is the source balance after the transfer at staging time.
func (p Pending) Projected() decimal.Decimal {
	return p.StagedFromBalance.Sub(p.Amount)
}

// Outcome is where a workflow step left the transfer.
type Outcome struct {
	State  State
	From   ledger.Account
	To     ledger.Account
	Amount decimal.Decimal
	// Pending is set in StatePendingConfirmation.
	Pending *Pending
	// Err explains a rejection.
	Err error
	// Drifted is set when a confirmed transfer met balances that moved
	// since staging.
	Drifted bool
}

func rejected(err error) Outcome {
	return Outcome{State: StateRejected, Err: err}
}

// Evaluate runs a requested transfer against the snapshot. An executed
// transfer is posted to the snapshot; every other outcome leaves it untouched.
func Evaluate(s *ledger.Snapshot, req Request, mode ledger.MatchMode, now time.Time) Outcome {
	from, err := s.Lookup(req.From, mode)
	if err != nil {
		return rejected(fmt.Errorf("source %q: %w", req.From, err))
	}
	to, err := s.Lookup(req.To, mode)
	if err != nil {
		return rejected(fmt.Errorf("destination %q: %w", req.To, err))
	}
	if !req.Amount.IsPositive() {
		return rejected(ledger.ErrInvalidAmount)
	}
	if from.Name == to.Name {
		return rejected(ledger.ErrSameAccount)
	}

	if from.Balance.GreaterThanOrEqual(req.Amount) {
		return execute(s, from.Name, to.Name, req.Amount, req.Date)
	}
	if !from.AllowsNegative() {
		return rejected(&ledger.InsufficientFundsError{Account: from.Name, Balance: from.Balance, Amount: req.Amount})
	}

	id, err := uuid.NewV4()
	if err != nil {
		return rejected(err)
	}
	return Outcome{
		State:  StatePendingConfirmation,
		From:   from,
		To:     to,
		Amount: req.Amount,
		Pending: &Pending{
			ID:                id,
			From:              from.Name,
			To:                to.Name,
			Amount:            req.Amount,
			Date:              req.Date,
			StagedFromBalance: from.Balance,
			StagedToBalance:   to.Balance,
			StagedAt:          now,
		},
	}
}

// Confirm resolves a pending transfer with the user's reply. Anything other
// than an affirmative reply cancels it.
func Confirm(s *ledger.Snapshot, p Pending, reply string, policy Policy) Outcome {
	if !IsAffirmative(reply) {
		return Cancel(p)
	}

	from, ok := s.Account(p.From)
	if !ok {
		return rejected(fmt.Errorf("source %q: %w", p.From, ledger.ErrAccountNotFound))
	}
	to, ok := s.Account(p.To)
	if !ok {
		return rejected(fmt.Errorf("destination %q: %w", p.To, ledger.ErrAccountNotFound))
	}

	drifted := !from.Balance.Equal(p.StagedFromBalance) || !to.Balance.Equal(p.StagedToBalance)
	if policy == PolicyRevalidate && from.Balance.LessThan(p.Amount) && !from.AllowsNegative() {
		return rejected(&ledger.InsufficientFundsError{Account: from.Name, Balance: from.Balance, Amount: p.Amount})
	}

	out := execute(s, p.From, p.To, p.Amount, p.Date)
	out.Drifted = drifted
	return out
}

// Cancel ends a pending transfer without touching any balance.
func Cancel(p Pending) Outcome {
	return Outcome{State: StateCancelled, Amount: p.Amount, Pending: &p}
}

func execute(s *ledger.Snapshot, from, to string, amount decimal.Decimal, date time.Time) Outcome {
	fromAcc, toAcc, err := s.PostTransfer(ledger.Transfer{Date: date, From: from, To: to, Amount: amount})
	if err != nil {
		return rejected(err)
	}
	return Outcome{State: StateExecuted, From: fromAcc, To: toAcc, Amount: amount}
}

// ErrNotPending is returned when confirming a transfer that is not waiting
// for confirmation.
var ErrNotPending = errors.New("no transfer is waiting for confirmation")
