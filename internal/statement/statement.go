package statement

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

var ErrLedgerInconsistency = errors.New("ledger replay disagrees with stored balance")

// tolerance absorbs rounding left behind by spreadsheet edits.
var tolerance = decimal.RequireFromString("0.005")

// InconsistencyError reports the replayed and stored balances of an account
// whose ledger history no longer explains its current balance.
type InconsistencyError struct {
	Account  string
	Replayed decimal.Decimal
	Stored   decimal.Decimal
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("%s: %q replays to %s but stores %s", ErrLedgerInconsistency, e.Account, e.Replayed, e.Stored)
}

func (e *InconsistencyError) Is(target error) bool {
	return target == ErrLedgerInconsistency
}

type EntryKind string

const (
	EntryExpense     EntryKind = "expense"
	EntryIncome      EntryKind = "income"
	EntryTransferOut EntryKind = "transfer_out"
	EntryTransferIn  EntryKind = "transfer_in"
)

// Line is one replayed entry with the running balance right after it.
type Line struct {
	Date        time.Time
	Kind        EntryKind
	Description string
	// Counterpart is the canonical name of the other account for transfer lines.
	Counterpart string
	Amount      decimal.Decimal
	Balance     decimal.Decimal
}

type Totals struct {
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	TransfersIn  decimal.Decimal
	TransfersOut decimal.Decimal
}

// NetTransfers is incoming minus outgoing transfers.
func (t Totals) NetTransfers() decimal.Decimal {
	return t.TransfersIn.Sub(t.TransfersOut)
}

// Net is the total change to the balance inside the window.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expenses).Add(t.NetTransfers())
}

type Statement struct {
	Account ledger.Account
	Window  ledger.Window
	// Opening is the balance before the first entry ever posted.
	Opening decimal.Decimal
	// Start is the balance the window's replay begins from.
	Start             decimal.Decimal
	RolledForwardDate omit.Val[time.Time]
	Lines             []Line
	Closing           decimal.Decimal
	Totals            Totals
}

type entry struct {
	date time.Time
	line Line
}

// Build reconstructs the running-balance statement of the named account over
// the window. The snapshot is never modified. When the replay does not land
// on the stored balance the statement is still returned along with an
// *InconsistencyError.
func Build(s *ledger.Snapshot, account string, w ledger.Window) (*Statement, error) {
	acc, ok := s.Account(account)
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}

	entries := history(s, acc.Name)

	opening := acc.Balance
	for _, e := range entries {
		opening = opening.Sub(e.line.Amount)
	}

	st := &Statement{
		Account: acc,
		Window:  w,
		Opening: opening,
		Totals: Totals{
			Income:       decimal.Zero,
			Expenses:     decimal.Zero,
			TransfersIn:  decimal.Zero,
			TransfersOut: decimal.Zero,
		},
	}

	from, hasFrom := w.From.Get()
	to, hasTo := w.To.Get()

	running := opening
	i := 0
	for ; i < len(entries) && hasFrom && entries[i].date.Before(from); i++ {
		running = running.Add(entries[i].line.Amount)
		st.RolledForwardDate = omit.From(entries[i].date)
	}
	st.Start = running

	for ; i < len(entries) && !(hasTo && entries[i].date.After(to)); i++ {
		running = running.Add(entries[i].line.Amount)
		line := entries[i].line
		line.Balance = running
		st.Lines = append(st.Lines, line)
		st.Totals.add(line)
	}
	st.Closing = running

	for ; i < len(entries); i++ {
		running = running.Add(entries[i].line.Amount)
	}
	if err := checkReplay(acc, running); err != nil {
		return st, err
	}
	return st, nil
}

// history merges every entry touching the account into date order. Same-day
// entries keep transactions first, then outgoing and incoming transfers, each
// in insertion order.
func history(s *ledger.Snapshot, account string) []entry {
	var out []entry
	for _, t := range s.TransactionsFor(account, ledger.Window{}) {
		kind := EntryIncome
		if t.Kind == ledger.KindExpense {
			kind = EntryExpense
		}
		desc := t.Label
		if t.Description != "" {
			if desc != "" {
				desc += " - "
			}
			desc += t.Description
		}
		out = append(out, entry{date: t.Date, line: Line{Date: t.Date, Kind: kind, Description: desc, Amount: t.Signed()}})
	}
	for _, t := range s.OutgoingTransfers(account, ledger.Window{}) {
		other := ledger.CanonicalName(t.To)
		out = append(out, entry{date: t.Date, line: Line{
			Date:        t.Date,
			Kind:        EntryTransferOut,
			Description: "transfer to " + other,
			Counterpart: other,
			Amount:      t.Amount.Neg(),
		}})
	}
	for _, t := range s.IncomingTransfers(account, ledger.Window{}) {
		other := ledger.CanonicalName(t.From)
		out = append(out, entry{date: t.Date, line: Line{
			Date:        t.Date,
			Kind:        EntryTransferIn,
			Description: "transfer from " + other,
			Counterpart: other,
			Amount:      t.Amount,
		}})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].date.Before(out[j].date) })
	return out
}

func (t *Totals) add(l Line) {
	switch l.Kind {
	case EntryIncome:
		t.Income = t.Income.Add(l.Amount)
	case EntryExpense:
		t.Expenses = t.Expenses.Add(l.Amount.Neg())
	case EntryTransferIn:
		t.TransfersIn = t.TransfersIn.Add(l.Amount)
	case EntryTransferOut:
		t.TransfersOut = t.TransfersOut.Add(l.Amount.Neg())
	}
}

func checkReplay(acc ledger.Account, replayed decimal.Decimal) error {
	if replayed.Sub(acc.Balance).Abs().GreaterThan(tolerance) {
		return &InconsistencyError{Account: acc.Name, Replayed: replayed, Stored: acc.Balance}
	}
	return nil
}
