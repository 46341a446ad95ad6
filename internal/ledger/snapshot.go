package ledger

import (
	"sort"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"
)

// Kind is the direction of a transaction.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// ParseKind maps stored or user text to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "expense", "مصروف":
		return KindExpense, true
	case "income", "دخل":
		return KindIncome, true
	}
	return "", false
}

// Transaction is an expense or income posted against one account.
type Transaction struct {
	Date        time.Time
	Kind        Kind
	Amount      decimal.Decimal
	Account     string
	Label       string
	Description string
}

// Signed returns the effect of the transaction on its account's balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Transfer moves money between two accounts.
type Transfer struct {
	Date   time.Time
	From   string
	To     string
	Amount decimal.Decimal
}

// Window is an optional inclusive date range.
type Window struct {
	From omit.Val[time.Time]
	To   omit.Val[time.Time]
}

// Contains reports whether day d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	if from, ok := w.From.Get(); ok && d.Before(from) {
		return false
	}
	if to, ok := w.To.Get(); ok && d.After(to) {
		return false
	}
	return true
}

// Snapshot is the full in-memory content of the three ledger tables.
type Snapshot struct {
	Accounts     []Account
	Transactions []Transaction
	Transfers    []Transfer
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Clone returns a deep copy that can be mutated independently.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Accounts:     make([]Account, len(s.Accounts)),
		Transactions: make([]Transaction, len(s.Transactions)),
		Transfers:    make([]Transfer, len(s.Transfers)),
	}
	copy(c.Accounts, s.Accounts)
	copy(c.Transactions, s.Transactions)
	copy(c.Transfers, s.Transfers)
	return c
}

// AppendTransaction appends without validation.
func (s *Snapshot) AppendTransaction(t Transaction) {
	s.Transactions = append(s.Transactions, t)
}

// AppendTransfer appends without validation.
func (s *Snapshot) AppendTransfer(t Transfer) {
	s.Transfers = append(s.Transfers, t)
}

// TransactionsFor returns the account's transactions inside the window,
// ordered by date with insertion order kept for same-day rows.
func (s *Snapshot) TransactionsFor(account string, w Window) []Transaction {
	var out []Transaction
	for _, t := range s.Transactions {
		if t.Account == account && w.Contains(t.Date) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// OutgoingTransfers returns transfers leaving the account inside the window.
func (s *Snapshot) OutgoingTransfers(account string, w Window) []Transfer {
	return s.transfersWhere(w, func(t Transfer) bool { return t.From == account })
}

// IncomingTransfers returns transfers entering the account inside the window.
func (s *Snapshot) IncomingTransfers(account string, w Window) []Transfer {
	return s.transfersWhere(w, func(t Transfer) bool { return t.To == account })
}

func (s *Snapshot) transfersWhere(w Window, match func(Transfer) bool) []Transfer {
	var out []Transfer
	for _, t := range s.Transfers {
		if match(t) && w.Contains(t.Date) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// RecentTransactions returns up to n of the most recently appended
// transactions, oldest first.
func (s *Snapshot) RecentTransactions(n int) []Transaction {
	if n <= 0 {
		return nil
	}
	start := len(s.Transactions) - n
	if start < 0 {
		start = 0
	}
	out := make([]Transaction, len(s.Transactions)-start)
	copy(out, s.Transactions[start:])
	return out
}

// PostTransaction applies the transaction to its account's balance and
// appends it to the ledger. It returns the updated account.
func (s *Snapshot) PostTransaction(t Transaction) (Account, error) {
	if !t.Amount.IsPositive() {
		return Account{}, ErrInvalidAmount
	}
	if t.Kind != KindExpense && t.Kind != KindIncome {
		return Account{}, ErrInvalidAmount
	}
	idx := s.indexOf(t.Account)
	if idx < 0 {
		return Account{}, ErrAccountNotFound
	}
	s.Accounts[idx].Balance = s.Accounts[idx].Balance.Add(t.Signed())
	s.AppendTransaction(t)
	return s.Accounts[idx], nil
}

// PostTransfer moves the amount between both accounts and appends the
// transfer. It performs no negative-balance check; that is the workflow's job.
func (s *Snapshot) PostTransfer(t Transfer) (from, to Account, err error) {
	if !t.Amount.IsPositive() {
		return Account{}, Account{}, ErrInvalidAmount
	}
	if t.From == t.To {
		return Account{}, Account{}, ErrSameAccount
	}
	fromIdx, toIdx := s.indexOf(t.From), s.indexOf(t.To)
	if fromIdx < 0 || toIdx < 0 {
		return Account{}, Account{}, ErrAccountNotFound
	}
	s.Accounts[fromIdx].Balance = s.Accounts[fromIdx].Balance.Sub(t.Amount)
	s.Accounts[toIdx].Balance = s.Accounts[toIdx].Balance.Add(t.Amount)
	s.AppendTransfer(t)
	return s.Accounts[fromIdx], s.Accounts[toIdx], nil
}
