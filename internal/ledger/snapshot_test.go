package ledger

import (
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// -- PostTransaction tests --

func TestPostTransaction_Expense(t *testing.T) {
	s := &Snapshot{Accounts: []Account{{Name: "Cash", Type: AccountTypeCash, Balance: decimal.RequireFromString("2000")}}}

	a, err := s.PostTransaction(Transaction{
		Date:    day(2025, 8, 1),
		Kind:    KindExpense,
		Amount:  decimal.RequireFromString("50"),
		Account: "Cash",
		Label:   "food",
	})

	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(decimal.RequireFromString("1950")))
	assert.Len(t, s.Transactions, 1)
	assert.Equal(t, "food", s.Transactions[0].Label)
}

func TestPostTransaction_Income(t *testing.T) {
	s := &Snapshot{Accounts: []Account{{Name: "Bank", Type: AccountTypeBank, Balance: decimal.RequireFromString("10")}}}

	a, err := s.PostTransaction(Transaction{Kind: KindIncome, Amount: decimal.RequireFromString("5.25"), Account: "Bank"})

	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(decimal.RequireFromString("15.25")))
}

func TestPostTransaction_Rejects(t *testing.T) {
	s := &Snapshot{Accounts: []Account{{Name: "Bank", Type: AccountTypeBank, Balance: decimal.RequireFromString("10")}}}

	_, err := s.PostTransaction(Transaction{Kind: KindExpense, Amount: decimal.Zero, Account: "Bank"})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.PostTransaction(Transaction{Kind: KindExpense, Amount: decimal.RequireFromString("-3"), Account: "Bank"})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.PostTransaction(Transaction{Kind: KindExpense, Amount: decimal.RequireFromString("3"), Account: "Nope"})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	assert.Empty(t, s.Transactions)
	assert.True(t, s.Accounts[0].Balance.Equal(decimal.RequireFromString("10")))
}

// -- PostTransfer tests --

func TestPostTransfer_Conserves(t *testing.T) {
	s := &Snapshot{Accounts: []Account{
		{Name: "Cash", Balance: decimal.RequireFromString("500")},
		{Name: "Bank", Balance: decimal.RequireFromString("100")},
	}}
	before := s.Total()

	from, to, err := s.PostTransfer(Transfer{From: "Cash", To: "Bank", Amount: decimal.RequireFromString("200")})

	require.NoError(t, err)
	assert.True(t, from.Balance.Equal(decimal.RequireFromString("300")))
	assert.True(t, to.Balance.Equal(decimal.RequireFromString("300")))
	assert.True(t, s.Total().Equal(before))
	assert.Len(t, s.Transfers, 1)
}

func TestPostTransfer_Rejects(t *testing.T) {
	s := &Snapshot{Accounts: []Account{{Name: "Cash"}, {Name: "Bank"}}}

	_, _, err := s.PostTransfer(Transfer{From: "Cash", To: "Cash", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrSameAccount)

	_, _, err = s.PostTransfer(Transfer{From: "Cash", To: "Gone", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, _, err = s.PostTransfer(Transfer{From: "Cash", To: "Bank", Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.Empty(t, s.Transfers)
}

// -- View tests --

func TestTransactionsFor_WindowAndOrder(t *testing.T) {
	s := &Snapshot{Transactions: []Transaction{
		{Date: day(2025, 8, 3), Account: "Cash", Label: "c"},
		{Date: day(2025, 8, 1), Account: "Cash", Label: "a"},
		{Date: day(2025, 8, 3), Account: "Cash", Label: "d"},
		{Date: day(2025, 8, 2), Account: "Bank", Label: "x"},
		{Date: day(2025, 8, 9), Account: "Cash", Label: "z"},
	}}

	all := s.TransactionsFor("Cash", Window{})
	labels := make([]string, len(all))
	for i, tx := range all {
		labels[i] = tx.Label
	}
	assert.Equal(t, []string{"a", "c", "d", "z"}, labels)

	windowed := s.TransactionsFor("Cash", Window{From: omit.From(day(2025, 8, 2)), To: omit.From(day(2025, 8, 3))})
	require.Len(t, windowed, 2)
	assert.Equal(t, "c", windowed[0].Label)
	assert.Equal(t, "d", windowed[1].Label)
}

func TestTransfers_Legs(t *testing.T) {
	s := &Snapshot{Transfers: []Transfer{
		{Date: day(2025, 8, 2), From: "Cash", To: "Bank", Amount: decimal.NewFromInt(1)},
		{Date: day(2025, 8, 1), From: "Bank", To: "Cash", Amount: decimal.NewFromInt(2)},
		{Date: day(2025, 8, 5), From: "Cash", To: "Card", Amount: decimal.NewFromInt(3)},
	}}

	out := s.OutgoingTransfers("Cash", Window{})
	require.Len(t, out, 2)
	assert.Equal(t, "Bank", out[0].To)
	assert.Equal(t, "Card", out[1].To)

	in := s.IncomingTransfers("Cash", Window{To: omit.From(day(2025, 8, 1))})
	require.Len(t, in, 1)
	assert.True(t, in[0].Amount.Equal(decimal.NewFromInt(2)))
}

func TestRecentTransactions(t *testing.T) {
	s := &Snapshot{}
	for i := 0; i < 5; i++ {
		s.AppendTransaction(Transaction{Label: string(rune('a' + i))})
	}

	recent := s.RecentTransactions(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "c", recent[0].Label)
	assert.Equal(t, "e", recent[2].Label)

	assert.Len(t, s.RecentTransactions(10), 5)
	assert.Nil(t, s.RecentTransactions(0))
}

func TestClone_IsIndependent(t *testing.T) {
	s := &Snapshot{Accounts: []Account{{Name: "Cash", Balance: decimal.NewFromInt(1)}}}

	c := s.Clone()
	c.Accounts[0].Balance = decimal.NewFromInt(99)
	c.AppendTransaction(Transaction{Label: "x"})

	assert.True(t, s.Accounts[0].Balance.Equal(decimal.NewFromInt(1)))
	assert.Empty(t, s.Transactions)
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-08-01")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 8, 1), d)

	d, err = ParseDay("2025-08-01 13:45:00")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 8, 1), d)

	_, err = ParseDay("01/08/2025")
	assert.Error(t, err)
}
