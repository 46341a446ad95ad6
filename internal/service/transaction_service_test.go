package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aarondl/opt/omit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
)

const posText = "POS Purchase\nAmount: 120.50 SAR\nAt Danube Hyper\nBy mada ***9281\nOn 05/08/25"

// -- Post tests --

func TestPost_Expense(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	posted, err := env.svc.Transaction.Post(context.Background(), PostRequest{
		Kind:        ledger.KindExpense,
		AccountText: "cash",
		Amount:      dec("50"),
		Label:       "food",
	})

	require.NoError(t, err)
	assert.True(t, posted.Account.Balance.Equal(dec("1950")))
	assert.Equal(t, "💵 Cash", posted.Transaction.Account)
	assert.Equal(t, ledger.Day(testNow), posted.Transaction.Date)
	assert.True(t, posted.Budget.Equal(dec("2550")))

	txs := env.store.Read().Transactions
	require.Len(t, txs, 1)
	assert.Equal(t, ledger.KindExpense, txs[0].Kind)
	assert.Equal(t, "food", txs[0].Label)
	assert.Equal(t, 1, env.backend.Replaces())
}

func TestPost_IncomeWithDate(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)
	date := ledger.Day(testNow.AddDate(0, 0, -3))

	posted, err := env.svc.Transaction.Post(context.Background(), PostRequest{
		Kind:        ledger.KindIncome,
		AccountText: "bank",
		Amount:      dec("5000"),
		Label:       "salary",
		Date:        omit.From(date),
	})

	require.NoError(t, err)
	assert.True(t, posted.Account.Balance.Equal(dec("5100")))
	assert.Equal(t, date, env.store.Read().Transactions[0].Date)
}

func TestPost_AccountNotFound(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	_, err := env.svc.Transaction.Post(context.Background(), PostRequest{
		Kind:        ledger.KindExpense,
		AccountText: "wallet",
		Amount:      dec("10"),
	})

	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	assert.Empty(t, env.store.Read().Transactions)
	assert.Equal(t, 0, env.backend.Replaces())
}

func TestPost_StrictAmbiguity(t *testing.T) {
	accounts := append(defaultAccounts(), ledger.Account{Name: "🏛 Bank Savings", Type: ledger.AccountTypeBank})
	env := newTestEnv(t, accounts, func(o *Options, _ *extractor.Rules) {
		o.Mode = ledger.MatchStrict
	})

	_, err := env.svc.Transaction.Post(context.Background(), PostRequest{
		Kind:        ledger.KindExpense,
		AccountText: "ban",
		Amount:      dec("10"),
	})

	var ambiguous *ledger.AmbiguousAccountError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []string{"Bank", "Bank Savings"}, ambiguous.Candidates)
}

// -- Recent / ListTransactions tests --

func postN(t *testing.T, env *testEnv, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := env.svc.Transaction.Post(context.Background(), PostRequest{
			Kind:        ledger.KindExpense,
			AccountText: "cash",
			Amount:      dec("1"),
			Label:       string(rune('a' + i)),
		})
		require.NoError(t, err)
	}
}

func TestRecent_LastTen(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)
	postN(t, env, 12)

	recent := env.svc.Transaction.Recent(context.Background())

	require.Len(t, recent, 10)
	assert.Equal(t, "c", recent[0].Label)
	assert.Equal(t, "l", recent[9].Label)
}

func TestListTransactions_NoResults(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	txs, next, err := env.svc.Transaction.ListTransactions(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, txs)
	assert.Nil(t, next)
}

func TestListTransactions_NewestFirstAndStablePages(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)
	postN(t, env, 5)

	first, next, err := env.svc.Transaction.ListTransactions(context.Background(), &TransactionCursor{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "e", first[0].Label)
	assert.Equal(t, "d", first[1].Label)
	require.NotNil(t, next)
	assert.Equal(t, 5, next.Count)

	postN(t, env, 1)

	second, next, err := env.svc.Transaction.ListTransactions(context.Background(), next)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "c", second[0].Label, "a posting after the first page does not shift later pages")
	require.NotNil(t, next)

	last, next, err := env.svc.Transaction.ListTransactions(context.Background(), next)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "a", last[0].Label)
	assert.Nil(t, next)
}

// -- Extract tests --

func TestExtract_CoffeeShop(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	got, err := env.svc.Transaction.Extract(context.Background(), "Amount 67.00 SAR ... POS Purchase ... At Coffee Shop")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ledger.KindExpense, got[0].Kind)
	assert.Equal(t, "coffee", got[0].Category)
}

func TestExtract_Empty(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	_, err := env.svc.Transaction.Extract(context.Background(), "hello there")

	assert.ErrorIs(t, err, extractor.ErrExtractionEmpty)
}

// -- InferAccount / PostExtracted tests --

func TestInferAccount_CardMap(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), func(_ *Options, r *extractor.Rules) {
		r.Cards = []extractor.CardAccount{{Digits: "9281", Account: "credit"}}
	})
	got, err := env.svc.Transaction.Extract(context.Background(), posText)
	require.NoError(t, err)

	assert.Equal(t, "credit", env.svc.Transaction.InferAccount(got[0]))
}

func TestInferAccount_DigitsInAccountName(t *testing.T) {
	accounts := append(defaultAccounts(), ledger.Account{Name: "🏛 Rajhi 9281", Type: ledger.AccountTypeBank, Balance: dec("300")})
	env := newTestEnv(t, accounts, nil)
	got, err := env.svc.Transaction.Extract(context.Background(), posText)
	require.NoError(t, err)

	assert.Equal(t, "🏛 Rajhi 9281", env.svc.Transaction.InferAccount(got[0]))
}

func TestInferAccount_DefaultForKind(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), func(_ *Options, r *extractor.Rules) {
		r.DefaultExpenseAccount = "💳 Credit Card"
	})
	got, err := env.svc.Transaction.Extract(context.Background(), posText)
	require.NoError(t, err)

	assert.Equal(t, "💳 Credit Card", env.svc.Transaction.InferAccount(got[0]))
}

func TestPostExtracted_UsesNotificationDate(t *testing.T) {
	accounts := append(defaultAccounts(), ledger.Account{Name: "🏛 Rajhi 9281", Type: ledger.AccountTypeBank, Balance: dec("300")})
	env := newTestEnv(t, accounts, nil)
	got, err := env.svc.Transaction.Extract(context.Background(), posText)
	require.NoError(t, err)

	posted, err := env.svc.Transaction.PostExtracted(context.Background(), got[0], "")

	require.NoError(t, err)
	assert.True(t, posted.Account.Balance.Equal(dec("179.50")))
	tx := env.store.Read().Transactions[0]
	assert.Equal(t, "supermarket", tx.Label)
	assert.Equal(t, "Danube Hyper", tx.Description)
	assert.Equal(t, ledger.Day(testNow.AddDate(0, 0, -15)), tx.Date)
}

func TestPostExtracted_NoAccount(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)
	got, err := env.svc.Transaction.Extract(context.Background(), "Amount 67.00 SAR ... POS Purchase ... At Coffee Shop")
	require.NoError(t, err)

	_, err = env.svc.Transaction.PostExtracted(context.Background(), got[0], "")

	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	assert.Empty(t, env.store.Read().Transactions)
}

func TestPostExtracted_ExplicitAccount(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)
	got, err := env.svc.Transaction.Extract(context.Background(), "Amount 67.00 SAR ... POS Purchase ... At Coffee Shop")
	require.NoError(t, err)

	posted, err := env.svc.Transaction.PostExtracted(context.Background(), got[0], "cash")

	require.NoError(t, err)
	assert.True(t, posted.Account.Balance.Equal(dec("1933")))
	assert.Equal(t, ledger.Day(testNow), env.store.Read().Transactions[0].Date)
}
