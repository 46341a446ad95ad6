package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
)

func manyAccounts(n int) []ledger.Account {
	accounts := make([]ledger.Account, n)
	for i := range accounts {
		accounts[i] = ledger.Account{Name: fmt.Sprintf("Account %02d", i), Type: ledger.AccountTypeBank, Balance: dec("1")}
	}
	return accounts
}

// -- CreateAccount tests --

func TestCreateAccount_Success(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	a, err := env.svc.Account.CreateAccount(context.Background(), "🏦 Riyad Bank", ledger.AccountTypeBank, dec("5000"))

	require.NoError(t, err)
	assert.Equal(t, "🏦 Riyad Bank", a.Name)
	assert.True(t, env.balance(t, "🏦 Riyad Bank").Equal(dec("5000")))
	assert.Equal(t, 1, env.backend.Replaces())
}

func TestCreateAccount_Duplicate(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	_, err := env.svc.Account.CreateAccount(context.Background(), "💵 Cash", ledger.AccountTypeCash, dec("1"))

	assert.ErrorIs(t, err, ledger.ErrDuplicateAccount)
	assert.Len(t, env.store.Read().Accounts, 3)
	assert.Equal(t, 0, env.backend.Replaces())
}

// -- GetAccount tests --

func TestGetAccount_ResolvesText(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	a, err := env.svc.Account.GetAccount(context.Background(), "credit")
	require.NoError(t, err)
	assert.Equal(t, "💳 Credit Card", a.Name)

	_, err = env.svc.Account.GetAccount(context.Background(), "wallet")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

// -- ListAccounts tests --

func TestListAccounts_NoResults(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	accounts, next, err := env.svc.Account.ListAccounts(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, accounts)
	assert.Nil(t, next)
}

func TestListAccounts_SinglePage(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	accounts, next, err := env.svc.Account.ListAccounts(context.Background(), nil)

	assert.NoError(t, err)
	assert.Len(t, accounts, 3)
	assert.Nil(t, next)
	assert.Equal(t, "💵 Cash", accounts[0].Name)
}

func TestListAccounts_HasNextPage(t *testing.T) {
	env := newTestEnv(t, manyAccounts(defaultAccountLimit+1), nil)

	accounts, next, err := env.svc.Account.ListAccounts(context.Background(), nil)

	assert.NoError(t, err)
	assert.Len(t, accounts, defaultAccountLimit, "truncated to default account limit")
	require.NotNil(t, next)
	assert.Equal(t, defaultAccountLimit, next.Position)
	assert.Equal(t, defaultAccountLimit, next.Limit)
}

func TestListAccounts_WithCursor(t *testing.T) {
	env := newTestEnv(t, manyAccounts(25), nil)

	accounts, next, err := env.svc.Account.ListAccounts(context.Background(), &AccountCursor{
		Position: 20,
		Limit:    2,
	})

	assert.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Account 20", accounts[0].Name)
	require.NotNil(t, next)
	assert.Equal(t, 22, next.Position)
	assert.Equal(t, 2, next.Limit)
}

// -- Overview tests --

func TestOverview_SortedWithBudget(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), func(o *Options, _ *extractor.Rules) {
		o.Baseline = dec("2000")
	})

	overview := env.svc.Account.Overview(context.Background())

	require.Len(t, overview.Accounts, 3)
	assert.Equal(t, "🏛 Bank", overview.Accounts[0].Name)
	assert.Equal(t, "💵 Cash", overview.Accounts[2].Name)
	assert.True(t, overview.Total.Equal(dec("2600")))
	assert.True(t, overview.Budget.Equal(dec("600")))
	assert.True(t, env.svc.Account.Budget().Equal(dec("600")))
}

func TestNames_Canonical(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)
	assert.Equal(t, []string{"Cash", "Bank", "Credit Card"}, env.svc.Account.Names())
}

// -- Reload tests --

func TestReload_ReadsBackendAgain(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)
	edited := env.store.Read().Clone()
	edited.Accounts = edited.Accounts[:1]
	require.NoError(t, env.backend.Replace(context.Background(), edited))

	require.NoError(t, env.svc.Account.Reload(context.Background()))

	assert.Equal(t, []string{"Cash"}, env.svc.Account.Names())
}
