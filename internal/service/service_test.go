package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/operator"
	"github.com/carson-networks/finance-bot/internal/storage"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

var testNow = time.Date(2025, time.August, 20, 14, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type testEnv struct {
	svc     *Service
	store   *storage.Storage
	backend *storage.MemoryBackend
	hook    *test.Hook
}

func defaultAccounts() []ledger.Account {
	return []ledger.Account{
		{Name: "💵 Cash", Type: ledger.AccountTypeCash, Balance: dec("2000")},
		{Name: "🏛 Bank", Type: ledger.AccountTypeBank, Balance: dec("100")},
		{Name: "💳 Credit Card", Type: ledger.AccountTypeCreditCard, Balance: dec("500")},
	}
}

func newTestEnv(t *testing.T, accounts []ledger.Account, mutate func(*Options, *extractor.Rules)) *testEnv {
	t.Helper()

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	opts := Options{
		Mode:     ledger.MatchFirst,
		Policy:   transfer.PolicyPreserve,
		Baseline: decimal.Zero,
		Now:      func() time.Time { return testNow },
	}
	rules := extractor.DefaultRules()
	if mutate != nil {
		mutate(&opts, &rules)
	}

	ex, err := extractor.New(rules)
	require.NoError(t, err)

	backend := storage.NewMemoryBackend(&ledger.Snapshot{Accounts: accounts})
	store, err := storage.Open(context.Background(), backend, nil, log)
	require.NoError(t, err)

	delegator := operator.NewOperatorDelegator(store, 1)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	return &testEnv{
		svc:     NewService(store, delegator, ex, opts, log),
		store:   store,
		backend: backend,
		hook:    hook,
	}
}

func (e *testEnv) balance(t *testing.T, name string) decimal.Decimal {
	t.Helper()
	a, ok := e.store.Read().Account(name)
	require.True(t, ok, name)
	return a.Balance
}
