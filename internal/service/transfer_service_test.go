package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

// -- Request tests --

func TestTransferRequest_Executes(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	out, err := env.svc.Transfer.Request(context.Background(), "cash", "bank", dec("300"))

	require.NoError(t, err)
	assert.Equal(t, transfer.StateExecuted, out.State)
	assert.True(t, env.balance(t, "💵 Cash").Equal(dec("1700")))
	assert.True(t, env.balance(t, "🏛 Bank").Equal(dec("400")))
	require.Len(t, env.store.Read().Transfers, 1)
	assert.Equal(t, ledger.Day(testNow), env.store.Read().Transfers[0].Date)
}

func TestTransferRequest_RejectsInsufficientFunds(t *testing.T) {
	accounts := defaultAccounts()
	accounts[0].Balance = dec("500")
	env := newTestEnv(t, accounts, nil)

	out, err := env.svc.Transfer.Request(context.Background(), "cash", "bank", dec("1000"))

	require.NoError(t, err)
	assert.Equal(t, transfer.StateRejected, out.State)
	assert.ErrorIs(t, out.Err, ledger.ErrInsufficientFunds)
	assert.True(t, env.balance(t, "💵 Cash").Equal(dec("500")))
	assert.Empty(t, env.store.Read().Transfers)
	assert.Equal(t, 0, env.backend.Replaces())
}

func TestTransferRequest_PendingThenConfirmed(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	out, err := env.svc.Transfer.Request(context.Background(), "credit", "bank", dec("1000"))
	require.NoError(t, err)
	require.Equal(t, transfer.StatePendingConfirmation, out.State)
	require.NotNil(t, out.Pending)
	assert.True(t, out.Pending.Projected().Equal(dec("-500")))
	assert.Equal(t, 0, env.backend.Replaces())

	done, err := env.svc.Transfer.Confirm(context.Background(), out.Pending, "نعم")

	require.NoError(t, err)
	assert.Equal(t, transfer.StateExecuted, done.State)
	assert.False(t, done.Drifted)
	assert.True(t, env.balance(t, "💳 Credit Card").Equal(dec("-500")))
	assert.True(t, env.balance(t, "🏛 Bank").Equal(dec("1100")))
}

func TestTransferConfirm_DeclinedLeavesLedger(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)
	out, err := env.svc.Transfer.Request(context.Background(), "credit", "bank", dec("1000"))
	require.NoError(t, err)

	done, err := env.svc.Transfer.Confirm(context.Background(), out.Pending, "لا")

	require.NoError(t, err)
	assert.Equal(t, transfer.StateCancelled, done.State)
	assert.True(t, env.balance(t, "💳 Credit Card").Equal(dec("500")))
	assert.Empty(t, env.store.Read().Transfers)
}

func TestTransferConfirm_NothingPending(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)

	_, err := env.svc.Transfer.Confirm(context.Background(), nil, "نعم")

	assert.ErrorIs(t, err, transfer.ErrNotPending)
	assert.Empty(t, env.store.Read().Transfers)
}

func TestTransferCancel_Idempotent(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)
	out, err := env.svc.Transfer.Request(context.Background(), "credit", "bank", dec("1000"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, transfer.StateCancelled, env.svc.Transfer.Cancel(*out.Pending).State)
	}
	assert.True(t, env.balance(t, "💳 Credit Card").Equal(dec("500")))
	assert.Equal(t, 0, env.backend.Replaces())
}

func TestTransferConfirm_DriftIsLogged(t *testing.T) {
	env := newTestEnv(t, defaultAccounts(), nil)
	out, err := env.svc.Transfer.Request(context.Background(), "credit", "bank", dec("1000"))
	require.NoError(t, err)

	_, err = env.svc.Transaction.Post(context.Background(), PostRequest{Kind: ledger.KindExpense, AccountText: "credit", Amount: dec("100")})
	require.NoError(t, err)

	done, err := env.svc.Transfer.Confirm(context.Background(), out.Pending, "yes")

	require.NoError(t, err)
	assert.Equal(t, transfer.StateExecuted, done.State)
	assert.True(t, done.Drifted)
	assert.True(t, env.balance(t, "💳 Credit Card").Equal(dec("-600")))

	entry := env.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "Transfer.Confirm.BalanceDrift", entry.Message)
}

func TestTransferConfirm_RevalidateRejects(t *testing.T) {
	accounts := defaultAccounts()
	accounts[2] = ledger.Account{Name: "💵 Wallet", Type: ledger.AccountTypeCash, Balance: dec("500")}
	env := newTestEnv(t, accounts, func(o *Options, _ *extractor.Rules) {
		o.Policy = transfer.PolicyRevalidate
	})
	pending := transfer.Pending{From: "💵 Wallet", To: "🏛 Bank", Amount: dec("800"), StagedFromBalance: dec("900"), StagedToBalance: dec("100")}

	done, err := env.svc.Transfer.Confirm(context.Background(), &pending, "ok")

	require.NoError(t, err)
	assert.Equal(t, transfer.StateRejected, done.State)
	assert.ErrorIs(t, done.Err, ledger.ErrInsufficientFunds)
	assert.True(t, env.balance(t, "💵 Wallet").Equal(dec("500")))
	assert.Equal(t, transfer.PolicyRevalidate, env.svc.Transfer.Policy())
}
