package operator

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/operator/actions"
	"github.com/carson-networks/finance-bot/internal/storage"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

func newTestDelegator(t *testing.T) (*OperatorDelegator, *storage.Storage, *storage.MemoryBackend) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	backend := storage.NewMemoryBackend(&ledger.Snapshot{Accounts: []ledger.Account{
		{Name: "💵 Cash", Type: ledger.AccountTypeCash, Balance: decimal.NewFromInt(500)},
		{Name: "🏛 Bank", Type: ledger.AccountTypeBank, Balance: decimal.NewFromInt(100)},
	}})
	store, err := storage.Open(context.Background(), backend, nil, log)
	require.NoError(t, err)

	d := NewOperatorDelegator(store, 1)
	d.Start()
	t.Cleanup(d.Stop)
	return d, store, backend
}

type failingAction struct{}

func (failingAction) Perform(_ context.Context, writer *storage.Writer) error {
	writer.Snapshot.Accounts[0].Balance = decimal.Zero
	return errors.New("boom")
}

// -- Process tests --

func TestProcess_CommitsAction(t *testing.T) {
	d, store, backend := newTestDelegator(t)

	action := &actions.PostTransaction{AccountText: "cash", Kind: ledger.KindExpense, Amount: decimal.NewFromInt(50), Label: "food"}
	require.NoError(t, d.Process(context.Background(), action))

	assert.True(t, action.Account.Balance.Equal(decimal.NewFromInt(450)))
	assert.Len(t, store.Read().Transactions, 1)
	assert.Equal(t, 1, backend.Replaces())
}

func TestProcess_RollsBackOnError(t *testing.T) {
	d, store, backend := newTestDelegator(t)

	err := d.Process(context.Background(), failingAction{})

	assert.EqualError(t, err, "boom")
	assert.True(t, store.Read().Accounts[0].Balance.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 0, backend.Replaces())
}

func TestProcess_NoChangeSkipsFlush(t *testing.T) {
	d, store, backend := newTestDelegator(t)

	action := &actions.RequestTransfer{Request: transfer.Request{From: "cash", To: "bank", Amount: decimal.NewFromInt(900)}}
	require.NoError(t, d.Process(context.Background(), action))

	assert.Equal(t, transfer.StateRejected, action.Outcome.State)
	assert.Equal(t, 0, backend.Replaces())
	assert.Empty(t, store.Read().Transfers)
}

func TestProcess_SerialisesConcurrentPostings(t *testing.T) {
	d, store, _ := newTestDelegator(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			action := &actions.PostTransaction{AccountText: "cash", Kind: ledger.KindExpense, Amount: decimal.NewFromInt(10)}
			assert.NoError(t, d.Process(context.Background(), action))
		}()
	}
	wg.Wait()

	cash, _ := store.Read().Account("💵 Cash")
	assert.True(t, cash.Balance.Equal(decimal.NewFromInt(300)))
	assert.Len(t, store.Read().Transactions, 20)
}

func TestProcess_CreateAccountDuplicate(t *testing.T) {
	d, _, _ := newTestDelegator(t)

	err := d.Process(context.Background(), &actions.CreateAccount{Name: "💵 Cash", Type: ledger.AccountTypeCash})

	assert.ErrorIs(t, err, ledger.ErrDuplicateAccount)
}

type panickingAction struct{}

func (panickingAction) Perform(_ context.Context, writer *storage.Writer) error {
	writer.Snapshot.Accounts[0].Balance = decimal.Zero
	panic("index out of range")
}

func TestProcess_RecoversPanic(t *testing.T) {
	d, store, backend := newTestDelegator(t)

	err := d.Process(context.Background(), panickingAction{})

	assert.ErrorIs(t, err, ErrActionPanicked)
	assert.True(t, store.Read().Accounts[0].Balance.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 0, backend.Replaces())

	// the worker survives and the write slot was released
	action := &actions.PostTransaction{AccountText: "cash", Kind: ledger.KindIncome, Amount: decimal.NewFromInt(1)}
	require.NoError(t, d.Process(context.Background(), action))
}

func TestProcess_AfterStop(t *testing.T) {
	d, _, _ := newTestDelegator(t)
	d.Stop()

	err := d.Process(context.Background(), &actions.CreateAccount{Name: "Wallet"})

	assert.ErrorIs(t, err, ErrStopped)
}

func TestProcess_RecordsLedgerWrite(t *testing.T) {
	d, _, _ := newTestDelegator(t)
	log, hook := test.NewNullLogger()
	logData := logging.NewLogData(log)
	ctx := logging.WithLogData(context.Background(), logData)

	action := &actions.PostTransaction{AccountText: "bank", Kind: ledger.KindIncome, Amount: decimal.NewFromInt(5)}
	require.NoError(t, d.Process(ctx, action))
	logData.Log().Info("done")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, true, entry.Data["ledgerChanged"])
	assert.Contains(t, entry.Data, "ledgerWriteMs")
}
