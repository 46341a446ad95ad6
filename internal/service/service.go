package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/operator/actions"
	"github.com/carson-networks/finance-bot/internal/storage"
	"github.com/carson-networks/finance-bot/internal/transfer"
)

// Processor runs a posting action through the single-writer queue.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Options carries the behaviour switches the services share.
type Options struct {
	Mode     ledger.MatchMode
	Policy   transfer.Policy
	Baseline decimal.Decimal
	Now      func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Service holds all business logic services.
type Service struct {
	Account     *AccountService
	Transaction *TransactionService
	Transfer    *TransferService
	Statement   *StatementService
}

// NewService creates a new Service over the given storage and posting queue.
func NewService(store *storage.Storage, proc Processor, ex *extractor.Extractor, opts Options, log *logrus.Logger) *Service {
	return &Service{
		Account:     NewAccountService(store, proc, opts),
		Transaction: NewTransactionService(store, proc, ex, opts),
		Transfer:    NewTransferService(proc, opts, log),
		Statement:   NewStatementService(store, opts, log),
	}
}
