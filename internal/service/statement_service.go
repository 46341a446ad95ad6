package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/statement"
	"github.com/carson-networks/finance-bot/internal/storage"
)

// StatementService builds statements from the committed ledger.
type StatementService struct {
	storage *storage.Storage
	opts    Options
	log     *logrus.Logger
}

// NewStatementService creates a new StatementService.
func NewStatementService(store *storage.Storage, opts Options, log *logrus.Logger) *StatementService {
	return &StatementService{storage: store, opts: opts, log: log}
}

// Statement resolves the account text and reconstructs its statement over the
// window. A replay that disagrees with the stored balance returns the
// statement together with the inconsistency error.
func (s *StatementService) Statement(ctx context.Context, accountText string, w ledger.Window) (*statement.Statement, error) {
	snapshot := s.storage.Read()

	account, err := snapshot.Lookup(accountText, s.opts.Mode)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	logData.AddData("account", account.Name)

	stopTimer := logData.AddTiming("statementMs")
	st, err := statement.Build(snapshot, account.Name, w)
	stopTimer()

	var inconsistency *statement.InconsistencyError
	if errors.As(err, &inconsistency) {
		s.log.WithFields(logrus.Fields{
			"account":  inconsistency.Account,
			"replayed": inconsistency.Replayed.String(),
			"stored":   inconsistency.Stored.String(),
		}).Warn("Statement.LedgerInconsistency")
	}
	return st, err
}
