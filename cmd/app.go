package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-bot/internal/config"
	"github.com/carson-networks/finance-bot/internal/conversation"
	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/operator"
	"github.com/carson-networks/finance-bot/internal/service"
	"github.com/carson-networks/finance-bot/internal/storage"
	"github.com/carson-networks/finance-bot/internal/storage/sqlconfig"
	"github.com/carson-networks/finance-bot/internal/storage/workbook"
)

// app is the wired process: store, operator and services.
type app struct {
	store    *storage.Storage
	operator *operator.OperatorDelegator
	svc      *service.Service
	bot      *conversation.Bot
}

// newBackend opens the configured store. SQL backends are migrated first.
func newBackend(c *config.Config, log *logrus.Logger) (storage.Backend, error) {
	switch c.StoreBackend {
	case config.BackendWorkbook:
		return workbook.New(c.WorkbookPath), nil
	case config.BackendSQLite, config.BackendPostgres:
		dialect, err := sqlconfig.ParseDialect(c.StoreBackend)
		if err != nil {
			return nil, err
		}
		dsn := sqlDSN(c, dialect)
		if err := sqlconfig.Migrate(dialect, dsn, log); err != nil {
			return nil, err
		}
		return sqlconfig.Open(dialect, dsn)
	}
	return nil, fmt.Errorf("unsupported store backend %q", c.StoreBackend)
}

func sqlDSN(c *config.Config, dialect sqlconfig.Dialect) string {
	if dialect == sqlconfig.DialectPostgres {
		return c.PostgresDSN()
	}
	return c.SQLitePath
}

func newExtractor(c *config.Config) (*extractor.Extractor, error) {
	rules := extractor.DefaultRules()
	if c.RulesPath != "" {
		loaded, err := extractor.LoadRules(c.RulesPath)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}
	if rules.DefaultExpenseAccount == "" {
		rules.DefaultExpenseAccount = c.DefaultExpenseAccount
	}
	if rules.DefaultIncomeAccount == "" {
		rules.DefaultIncomeAccount = c.DefaultIncomeAccount
	}
	return extractor.New(rules)
}

func openApp(ctx context.Context, c *config.Config, log *logrus.Logger) (*app, error) {
	backend, err := newBackend(c, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, backend, c.SeedAccounts, log)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	ex, err := newExtractor(c)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	delegator := operator.NewOperatorDelegator(store, 1)
	delegator.Start()

	svc := service.NewService(store, delegator, ex, service.Options{
		Mode:     c.MatchMode(),
		Policy:   c.ConfirmPolicy,
		Baseline: c.BudgetBaseline,
		Now:      time.Now,
	}, log)

	return &app{
		store:    store,
		operator: delegator,
		svc:      svc,
		bot:      conversation.NewBot(conversation.NewHandler(svc, log), conversation.NewSessionStore()),
	}, nil
}

func (a *app) Close() error {
	a.operator.Stop()
	return a.store.Close()
}
