package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/operator/actions"
	"github.com/carson-networks/finance-bot/internal/storage"
)

const defaultAccountLimit = 20

// AccountService handles account business logic.
type AccountService struct {
	storage *storage.Storage
	proc    Processor
	opts    Options
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Storage, proc Processor, opts Options) *AccountService {
	return &AccountService{storage: store, proc: proc, opts: opts}
}

// CreateAccount registers a new account.
func (s *AccountService) CreateAccount(ctx context.Context, name string, t ledger.AccountType, balance decimal.Decimal) (ledger.Account, error) {
	action := &actions.CreateAccount{Name: name, Type: t, Balance: balance}
	if err := s.proc.Process(ctx, action); err != nil {
		return ledger.Account{}, err
	}

	logging.GetLogData(ctx).AddData("account", action.Account.Name)
	return action.Account, nil
}

// Reload re-reads the store, picking up edits made outside this process.
func (s *AccountService) Reload(ctx context.Context) error {
	if err := s.storage.Reload(ctx); err != nil {
		return err
	}
	logging.GetLogData(ctx).AddData("accounts", len(s.storage.Read().Accounts))
	return nil
}

// GetAccount resolves free text to an account in the committed ledger.
func (s *AccountService) GetAccount(_ context.Context, text string) (ledger.Account, error) {
	return s.storage.Read().Lookup(text, s.opts.Mode)
}

// ListAccounts returns a page of accounts in registry order.
func (s *AccountService) ListAccounts(_ context.Context, cursor *AccountCursor) ([]ledger.Account, *AccountCursor, error) {
	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		offset = cursor.Position
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
	}

	all := s.storage.Read().Accounts
	if offset >= len(all) {
		return nil, nil, nil
	}

	end := offset + limit
	var nextCursor *AccountCursor
	if end < len(all) {
		nextCursor = &AccountCursor{
			Position: end,
			Limit:    limit,
		}
	} else {
		end = len(all)
	}

	page := make([]ledger.Account, end-offset)
	copy(page, all[offset:end])
	return page, nextCursor, nil
}

// Overview lists every account with the total and the budget.
func (s *AccountService) Overview(_ context.Context) Overview {
	snapshot := s.storage.Read()

	accounts := make([]ledger.Account, len(snapshot.Accounts))
	copy(accounts, snapshot.Accounts)
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Balance.LessThan(accounts[j].Balance)
	})

	return Overview{
		Accounts: accounts,
		Total:    snapshot.Total(),
		Budget:   snapshot.Budget(s.opts.Baseline),
	}
}

// Budget is the ledger total less the configured baseline.
func (s *AccountService) Budget() decimal.Decimal {
	return s.storage.Read().Budget(s.opts.Baseline)
}

// Names lists the canonical account names in registry order.
func (s *AccountService) Names() []string {
	accounts := s.storage.Read().Accounts
	names := make([]string, len(accounts))
	for i, a := range accounts {
		names[i] = a.CanonicalName()
	}
	return names
}
