package service

import (
	"context"

	"github.com/aarondl/opt/omit"

	"github.com/carson-networks/finance-bot/internal/extractor"
	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/logging"
	"github.com/carson-networks/finance-bot/internal/operator/actions"
	"github.com/carson-networks/finance-bot/internal/storage"
)

const (
	defaultLimit  = 20
	recentEntries = 10
)

// TransactionService handles transaction business logic.
type TransactionService struct {
	storage   *storage.Storage
	proc      Processor
	extractor *extractor.Extractor
	opts      Options
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, proc Processor, ex *extractor.Extractor, opts Options) *TransactionService {
	return &TransactionService{storage: store, proc: proc, extractor: ex, opts: opts}
}

// Post records an expense or income against the account the text resolves to.
func (s *TransactionService) Post(ctx context.Context, req PostRequest) (*Posted, error) {
	date, ok := req.Date.Get()
	if !ok {
		date = s.opts.now()
	}
	date = ledger.Day(date)

	action := &actions.PostTransaction{
		AccountText: req.AccountText,
		Mode:        s.opts.Mode,
		Kind:        req.Kind,
		Amount:      req.Amount,
		Label:       req.Label,
		Description: req.Description,
		Date:        date,
	}
	if err := s.proc.Process(ctx, action); err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	logData.AddData("account", action.Account.Name)
	logData.AddData("kind", string(req.Kind))

	snapshot := s.storage.Read()
	return &Posted{
		Transaction: ledger.Transaction{
			Date:        date,
			Kind:        req.Kind,
			Amount:      req.Amount,
			Account:     action.Account.Name,
			Label:       req.Label,
			Description: req.Description,
		},
		Account: action.Account,
		Budget:  snapshot.Budget(s.opts.Baseline),
	}, nil
}

// Recent returns the last entries appended to the ledger, oldest first.
func (s *TransactionService) Recent(_ context.Context) []ledger.Transaction {
	return s.storage.Read().RecentTransactions(recentEntries)
}

// ListTransactions returns a page of transactions, newest first.
func (s *TransactionService) ListTransactions(_ context.Context, cursor *TransactionCursor) ([]ledger.Transaction, *TransactionCursor, error) {
	all := s.storage.Read().Transactions

	limit := defaultLimit
	offset := 0
	count := len(all)
	if cursor != nil {
		offset = cursor.Position
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		if cursor.Count > 0 && cursor.Count <= len(all) {
			count = cursor.Count
		}
	}

	if offset >= count {
		return nil, nil, nil
	}

	end := offset + limit
	var nextCursor *TransactionCursor
	if end < count {
		nextCursor = &TransactionCursor{
			Position: end,
			Limit:    limit,
			Count:    count,
		}
	} else {
		end = count
	}

	page := make([]ledger.Transaction, 0, end-offset)
	for i := offset; i < end; i++ {
		page = append(page, all[count-1-i])
	}
	return page, nextCursor, nil
}

// Extract reads transaction candidates from notification text.
func (s *TransactionService) Extract(ctx context.Context, text string) ([]extractor.ExtractedTransaction, error) {
	candidates := s.extractor.Extract(text, s.opts.now())
	logging.GetLogData(ctx).AddData("candidates", len(candidates))
	if len(candidates) == 0 {
		return nil, extractor.ErrExtractionEmpty
	}
	return candidates, nil
}

// InferAccount picks the account an extracted transaction belongs to: a
// mapped card first, then an account whose name carries the card digits,
// then the configured default for its kind. It returns "" when none applies.
func (s *TransactionService) InferAccount(tx extractor.ExtractedTransaction) string {
	rules := s.extractor.Rules()
	fragment, _ := tx.CardFragment.Get()

	if account, ok := rules.CardAccount(fragment, tx.Segment); ok {
		return account
	}
	if fragment != "" {
		if a, err := s.storage.Read().Lookup(fragment, ledger.MatchFirst); err == nil {
			return a.Name
		}
	}
	return rules.DefaultAccount(tx.Kind)
}

// PostExtracted posts a confirmed candidate. An empty accountText falls back
// to InferAccount.
func (s *TransactionService) PostExtracted(ctx context.Context, tx extractor.ExtractedTransaction, accountText string) (*Posted, error) {
	amount, ok := tx.Amount.Get()
	if !ok || !tx.Complete() {
		return nil, ledger.ErrInvalidAmount
	}
	if accountText == "" {
		accountText = s.InferAccount(tx)
	}
	if accountText == "" {
		return nil, ledger.ErrAccountNotFound
	}

	description := tx.Counterpart
	if description == extractor.Unspecified {
		description = ""
	}

	req := PostRequest{
		Kind:        tx.Kind,
		AccountText: accountText,
		Amount:      amount,
		Label:       tx.Category,
		Description: description,
	}
	if !tx.DateDefaulted {
		req.Date = omit.From(tx.Date)
	}
	return s.Post(ctx, req)
}
