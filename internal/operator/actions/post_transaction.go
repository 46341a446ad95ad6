package actions

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/storage"
)

// PostTransaction resolves the account against the writer's snapshot and
// posts an expense or income to it.
type PostTransaction struct {
	AccountText string
	Mode        ledger.MatchMode
	Kind        ledger.Kind
	Amount      decimal.Decimal
	Label       string
	Description string
	Date        time.Time

	// Account is the updated account once Perform succeeds.
	Account ledger.Account

	IAction
}

func (p *PostTransaction) Perform(_ context.Context, writer *storage.Writer) error {
	if !p.Amount.IsPositive() {
		return ledger.ErrInvalidAmount
	}
	target, err := writer.Snapshot.Lookup(p.AccountText, p.Mode)
	if err != nil {
		return err
	}

	account, err := writer.Snapshot.PostTransaction(ledger.Transaction{
		Date:        p.Date,
		Kind:        p.Kind,
		Amount:      p.Amount,
		Account:     target.Name,
		Label:       p.Label,
		Description: p.Description,
	})
	if err != nil {
		return err
	}

	p.Account = account
	return nil
}
