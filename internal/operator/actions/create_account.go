package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/storage"
)

type CreateAccount struct {
	Name    string
	Type    ledger.AccountType
	Balance decimal.Decimal

	// Account is the registered account once Perform succeeds.
	Account ledger.Account

	IAction
}

func (c *CreateAccount) Perform(_ context.Context, writer *storage.Writer) error {
	account, err := writer.Snapshot.Register(c.Name, c.Type, c.Balance)
	if err != nil {
		return err
	}

	c.Account = account
	return nil
}
