package sqlconfig

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

const transactionsTable = "transactions"

var transactionColumns = []string{"seq", "entry_date", "kind", "amount", "account", "label", "description"}

type transactionRow struct {
	Seq         int64           `db:"seq"`
	EntryDate   string          `db:"entry_date"`
	Kind        string          `db:"kind"`
	Amount      decimal.Decimal `db:"amount"`
	Account     string          `db:"account"`
	Label       string          `db:"label"`
	Description string          `db:"description"`
}

// TransactionsTable provides access to the transactions table.
type TransactionsTable struct {
	q queryBuilder
}

// List returns every transaction in insertion order.
func (t TransactionsTable) List(ctx context.Context, exec bob.Executor) ([]ledger.Transaction, error) {
	rows, err := bob.All(ctx, exec, t.q.selectAll(transactionsTable, transactionColumns...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, err
	}
	result := make([]ledger.Transaction, len(rows))
	for i, row := range rows {
		date, err := ledger.ParseDay(row.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", row.Seq, err)
		}
		kind, ok := ledger.ParseKind(row.Kind)
		if !ok {
			return nil, fmt.Errorf("transaction %d: unknown kind %q", row.Seq, row.Kind)
		}
		result[i] = ledger.Transaction{
			Date:        date,
			Kind:        kind,
			Amount:      row.Amount,
			Account:     row.Account,
			Label:       row.Label,
			Description: row.Description,
		}
	}
	return result, nil
}

// ReplaceAll deletes every row and inserts transactions in order.
func (t TransactionsTable) ReplaceAll(ctx context.Context, exec bob.Executor, transactions []ledger.Transaction) error {
	values := make([][]any, len(transactions))
	for i, tx := range transactions {
		values[i] = []any{int64(i + 1), ledger.FormatDay(tx.Date), string(tx.Kind), tx.Amount, tx.Account, tx.Label, tx.Description}
	}
	return replaceRows(ctx, exec, t.q, transactionsTable, transactionColumns, values)
}
