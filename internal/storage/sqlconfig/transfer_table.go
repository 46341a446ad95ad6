package sqlconfig

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

const transfersTable = "transfers"

var transferColumns = []string{"seq", "entry_date", "from_account", "to_account", "amount"}

type transferRow struct {
	Seq         int64           `db:"seq"`
	EntryDate   string          `db:"entry_date"`
	FromAccount string          `db:"from_account"`
	ToAccount   string          `db:"to_account"`
	Amount      decimal.Decimal `db:"amount"`
}

// TransfersTable provides access to the transfers table.
type TransfersTable struct {
	q queryBuilder
}

// List returns every transfer in insertion order.
func (t TransfersTable) List(ctx context.Context, exec bob.Executor) ([]ledger.Transfer, error) {
	rows, err := bob.All(ctx, exec, t.q.selectAll(transfersTable, transferColumns...), scan.StructMapper[transferRow]())
	if err != nil {
		return nil, err
	}
	result := make([]ledger.Transfer, len(rows))
	for i, row := range rows {
		date, err := ledger.ParseDay(row.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("transfer %d: %w", row.Seq, err)
		}
		result[i] = ledger.Transfer{Date: date, From: row.FromAccount, To: row.ToAccount, Amount: row.Amount}
	}
	return result, nil
}

// ReplaceAll deletes every row and inserts transfers in order.
func (t TransfersTable) ReplaceAll(ctx context.Context, exec bob.Executor, transfers []ledger.Transfer) error {
	values := make([][]any, len(transfers))
	for i, tr := range transfers {
		values[i] = []any{int64(i + 1), ledger.FormatDay(tr.Date), tr.From, tr.To, tr.Amount}
	}
	return replaceRows(ctx, exec, t.q, transfersTable, transferColumns, values)
}
