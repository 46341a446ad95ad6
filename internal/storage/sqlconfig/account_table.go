package sqlconfig

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-bot/internal/ledger"
)

const accountsTable = "accounts"

var accountColumns = []string{"seq", "name", "type", "balance"}

type accountRow struct {
	Seq     int64           `db:"seq"`
	Name    string          `db:"name"`
	Type    string          `db:"type"`
	Balance decimal.Decimal `db:"balance"`
}

// AccountsTable provides access to the accounts table.
type AccountsTable struct {
	q queryBuilder
}

// List returns every account in insertion order.
func (t AccountsTable) List(ctx context.Context, exec bob.Executor) ([]ledger.Account, error) {
	rows, err := bob.All(ctx, exec, t.q.selectAll(accountsTable, accountColumns...), scan.StructMapper[accountRow]())
	if err != nil {
		return nil, err
	}
	result := make([]ledger.Account, len(rows))
	for i, row := range rows {
		accountType, _ := ledger.ParseAccountType(row.Type)
		result[i] = ledger.Account{Name: row.Name, Type: accountType, Balance: row.Balance}
	}
	return result, nil
}

// ReplaceAll deletes every row and inserts accounts in order.
func (t AccountsTable) ReplaceAll(ctx context.Context, exec bob.Executor, accounts []ledger.Account) error {
	values := make([][]any, len(accounts))
	for i, a := range accounts {
		values[i] = []any{int64(i + 1), a.Name, string(a.Type), a.Balance}
	}
	return replaceRows(ctx, exec, t.q, accountsTable, accountColumns, values)
}
