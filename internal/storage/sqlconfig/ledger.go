package sqlconfig

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-bot/internal/ledger"
	"github.com/carson-networks/finance-bot/internal/storage"
)

// insertBatch keeps multi-row inserts under sqlite's bound parameter limit.
const insertBatch = 100

// Ledger is a storage.Backend over three SQL tables.
type Ledger struct {
	db           *sql.DB
	exec         bob.DB
	Accounts     AccountsTable
	Transactions TransactionsTable
	Transfers    TransfersTable
}

var _ storage.Backend = (*Ledger)(nil)

// Open connects to the database. The schema must already be migrated.
func Open(dialect Dialect, dsn string) (*Ledger, error) {
	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// one connection so every statement sees the same file lock
		db.SetMaxOpenConns(1)
	}
	return NewLedger(db, dialect), nil
}

func NewLedger(db *sql.DB, dialect Dialect) *Ledger {
	q := dialect.builder()
	return &Ledger{
		db:           db,
		exec:         bob.NewDB(db),
		Accounts:     AccountsTable{q: q},
		Transactions: TransactionsTable{q: q},
		Transfers:    TransfersTable{q: q},
	}
}

func (l *Ledger) Load(ctx context.Context) (*ledger.Snapshot, error) {
	accounts, err := l.Accounts.List(ctx, l.exec)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	transactions, err := l.Transactions.List(ctx, l.exec)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	transfers, err := l.Transfers.List(ctx, l.exec)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}
	return &ledger.Snapshot{Accounts: accounts, Transactions: transactions, Transfers: transfers}, nil
}

// Replace rewrites all three tables inside one database transaction.
func (l *Ledger) Replace(ctx context.Context, snapshot *ledger.Snapshot) error {
	tx, err := l.exec.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin replace: %w", err)
	}

	if err := l.replace(ctx, tx, snapshot); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}
	return nil
}

func (l *Ledger) replace(ctx context.Context, exec bob.Executor, snapshot *ledger.Snapshot) error {
	if err := l.Accounts.ReplaceAll(ctx, exec, snapshot.Accounts); err != nil {
		return fmt.Errorf("failed to replace accounts: %w", err)
	}
	if err := l.Transactions.ReplaceAll(ctx, exec, snapshot.Transactions); err != nil {
		return fmt.Errorf("failed to replace transactions: %w", err)
	}
	if err := l.Transfers.ReplaceAll(ctx, exec, snapshot.Transfers); err != nil {
		return fmt.Errorf("failed to replace transfers: %w", err)
	}
	return nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func replaceRows(ctx context.Context, exec bob.Executor, q queryBuilder, table string, columns []string, rows [][]any) error {
	if _, err := bob.Exec(ctx, exec, q.deleteAll(table)); err != nil {
		return err
	}
	for start := 0; start < len(rows); start += insertBatch {
		end := start + insertBatch
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := bob.Exec(ctx, exec, q.insert(table, columns, rows[start:end])); err != nil {
			return err
		}
	}
	return nil
}
