package sqlconfig

import (
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	psqldialect "github.com/stephenafamo/bob/dialect/psql/dialect"
	psqldm "github.com/stephenafamo/bob/dialect/psql/dm"
	psqlim "github.com/stephenafamo/bob/dialect/psql/im"
	psqlsm "github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/sqlite"
	sqlitedialect "github.com/stephenafamo/bob/dialect/sqlite/dialect"
	sqlitedm "github.com/stephenafamo/bob/dialect/sqlite/dm"
	sqliteim "github.com/stephenafamo/bob/dialect/sqlite/im"
	sqlitesm "github.com/stephenafamo/bob/dialect/sqlite/sm"
)

// Dialect names a supported SQL database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect accepts the configured store backend name.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectSQLite, DialectPostgres:
		return Dialect(s), nil
	}
	return "", fmt.Errorf("unsupported sql dialect %q", s)
}

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// queryBuilder renders the few statement shapes the tables need.
type queryBuilder interface {
	selectAll(table string, columns ...string) bob.Query
	deleteAll(table string) bob.Query
	insert(table string, columns []string, rows [][]any) bob.Query
}

func (d Dialect) builder() queryBuilder {
	if d == DialectPostgres {
		return psqlBuilder{}
	}
	return sqliteBuilder{}
}

type psqlBuilder struct{}

func (psqlBuilder) selectAll(table string, columns ...string) bob.Query {
	cols := make([]any, len(columns))
	for i, c := range columns {
		cols[i] = c
	}
	return psql.Select(
		psqlsm.Columns(cols...),
		psqlsm.From(table),
		psqlsm.OrderBy("seq").Asc(),
	)
}

func (psqlBuilder) deleteAll(table string) bob.Query {
	return psql.Delete(psqldm.From(table))
}

func (psqlBuilder) insert(table string, columns []string, rows [][]any) bob.Query {
	queryMods := []bob.Mod[*psqldialect.InsertQuery]{psqlim.Into(table, columns...)}
	for _, row := range rows {
		values := make([]bob.Expression, len(row))
		for i, v := range row {
			values[i] = psql.Arg(v)
		}
		queryMods = append(queryMods, psqlim.Values(values...))
	}
	return psql.Insert(queryMods...)
}

type sqliteBuilder struct{}

func (sqliteBuilder) selectAll(table string, columns ...string) bob.Query {
	cols := make([]any, len(columns))
	for i, c := range columns {
		cols[i] = c
	}
	return sqlite.Select(
		sqlitesm.Columns(cols...),
		sqlitesm.From(table),
		sqlitesm.OrderBy("seq").Asc(),
	)
}

func (sqliteBuilder) deleteAll(table string) bob.Query {
	return sqlite.Delete(sqlitedm.From(table))
}

func (sqliteBuilder) insert(table string, columns []string, rows [][]any) bob.Query {
	queryMods := []bob.Mod[*sqlitedialect.InsertQuery]{sqliteim.Into(table, columns...)}
	for _, row := range rows {
		values := make([]bob.Expression, len(row))
		for i, v := range row {
			values[i] = sqlite.Arg(v)
		}
		queryMods = append(queryMods, sqliteim.Values(values...))
	}
	return sqlite.Insert(queryMods...)
}
