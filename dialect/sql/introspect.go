package sql

import (
	"fmt"

	"github.com/syssam/sqlbridge/dialect"
)

// introspection holds the statements a dialect uses to list tables and
// columns. Catalog access differs per engine, so the queries live in one
// dialect-keyed table instead of switch statements at every call site.
type introspection struct {
	tables  string
	columns func(table string) string
}

var introspections = map[string]introspection{
	dialect.MySQL: {
		tables:  "SHOW TABLES",
		columns: func(table string) string { return fmt.Sprintf("SHOW COLUMNS FROM %s", table) },
	},
	dialect.Postgres: {
		tables: "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public'",
		columns: func(table string) string {
			return fmt.Sprintf("SELECT column_name FROM information_schema.columns WHERE table_name = '%s'", table)
		},
	},
	dialect.Oracle: {
		tables: "SELECT table_name FROM user_tables",
		columns: func(table string) string {
			return fmt.Sprintf("SELECT column_name FROM user_tab_columns WHERE table_name = '%s'", table)
		},
	},
	dialect.Firebird: {
		tables: "SELECT TRIM(rdb$relation_name) FROM rdb$relations WHERE rdb$system_flag = 0",
		columns: func(table string) string {
			return fmt.Sprintf("SELECT TRIM(rdb$field_name) FROM rdb$relation_fields WHERE rdb$relation_name = '%s'", table)
		},
	},
}

// TablesQuery returns the statement listing the user tables of the given
// dialect. The second return value is false for unknown dialects.
func TablesQuery(d string) (string, bool) {
	in, ok := introspections[d]
	if !ok {
		return "", false
	}
	return in.tables, true
}

// ColumnsQuery returns the statement listing the columns of table for the
// given dialect. The second return value is false for unknown dialects.
func ColumnsQuery(d, table string) (string, bool) {
	in, ok := introspections[d]
	if !ok {
		return "", false
	}
	return in.columns(table), true
}
