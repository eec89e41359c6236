// Package dialect provides the database dialect abstraction for sqlbridge.
//
// A dialect selects the clause-emission rules used when compiling SQL
// fragments, and is fixed for the lifetime of a connection.
//
// # Supported Dialects
//
//   - MySQL:    MySQL/MariaDB
//   - Postgres: PostgreSQL
//   - Oracle:   Oracle (including OCI driver names)
//   - Firebird: Firebird/InterBase
//
// # Driver Interface
//
// The package defines the Driver interface for database operations:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The Tx interface extends Driver with Commit and Rollback, and the
// ExecQuerier interface is the subset implemented by both.
//
// # Usage
//
//	import (
//	    "github.com/syssam/sqlbridge/dialect"
//	    "github.com/syssam/sqlbridge/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// Wrap any driver with Debug to log every statement:
//
//	drv = dialect.Debug(drv)
package dialect
