package dialect

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Dialect names. The value doubles as the database/sql driver name for the
// dialects that have a registered driver in this module's dependency set.
const (
	// MySQL is the MySQL/MariaDB dialect.
	MySQL = "mysql"
	// Postgres is the PostgreSQL dialect.
	Postgres = "postgres"
	// Oracle is the Oracle dialect. Driver names such as "oci8" and
	// "godror" normalize to it.
	Oracle = "oracle"
	// Firebird is the Firebird/InterBase dialect.
	Firebird = "firebird"
)

// ExecQuerier wraps the exec and query operations shared
// by Driver and Tx.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows. args is expected
	// to be a []any, and v an optional *sql.Result destination.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows. args is expected to be
	// a []any, and v a *sql.Rows destination.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the minimal interface a database connection must satisfy.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps transaction commit and rollback on top of the driver operations.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// DebugDriver is a driver that logs all driver operations.
type DebugDriver struct {
	Driver // underlying driver.
	log    *slog.Logger
}

// Debug gets a driver and an optional logger and returns a new debugged-driver
// that prints all the passed operations.
func Debug(d Driver, logger ...*slog.Logger) Driver {
	drv := &DebugDriver{Driver: d, log: slog.Default()}
	if len(logger) == 1 {
		drv.log = logger[0]
	}
	return drv
}

// Exec logs its params and calls the underlying driver Exec method.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.log.LogAttrs(ctx, slog.LevelDebug, "driver.Exec",
		slog.String("id", uuid.NewString()),
		slog.String("query", query),
		slog.Any("args", args),
		slog.Duration("duration", time.Since(start)),
		slog.Any("err", err),
	)
	return err
}

// Query logs its params and calls the underlying driver Query method.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.log.LogAttrs(ctx, slog.LevelDebug, "driver.Query",
		slog.String("id", uuid.NewString()),
		slog.String("query", query),
		slog.Any("args", args),
		slog.Duration("duration", time.Since(start)),
		slog.Any("err", err),
	)
	return err
}

// Tx adds a log-id for the transaction and calls the underlying driver Tx command.
func (d *DebugDriver) Tx(ctx context.Context) (Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	d.log.LogAttrs(ctx, slog.LevelDebug, "driver.Tx started", slog.String("id", id))
	return &DebugTx{tx, id, d.log, ctx}, nil
}

// DebugTx is a transaction implementation that logs all transaction operations.
type DebugTx struct {
	Tx  // underlying transaction.
	id  string
	log *slog.Logger
	ctx context.Context
}

// Exec logs its params and calls the underlying transaction Exec method.
func (d *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Tx.Exec(ctx, query, args, v)
	d.log.LogAttrs(ctx, slog.LevelDebug, "tx.Exec",
		slog.String("id", d.id),
		slog.String("query", query),
		slog.Any("args", args),
		slog.Duration("duration", time.Since(start)),
		slog.Any("err", err),
	)
	return err
}

// Query logs its params and calls the underlying transaction Query method.
func (d *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Tx.Query(ctx, query, args, v)
	d.log.LogAttrs(ctx, slog.LevelDebug, "tx.Query",
		slog.String("id", d.id),
		slog.String("query", query),
		slog.Any("args", args),
		slog.Duration("duration", time.Since(start)),
		slog.Any("err", err),
	)
	return err
}

// Commit logs this step and calls the underlying transaction Commit method.
func (d *DebugTx) Commit() error {
	err := d.Tx.Commit()
	d.log.LogAttrs(d.ctx, slog.LevelDebug, "tx.Commit", slog.String("id", d.id), slog.Any("err", err))
	return err
}

// Rollback logs this step and calls the underlying transaction Rollback method.
func (d *DebugTx) Rollback() error {
	err := d.Tx.Rollback()
	d.log.LogAttrs(d.ctx, slog.LevelDebug, "tx.Rollback", slog.String("id", d.id), slog.Any("err", err))
	return err
}
