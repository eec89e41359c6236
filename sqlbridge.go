// Package sqlbridge is a convenience layer over database/sql. It compiles
// structured filter, order, grouping and limit descriptors into
// dialect-correct SQL, executes the result through a narrow driver
// abstraction, tracks affected-row counts and the last executed statement,
// and guards transactions against auto-committing DDL.
//
// Four dialects are supported: MySQL, PostgreSQL, Oracle and Firebird. The
// clause compilers live in dialect/sql and can be used on their own.
package sqlbridge

import (
	"context"
	"log/slog"

	"github.com/syssam/sqlbridge/config"
	"github.com/syssam/sqlbridge/dialect"
	"github.com/syssam/sqlbridge/dialect/sql"
)

// Client executes compiled statements against a single database connection
// handle. The model is synchronous request-response: one in-flight statement
// at a time, one optional active transaction. A Client is not safe for
// concurrent use without external synchronization.
type Client struct {
	drv dialect.Driver
	log *slog.Logger
	tx  dialect.Tx

	lastQuery string
	lastArgs  []any
	lastErr   error
	affected  int64
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for execution errors and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient returns a Client on top of an already-open driver.
func NewClient(drv dialect.Driver, opts ...Option) *Client {
	c := &Client{drv: drv, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open connects to the database described by ds and returns a Client. The
// data-source dialect selects both the driver and the clause-emission rules.
func Open(ds *config.DataSource, opts ...Option) (*Client, error) {
	dsn, err := ds.DSN()
	if err != nil {
		return nil, err
	}
	drv, err := sql.Open(ds.DriverName(), dsn)
	if err != nil {
		return nil, NewConnectionError(err)
	}
	return NewClient(drv, opts...), nil
}

// Driver returns the underlying driver.
func (c *Client) Driver() dialect.Driver {
	return c.drv
}

// Dialect returns the dialect name of the underlying driver.
func (c *Client) Dialect() string {
	return c.drv.Dialect()
}

// Close closes the underlying driver. An active transaction is rolled back
// first.
func (c *Client) Close() error {
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	return c.drv.Close()
}

// LastQuery returns the last executed statement and its arguments.
func (c *Client) LastQuery() (string, []any) {
	return c.lastQuery, c.lastArgs
}

// LastError returns the error of the last executed statement, or nil.
func (c *Client) LastError() error {
	return c.lastErr
}

// RowsAffected returns the affected-row count of the last write statement.
func (c *Client) RowsAffected() int64 {
	return c.affected
}

// conn returns the execution target for a statement: the active transaction
// when one is open, except for statements the engine force-commits around
// (see AutoCommits), which always run on the base driver.
func (c *Client) conn(query string) dialect.ExecQuerier {
	if c.tx != nil && !AutoCommits(query) {
		return c.tx
	}
	return c.drv
}

// record retains the statement, arguments and outcome of an execution for
// later inspection, and logs failures.
func (c *Client) record(ctx context.Context, query string, args []any, err error) {
	c.lastQuery = query
	c.lastArgs = args
	c.lastErr = err
	if err != nil {
		c.log.LogAttrs(ctx, slog.LevelError, "statement failed",
			slog.String("query", query),
			slog.Any("args", args),
			slog.Any("err", err),
		)
	}
}

// Exec executes a raw statement carrying :name placeholders bound from
// binds, and returns the driver result. The statement is rebound to the
// dialect's placeholder style before execution.
func (c *Client) Exec(ctx context.Context, query string, binds sql.Binds) (sql.Result, error) {
	stmt, args := sql.Rebind(c.Dialect(), query, binds)
	var res sql.Result
	err := c.conn(stmt).Exec(ctx, stmt, args, &res)
	if err != nil {
		err = classify(stmt, err)
	}
	c.record(ctx, stmt, args, err)
	if err != nil {
		return nil, err
	}
	if res != nil {
		if n, aerr := res.RowsAffected(); aerr == nil {
			c.affected = n
		}
	}
	return res, nil
}

// Query executes a raw statement carrying :name placeholders and returns the
// resulting rows. The caller owns the returned rows and must close them.
func (c *Client) Query(ctx context.Context, query string, binds sql.Binds) (*sql.Rows, error) {
	stmt, args := sql.Rebind(c.Dialect(), query, binds)
	rows := &sql.Rows{}
	err := c.conn(stmt).Query(ctx, stmt, args, rows)
	if err != nil {
		err = classify(stmt, err)
	}
	c.record(ctx, stmt, args, err)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
