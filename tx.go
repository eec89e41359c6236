package sqlbridge

import (
	"context"
	"regexp"
)

// autoCommit matches the statements the engine forces an implicit commit
// around: DDL, TRUNCATE, LOCK, RENAME, and plugin (un)installation. Wrapping
// them in an explicit transaction has undefined nesting semantics, so they
// always execute outside the active transaction.
var autoCommit = regexp.MustCompile(`(?i)^\s*(ALTER|CREATE|DROP|TRUNCATE|LOCK|UNLOCK|RENAME|INSTALL\s+PLUGIN|UNINSTALL\s+PLUGIN)\b`)

// AutoCommits reports whether query is a statement the database engine
// auto-commits and therefore must not be wrapped in an explicit transaction.
func AutoCommits(query string) bool {
	return autoCommit.MatchString(query)
}

// Begin starts a transaction on the client. When a transaction is already
// active the call is a no-op: nested transaction attempts are suppressed.
func (c *Client) Begin(ctx context.Context) error {
	if c.tx != nil {
		return nil
	}
	tx, err := c.drv.Tx(ctx)
	if err != nil {
		return NewConnectionError(err)
	}
	c.tx = tx
	return nil
}

// InTx reports whether a transaction is currently active.
func (c *Client) InTx() bool {
	return c.tx != nil
}

// Commit commits the active transaction.
func (c *Client) Commit() error {
	if c.tx == nil {
		return ErrTxNotStarted
	}
	err := c.tx.Commit()
	c.tx = nil
	return err
}

// Rollback rolls back the active transaction.
func (c *Client) Rollback() error {
	if c.tx == nil {
		return ErrTxNotStarted
	}
	err := c.tx.Rollback()
	c.tx = nil
	return err
}

// Tx runs fn inside a transaction: it begins one (unless already active, in
// which case fn joins it), commits on success and rolls back on error.
func (c *Client) Tx(ctx context.Context, fn func(*Client) error) error {
	joined := c.tx != nil
	if err := c.Begin(ctx); err != nil {
		return err
	}
	if err := fn(c); err != nil {
		if !joined {
			_ = c.Rollback()
		}
		return err
	}
	if joined {
		return nil
	}
	return c.Commit()
}
