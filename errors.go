package sqlbridge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Standard sentinel errors for common operations.
var (
	// ErrTxNotStarted is returned by Commit and Rollback when no transaction
	// is active.
	ErrTxNotStarted = errors.New("sqlbridge: no active transaction")

	// ErrDriverClosed is returned when operating on a closed client.
	ErrDriverClosed = errors.New("sqlbridge: client already closed")
)

// ConnectionError reports that the driver is unreachable or rejected the
// credentials.
type ConnectionError struct {
	wrap error
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("sqlbridge: connection failed: %v", e.wrap)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.wrap
}

// NewConnectionError returns a new ConnectionError wrapping err.
func NewConnectionError(err error) *ConnectionError {
	return &ConnectionError{wrap: err}
}

// IsConnectionError returns true if the error is a ConnectionError.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConnectionError
	return errors.As(err, &e)
}

// StatementError reports a failed statement: malformed SQL, a constraint
// violation, or any other execution fault surfaced by the driver.
type StatementError struct {
	Query string // statement that failed
	wrap  error
}

// Error returns the error string.
func (e *StatementError) Error() string {
	return fmt.Sprintf("sqlbridge: statement failed: %v", e.wrap)
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error {
	return e.wrap
}

// NewStatementError returns a new StatementError for the given statement.
func NewStatementError(query string, err error) *StatementError {
	return &StatementError{Query: query, wrap: err}
}

// IsStatementError returns true if the error is a StatementError.
func IsStatementError(err error) bool {
	if err == nil {
		return false
	}
	var e *StatementError
	return errors.As(err, &e)
}

// ConstraintError reports a database constraint violation.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("sqlbridge: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e *ConstraintError) Unwrap() error {
	return e.wrap
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConstraintError
	return errors.As(err, &e)
}

// GeneralError reports any runtime fault outside the connection and
// statement categories.
type GeneralError struct {
	wrap error
}

// Error returns the error string.
func (e *GeneralError) Error() string {
	return fmt.Sprintf("sqlbridge: %v", e.wrap)
}

// Unwrap returns the underlying error.
func (e *GeneralError) Unwrap() error {
	return e.wrap
}

// mysqlConstraintCodes are the MySQL error numbers that indicate a
// constraint violation.
var mysqlConstraintCodes = map[uint16]struct{}{
	1062: {}, // ER_DUP_ENTRY
	1216: {}, // ER_NO_REFERENCED_ROW
	1217: {}, // ER_ROW_IS_REFERENCED
	1451: {}, // ER_ROW_IS_REFERENCED_2
	1452: {}, // ER_NO_REFERENCED_ROW_2
	3819: {}, // ER_CHECK_CONSTRAINT_VIOLATED
}

// mysqlConnectionCodes are the MySQL error numbers that indicate the server
// is unreachable or the credentials are invalid.
var mysqlConnectionCodes = map[uint16]struct{}{
	1040: {}, // ER_CON_COUNT_ERROR
	1044: {}, // ER_DBACCESS_DENIED_ERROR
	1045: {}, // ER_ACCESS_DENIED_ERROR
	1049: {}, // ER_BAD_DB_ERROR
}

// classify wraps a driver error into the sqlbridge taxonomy. Constraint
// violations and connection faults are recognized from the MySQL and
// PostgreSQL driver error types; everything else becomes a StatementError
// for the statement that produced it.
func classify(query string, err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		if _, ok := mysqlConstraintCodes[me.Number]; ok {
			return &ConstraintError{msg: me.Message, wrap: &StatementError{Query: query, wrap: err}}
		}
		if _, ok := mysqlConnectionCodes[me.Number]; ok {
			return NewConnectionError(err)
		}
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		switch {
		// Class 23 - integrity constraint violation.
		case strings.HasPrefix(string(pe.Code), "23"):
			return &ConstraintError{msg: pe.Message, wrap: &StatementError{Query: query, wrap: err}}
		// Class 08 - connection exception, class 28 - invalid authorization.
		case strings.HasPrefix(string(pe.Code), "08"), strings.HasPrefix(string(pe.Code), "28"):
			return NewConnectionError(err)
		}
	}
	return NewStatementError(query, err)
}
