package sqlbridge

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMySQL(t *testing.T) {
	t.Run("duplicate entry is a constraint error", func(t *testing.T) {
		err := classify("INSERT INTO users ...", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
		assert.True(t, IsConstraintError(err))
		assert.True(t, IsStatementError(err))

		var se *StatementError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "INSERT INTO users ...", se.Query)
	})

	t.Run("access denied is a connection error", func(t *testing.T) {
		err := classify("SELECT 1", &mysql.MySQLError{Number: 1045, Message: "Access denied"})
		assert.True(t, IsConnectionError(err))
		assert.False(t, IsConstraintError(err))
	})

	t.Run("foreign key violation", func(t *testing.T) {
		err := classify("DELETE FROM parents", &mysql.MySQLError{Number: 1451, Message: "Cannot delete"})
		assert.True(t, IsConstraintError(err))
	})

	t.Run("syntax error is a statement error", func(t *testing.T) {
		err := classify("SELEC 1", &mysql.MySQLError{Number: 1064, Message: "syntax error"})
		assert.True(t, IsStatementError(err))
		assert.False(t, IsConstraintError(err))
		assert.False(t, IsConnectionError(err))
	})
}

func TestClassifyPostgres(t *testing.T) {
	t.Run("unique violation is a constraint error", func(t *testing.T) {
		err := classify("INSERT ...", &pq.Error{Code: "23505", Message: "duplicate key"})
		assert.True(t, IsConstraintError(err))
	})

	t.Run("connection exception", func(t *testing.T) {
		err := classify("SELECT 1", &pq.Error{Code: "08006", Message: "connection failure"})
		assert.True(t, IsConnectionError(err))
	})

	t.Run("invalid authorization", func(t *testing.T) {
		err := classify("SELECT 1", &pq.Error{Code: "28P01", Message: "password authentication failed"})
		assert.True(t, IsConnectionError(err))
	})

	t.Run("undefined table is a statement error", func(t *testing.T) {
		err := classify("SELECT * FROM nope", &pq.Error{Code: "42P01", Message: "relation does not exist"})
		assert.True(t, IsStatementError(err))
	})
}

func TestClassifyUnknownDriver(t *testing.T) {
	cause := errors.New("some driver fault")
	err := classify("SELECT 1", cause)
	assert.True(t, IsStatementError(err))
	assert.ErrorIs(t, err, cause)
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, classify("SELECT 1", nil))
}

func TestErrorStrings(t *testing.T) {
	assert.Contains(t, NewConnectionError(errors.New("dial tcp: refused")).Error(), "connection failed")
	assert.Contains(t, NewStatementError("SELECT", errors.New("bad")).Error(), "statement failed")
	assert.Contains(t, (&GeneralError{wrap: errors.New("odd")}).Error(), "odd")
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	assert.ErrorIs(t, NewConnectionError(cause), cause)
	assert.ErrorIs(t, NewStatementError("q", cause), cause)
}
