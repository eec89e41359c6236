package sql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlbridge/dialect"
)

func TestStatsDriverCounters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("INSERT INTO t").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT boom").WillReturnError(assert.AnError)

	drv := WithStats(OpenDB(dialect.MySQL, db))

	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, drv.Exec(context.Background(), "INSERT INTO t DEFAULT VALUES", []any{}, nil))
	require.Error(t, drv.Query(context.Background(), "SELECT boom", []any{}, &Rows{}))

	snap := drv.Stats()
	assert.Equal(t, int64(2), snap.TotalQueries)
	assert.Equal(t, int64(1), snap.TotalExecs)
	assert.Equal(t, int64(1), snap.Errors)
	assert.Greater(t, snap.TotalDuration, time.Duration(0))
	assert.Greater(t, snap.AvgDuration(), time.Duration(0))

	drv.Reset()
	assert.Equal(t, StatsSnapshot{}, drv.Stats())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsDriverSlowQueryHook(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT pg_sleep").
		WillDelayFor(5 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	var slow []string
	drv := WithStats(OpenDB(dialect.Postgres, db),
		WithSlowThreshold(time.Millisecond),
		WithSlowQueryHook(func(_ context.Context, query string, _ []any, _ time.Duration) {
			slow = append(slow, query)
		}),
	)

	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT pg_sleep(1)", []any{}, rows))
	require.NoError(t, rows.Close())

	assert.Equal(t, int64(1), drv.Stats().SlowQueries)
	assert.Equal(t, []string{"SELECT pg_sleep(1)"}, slow)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsSnapshotString(t *testing.T) {
	snap := StatsSnapshot{TotalQueries: 2, TotalExecs: 2, TotalDuration: 4 * time.Second}
	assert.Contains(t, snap.String(), "queries=2")
	assert.Contains(t, snap.String(), "avg=1s")
}
