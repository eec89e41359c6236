package sqlbridge

import (
	"context"
	dbsql "database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/sqlbridge/dialect"
	"github.com/syssam/sqlbridge/dialect/sql"
)

// sqliteClient opens an in-process database that accepts the MySQL limit and
// placeholder forms, giving the count rewrite a real engine to agree with.
func sqliteClient(t *testing.T) *Client {
	t.Helper()
	db, err := dbsql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return NewClient(sql.OpenDB(dialect.MySQL, db))
}

// The count rewrite and the full-fetch fallback must agree on cardinality
// for any statement without pagination syntax.
func TestCountAgreesWithFetch(t *testing.T) {
	for _, rows := range []int{0, 1, 1000} {
		t.Run(fmt.Sprintf("%d rows", rows), func(t *testing.T) {
			c := sqliteClient(t)
			ctx := context.Background()

			_, err := c.Exec(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)", nil)
			require.NoError(t, err)
			require.NoError(t, c.Tx(ctx, func(c *Client) error {
				for i := 0; i < rows; i++ {
					if _, err := c.Insert(ctx, "users", Values{"id": i + 1, "name": fmt.Sprintf("user-%d", i)}); err != nil {
						return err
					}
				}
				return nil
			}))

			q := Query{Table: "users", OrderBy: []string{"id"}}

			counted, err := c.Count(ctx, q)
			require.NoError(t, err)

			rs, err := c.Select(ctx, q)
			require.NoError(t, err)
			var fetched int64
			for rs.Next() {
				fetched++
			}
			require.NoError(t, rs.Err())
			require.NoError(t, rs.Close())

			assert.Equal(t, int64(rows), counted)
			assert.Equal(t, fetched, counted)
		})
	}
}

func TestCountLimitedFallbackAgainstEngine(t *testing.T) {
	c := sqliteClient(t)
	ctx := context.Background()

	_, err := c.Exec(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY)", nil)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err := c.Insert(ctx, "items", Values{"id": i + 1})
		require.NoError(t, err)
	}

	// With a limit applied, Count reports the limited cardinality.
	n, err := c.Count(ctx, Query{Table: "items", Limit: sql.NewLimitOffset(5, 3)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSelectFiltersAgainstEngine(t *testing.T) {
	c := sqliteClient(t)
	ctx := context.Background()

	_, err := c.Exec(ctx, "CREATE TABLE people (id INTEGER PRIMARY KEY, last_name TEXT, zip_code TEXT)", nil)
	require.NoError(t, err)
	for i, p := range []struct {
		last, zip string
	}{
		{"George", "10001"},
		{"Gerald", ""},
		{"Smith", "10002"},
	} {
		zip := any(p.zip)
		if p.zip == "" {
			zip = nil
		}
		_, err := c.Insert(ctx, "people", Values{"id": i + 11, "last_name": p.last, "zip_code": zip})
		require.NoError(t, err)
	}

	rows, err := c.Select(ctx, Query{
		Table: "people",
		Where: sql.Filters{
			sql.Raw("zip_code IS NOT NULL"),
			sql.Cond("id >", 10),
			sql.Cond("last_name LIKE", "%Ge%"),
		},
		OrderBy: []string{"id"},
	})
	require.NoError(t, err)
	var names []string
	for rows.Next() {
		var (
			id   int64
			name string
			zip  dbsql.NullString
		)
		require.NoError(t, rows.Scan(&id, &name, &zip))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	assert.Equal(t, []string{"George"}, names)
}
