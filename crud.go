package sqlbridge

import (
	"context"
	"sort"
	"strings"

	"github.com/syssam/sqlbridge/dialect/sql"
)

// Values holds column/value assignments for INSERT and UPDATE statements.
// Columns are emitted in sorted order so the generated SQL is stable.
type Values map[string]any

// Statement is a source of SQL for Select and Count. It has two shapes: a
// structured Query compiled per dialect, and a RawSQL passed through with
// its binds.
type Statement interface {
	compile(dialect string) (stmt string, binds sql.Binds, limited bool)
}

// Query describes a structured SELECT statement.
type Query struct {
	Table    string
	Columns  []string
	Distinct bool
	Where    sql.Filters
	GroupBy  []string
	Having   sql.Filters
	OrderBy  []string
	Limit    *sql.Limit
}

// compile assembles the SELECT per dialect concatenation order: Firebird
// splices its limit right after the SELECT keyword, the other dialects
// append theirs after the last clause.
func (q Query) compile(d string) (string, sql.Binds, bool) {
	lc := sql.CompileLimit(d, q.Limit)
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(lc.Prefix)
	if q.Distinct {
		b.WriteString("DISTINCT ")
	}
	if len(q.Columns) > 0 {
		b.WriteString(strings.Join(q.Columns, ", "))
	} else {
		b.WriteString("*")
	}
	b.WriteString(" FROM ")
	b.WriteString(q.Table)
	where, binds := sql.CompileWhere(q.Where)
	if where != "" {
		b.WriteString(" ")
		b.WriteString(where)
	}
	if len(q.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(q.GroupBy, ", "))
	}
	having, hbinds := sql.CompileHaving(q.Having, binds)
	if having != "" {
		b.WriteString(" ")
		b.WriteString(having)
		for name, v := range hbinds {
			binds[name] = v
		}
	}
	if len(q.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.OrderBy, ", "))
	}
	if lc.Suffix != "" {
		b.WriteString(" ")
		b.WriteString(lc.Suffix)
	}
	return b.String(), binds, q.Limit != nil && q.Limit.Count != 0
}

// RawSQL is a Statement passed through as-is, with :name placeholders bound
// from Binds.
type RawSQL struct {
	SQL   string
	Binds sql.Binds
}

func (r RawSQL) compile(d string) (string, sql.Binds, bool) {
	return r.SQL, r.Binds, sql.HasLimitToken(d, r.SQL)
}

// Select compiles and executes stmt, returning the resulting rows. The
// caller owns the rows and must close them.
func (c *Client) Select(ctx context.Context, stmt Statement) (*sql.Rows, error) {
	query, binds, _ := stmt.compile(c.Dialect())
	return c.Query(ctx, query, binds)
}

// Count determines how many rows stmt would yield. Statements without
// pagination syntax are rewritten into a COUNT query; statements that
// already carry a limit cannot be safely rewritten, so Count falls back to
// executing them in full and counting the fetched rows.
func (c *Client) Count(ctx context.Context, stmt Statement) (int64, error) {
	query, binds, limited := stmt.compile(c.Dialect())
	if !limited {
		if rewritten, ok := sql.RewriteCount(query); ok {
			rows, err := c.Query(ctx, rewritten, binds)
			if err != nil {
				return 0, err
			}
			defer rows.Close()
			var n int64
			if rows.Next() {
				if err := rows.Scan(&n); err != nil {
					return 0, err
				}
			}
			return n, rows.Err()
		}
	}
	rows, err := c.Query(ctx, query, binds)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var n int64
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

// Insert executes an INSERT of values into table and returns the driver
// result.
func (c *Client) Insert(ctx context.Context, table string, values Values) (sql.Result, error) {
	cols := sortedColumns(values)
	binds := make(sql.Binds, len(cols))
	names := make([]string, len(cols))
	for i, col := range cols {
		name := normalize(col)
		binds[name] = values[col]
		names[i] = ":" + name
	}
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(")")
	return c.Exec(ctx, b.String(), binds)
}

// Update executes an UPDATE of values on the rows matching where, and
// returns the number of affected rows.
func (c *Client) Update(ctx context.Context, table string, values Values, where sql.Filters) (int64, error) {
	cols := sortedColumns(values)
	binds := make(sql.Binds, len(cols))
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	for i, col := range cols {
		// SET placeholders carry a fixed prefix so they cannot collide with
		// the letter-indexed WHERE placeholders.
		name := "set_" + normalize(col)
		binds[name] = values[col]
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col)
		b.WriteString(" = :")
		b.WriteString(name)
	}
	clause, wbinds := where.Compile("WHERE", binds)
	if clause != "" {
		b.WriteString(" ")
		b.WriteString(clause)
		for name, v := range wbinds {
			binds[name] = v
		}
	}
	if _, err := c.Exec(ctx, b.String(), binds); err != nil {
		return 0, err
	}
	return c.affected, nil
}

// Delete executes a DELETE of the rows matching where, and returns the
// number of affected rows. An empty filter deletes every row of the table.
func (c *Client) Delete(ctx context.Context, table string, where sql.Filters) (int64, error) {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(table)
	clause, binds := sql.CompileWhere(where)
	if clause != "" {
		b.WriteString(" ")
		b.WriteString(clause)
	}
	if _, err := c.Exec(ctx, b.String(), binds); err != nil {
		return 0, err
	}
	return c.affected, nil
}

func sortedColumns(values Values) []string {
	cols := make([]string, 0, len(values))
	for col := range values {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// normalize maps a column name to a valid placeholder identifier.
func normalize(col string) string {
	col = strings.ReplaceAll(col, ".", "_")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, col)
}
