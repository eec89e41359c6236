package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileWhere(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		clause  string
		binds   Binds
	}{
		{
			name:    "empty",
			filters: nil,
			clause:  "",
			binds:   Binds{},
		},
		{
			name: "all falsy",
			filters: Filters{
				Raw(""),
				Cond("id", 0),
				Cond("name", ""),
				Cond("active", false),
				Cond("score", 0.0),
				Cond("", "value"),
			},
			clause: "",
			binds:  Binds{},
		},
		{
			name: "mixed raw and keyed",
			filters: Filters{
				Raw("zip_code IS NOT NULL"),
				Cond("id >", 10),
				Cond("last_name LIKE", "%Ge%"),
			},
			clause: "WHERE zip_code IS NOT NULL AND id > :a_id AND last_name LIKE :a_last_name",
			binds:  Binds{"a_id": 10, "a_last_name": "%Ge%"},
		},
		{
			name: "default operator",
			filters: Filters{
				Cond("status", "active"),
			},
			clause: "WHERE status = :a_status",
			binds:  Binds{"a_status": "active"},
		},
		{
			name: "between style pair on one column",
			filters: Filters{
				Cond("created >", "2020-01-01"),
				Cond("created <", "2021-01-01"),
			},
			clause: "WHERE created > :a_created AND created < :b_created",
			binds:  Binds{"a_created": "2020-01-01", "b_created": "2021-01-01"},
		},
		{
			name: "qualified column normalizes dots",
			filters: Filters{
				Cond("u.id >=", 7),
			},
			clause: "WHERE u.id >= :a_u_id",
			binds:  Binds{"a_u_id": 7},
		},
		{
			name: "word operators normalize case and spacing",
			filters: Filters{
				Cond("name  not   like", "%x%"),
				Cond("parent_id is not", "NULL"),
			},
			clause: "WHERE name NOT LIKE :a_name AND parent_id IS NOT :a_parent_id",
			binds:  Binds{"a_name": "%x%", "a_parent_id": "NULL"},
		},
		{
			name: "attached symbol operator",
			filters: Filters{
				Cond("id<>", 3),
			},
			clause: "WHERE id <> :a_id",
			binds:  Binds{"a_id": 3},
		},
		{
			name: "falsy entries dropped between live ones",
			filters: Filters{
				Cond("a", 1),
				Cond("b", 0),
				Cond("c", 2),
			},
			clause: "WHERE a = :a_a AND c = :a_c",
			binds:  Binds{"a_a": 1, "a_c": 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, binds := CompileWhere(tt.filters)
			assert.Equal(t, tt.clause, clause)
			assert.Equal(t, tt.binds, binds)
		})
	}
}

func TestCompileWhereDistinctPlaceholders(t *testing.T) {
	// N keyed entries on one column must yield exactly N distinct bind keys.
	fs := Filters{
		Cond("v >", 1),
		Cond("v <", 9),
		Cond("v <>", 5),
		Cond("v >=", 2),
	}
	clause, binds := CompileWhere(fs)
	require.Len(t, binds, 4)
	assert.Equal(t, "WHERE v > :a_v AND v < :b_v AND v <> :c_v AND v >= :d_v", clause)
}

func TestCompileWhereRawNeverBinds(t *testing.T) {
	clause, binds := CompileWhere(Filters{
		Raw("deleted_at IS NULL"),
		Raw("1 = 1"),
	})
	assert.Equal(t, "WHERE deleted_at IS NULL AND 1 = 1", clause)
	assert.Empty(t, binds)
}

func TestCompileHavingAvoidsUsedNames(t *testing.T) {
	where, binds := CompileWhere(Filters{Cond("total >", 10)})
	require.Equal(t, "WHERE total > :a_total", where)

	having, hbinds := CompileHaving(Filters{Cond("total >", 100)}, binds)
	assert.Equal(t, "HAVING total > :b_total", having)
	assert.Equal(t, Binds{"b_total": 100}, hbinds)
}

func TestSplitKey(t *testing.T) {
	tests := []struct {
		key    string
		column string
		op     string
	}{
		{"id", "id", "="},
		{"id >", "id", ">"},
		{"id>", "id", ">"},
		{"id !=", "id", "!="},
		{"name LIKE", "name", "LIKE"},
		{"name not in", "name", "NOT IN"},
		{"a.b <=", "a.b", "<="},
		{"  spaced  =  ", "spaced", "="},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			column, op := splitKey(tt.key)
			assert.Equal(t, tt.column, column)
			assert.Equal(t, tt.op, op)
		})
	}
}

func TestLetters(t *testing.T) {
	assert.Equal(t, "a", letters(0))
	assert.Equal(t, "z", letters(25))
	assert.Equal(t, "aa", letters(26))
	assert.Equal(t, "ab", letters(27))
}
