// Package sql provides the database/sql-backed driver implementation and the
// dialect-aware clause compilers used by sqlbridge.
//
// The compilers translate structured filter, limit and grouping descriptors
// into SQL fragments plus a named placeholder map:
//
//	clause, binds := sql.CompileWhere(sql.Filters{
//	    sql.Raw("zip_code IS NOT NULL"),
//	    sql.Cond("id >", 10),
//	    sql.Cond("last_name LIKE", "%Ge%"),
//	})
//	// clause: WHERE zip_code IS NOT NULL AND id > :a_id AND last_name LIKE :a_last_name
//	// binds:  {a_id: 10, a_last_name: "%Ge%"}
//
// Compiled fragments carry :name placeholders regardless of dialect; Rebind
// converts them to the placeholder style the active driver expects before
// execution.
//
// Compiler functions never fail. Malformed inputs degrade to an empty clause
// or a passthrough fragment, and errors surface only at execution time.
package sql
