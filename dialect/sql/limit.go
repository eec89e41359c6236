package sql

import (
	"fmt"

	"github.com/syssam/sqlbridge/dialect"
)

// Limit describes a row cap with an optional offset. It is constructed per
// query, translated into dialect syntax at compile time, and discarded after
// use.
type Limit struct {
	Offset     int
	Count      int
	withOffset bool
}

// NewLimit returns a limit for the first n rows.
func NewLimit(n int) *Limit {
	return &Limit{Count: n}
}

// NewLimitOffset returns a limit for n rows starting at offset o. The offset
// is emitted even when it is zero, so first-page clauses stay syntactically
// distinct from plain limits.
func NewLimitOffset(o, n int) *Limit {
	return &Limit{Offset: o, Count: n, withOffset: true}
}

// LimitClause is a compiled limit fragment together with its splice position.
// Firebird places its limit before the SELECT column list, so the compiler
// exposes where to splice the output, not just what to emit: Prefix goes
// immediately after the SELECT keyword, Suffix after the last clause of the
// statement.
type LimitClause struct {
	Prefix string
	Suffix string
}

// limitFormats is the dialect-keyed strategy table for limit emission.
// Unknown dialects fall back to the MySQL/PostgreSQL form.
var limitFormats = map[string]func(*Limit) LimitClause{
	dialect.MySQL:    limitOffsetFormat,
	dialect.Postgres: limitOffsetFormat,
	dialect.Oracle:   fetchNextFormat,
	dialect.Firebird: firstSkipFormat,
}

// CompileLimit translates l into the pagination syntax of the given dialect.
// A nil limit or a zero row cap compiles to an empty clause.
func CompileLimit(d string, l *Limit) LimitClause {
	if l == nil || l.Count == 0 {
		return LimitClause{}
	}
	format, ok := limitFormats[d]
	if !ok {
		format = limitOffsetFormat
	}
	return format(l)
}

func limitOffsetFormat(l *Limit) LimitClause {
	if l.withOffset {
		return LimitClause{Suffix: fmt.Sprintf("LIMIT %d OFFSET %d", l.Count, l.Offset)}
	}
	return LimitClause{Suffix: fmt.Sprintf("LIMIT %d", l.Count)}
}

func fetchNextFormat(l *Limit) LimitClause {
	if l.withOffset {
		return LimitClause{Suffix: fmt.Sprintf("OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", l.Offset, l.Count)}
	}
	return LimitClause{Suffix: fmt.Sprintf("FETCH NEXT %d ROWS ONLY", l.Count)}
}

func firstSkipFormat(l *Limit) LimitClause {
	if l.withOffset {
		return LimitClause{Prefix: fmt.Sprintf("FIRST %d SKIP %d ", l.Count, l.Offset)}
	}
	return LimitClause{Prefix: fmt.Sprintf("FIRST %d ", l.Count)}
}
