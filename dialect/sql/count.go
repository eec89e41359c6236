package sql

import (
	"regexp"

	"github.com/syssam/sqlbridge/dialect"
)

// selectFrom splits a statement into its column list and everything after the
// first FROM. This is intentionally the simple form: it mis-splits subqueries
// and column expressions containing the word FROM, and callers of
// RewriteCount inherit that limitation.
var selectFrom = regexp.MustCompile(`(?is)^\s*SELECT\s+(.*?)\s+FROM\s+(.*)$`)

// trailingOrderBy matches a trailing ORDER BY, which is irrelevant to
// counting and may reference columns dropped by the rewrite.
var trailingOrderBy = regexp.MustCompile(`(?is)\s+ORDER\s+BY\s+[^)]*$`)

var distinctPrefix = regexp.MustCompile(`(?is)^DISTINCT\s+(.*)$`)

// limitTokens maps each dialect to the pagination keywords its limit
// compiler emits.
var limitTokens = map[string]*regexp.Regexp{
	dialect.MySQL:    regexp.MustCompile(`(?i)\bLIMIT\s+\d`),
	dialect.Postgres: regexp.MustCompile(`(?i)\bLIMIT\s+\d|\bOFFSET\s+\d`),
	dialect.Oracle:   regexp.MustCompile(`(?i)\bFETCH\s+NEXT\b|\bOFFSET\s+\d+\s+ROWS?\b`),
	dialect.Firebird: regexp.MustCompile(`(?i)\bFIRST\s+\d|\bSKIP\s+\d`),
}

// HasLimitToken reports whether query already carries the pagination syntax
// of the given dialect. Such statements cannot be rewritten into a COUNT
// query, since their limits have already been applied; callers fall back to
// fetching and counting rows. Unknown dialects check every token set.
func HasLimitToken(d, query string) bool {
	if re, ok := limitTokens[d]; ok {
		return re.MatchString(query)
	}
	for _, re := range limitTokens {
		if re.MatchString(query) {
			return true
		}
	}
	return false
}

// RewriteCount rewrites a SELECT statement into a COUNT query:
//
//	SELECT <cols> FROM <rest>  ->  SELECT COUNT(<target>) AS row_count FROM <rest>
//
// with any trailing ORDER BY stripped. The count target defaults to * and
// becomes DISTINCT <cols> when the column list requested distinct rows,
// preserving count semantics for deduplicated result sets. The second return
// value is false when the statement does not match the SELECT ... FROM shape;
// the input is then returned unchanged.
func RewriteCount(query string) (string, bool) {
	m := selectFrom.FindStringSubmatch(query)
	if m == nil {
		return query, false
	}
	target := "*"
	if d := distinctPrefix.FindStringSubmatch(m[1]); d != nil {
		target = "DISTINCT " + d[1]
	}
	rest := trailingOrderBy.ReplaceAllString(m[2], "")
	return "SELECT COUNT(" + target + ") AS row_count FROM " + rest, true
}
