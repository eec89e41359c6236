package sql

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter is a single entry of a Filters sequence. It is either a raw SQL
// predicate emitted verbatim, or a column/value pair whose key may carry a
// trailing comparison operator ("id >", "last_name LIKE"). Keys without an
// operator default to "=".
type Filter struct {
	key   string
	value any
	raw   string
	isRaw bool
}

// Raw returns a filter entry holding a verbatim SQL predicate. The caller is
// responsible for sanitizing it; raw entries never contribute to the
// placeholder map.
func Raw(expr string) Filter {
	return Filter{raw: expr, isRaw: true}
}

// Cond returns a keyed filter entry. The key is a column reference optionally
// suffixed with a comparison operator.
func Cond(key string, value any) Filter {
	return Filter{key: key, value: value}
}

// Filters is an ordered sequence of filter entries. Order is preserved in the
// compiled clause.
type Filters []Filter

// Binds maps generated placeholder names to their bound values. A Binds map
// is produced fresh by each compilation and is owned exclusively by the query
// invocation that produced it.
type Binds map[string]any

// opSuffix matches a trailing comparison operator on a filter key. Symbol
// operators may be attached directly to the column; word operators require
// separating whitespace.
var opSuffix = regexp.MustCompile(`(?i)^(.+?)(?:\s*(<>|!=|<=|>=|=|<|>)|\s+(NOT\s+LIKE|LIKE|NOT\s+IN|IN|IS\s+NOT|IS))\s*$`)

// splitKey splits a filter key into its column reference and operator.
// Malformed keys fail open: the whole key becomes the column name with an
// implicit "=".
func splitKey(key string) (column, op string) {
	m := opSuffix.FindStringSubmatch(key)
	if m == nil {
		return strings.TrimSpace(key), "="
	}
	column = strings.TrimSpace(m[1])
	switch {
	case m[2] != "":
		op = m[2]
	default:
		// Normalize word operators to a single-spaced upper form.
		op = strings.ToUpper(strings.Join(strings.Fields(m[3]), " "))
	}
	return column, op
}

// falsy reports whether a bound value is the empty sentinel. Entries bound to
// such values are dropped before compilation; callers must not rely on
// zero/false/empty-string values surviving into the compiled clause.
func falsy(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int8:
		return v == 0
	case int16:
		return v == 0
	case int32:
		return v == 0
	case int64:
		return v == 0
	case uint:
		return v == 0
	case uint8:
		return v == 0
	case uint16:
		return v == 0
	case uint32:
		return v == 0
	case uint64:
		return v == 0
	case float32:
		return v == 0
	case float64:
		return v == 0
	}
	return false
}

// CompileWhere compiles fs into a "WHERE ..." fragment and its placeholder
// map. An empty or all-falsy sequence compiles to the empty string and an
// empty map; no "WHERE 1=1" fallback is emitted.
func CompileWhere(fs Filters) (string, Binds) {
	return fs.Compile("WHERE", nil)
}

// CompileHaving compiles fs into a "HAVING ..." fragment. Placeholder names
// already present in used are avoided, so a HAVING clause can be merged with
// the binds of a WHERE clause from the same statement.
func CompileHaving(fs Filters, used Binds) (string, Binds) {
	return fs.Compile("HAVING", used)
}

// Compile compiles fs into a predicate fragment prefixed with the given
// keyword. Placeholder names already present in used are avoided.
func (fs Filters) Compile(keyword string, used Binds) (string, Binds) {
	binds := make(Binds, len(fs))
	preds := make([]string, 0, len(fs))
	occ := make(map[string]int, len(fs))
	for _, f := range fs {
		if f.isRaw {
			if f.raw == "" {
				continue
			}
			preds = append(preds, f.raw)
			continue
		}
		if strings.TrimSpace(f.key) == "" || falsy(f.value) {
			continue
		}
		column, op := splitKey(f.key)
		name := placeholder(column, occ, used, binds)
		preds = append(preds, fmt.Sprintf("%s %s :%s", column, op, name))
		binds[name] = f.value
	}
	if len(preds) == 0 {
		return "", binds
	}
	return keyword + " " + strings.Join(preds, " AND "), binds
}

// placeholder generates a unique placeholder name for column: a positional
// letter index joined to the normalized column name (dots and any other
// non-identifier characters replaced with underscores). Repeated references
// to one column advance the letter, so a BETWEEN-style pair ("col >",
// "col <") binds two distinct names.
func placeholder(column string, occ map[string]int, used, binds Binds) string {
	norm := normalizeName(column)
	for {
		name := letters(occ[norm]) + "_" + norm
		occ[norm]++
		if _, ok := binds[name]; ok {
			continue
		}
		if _, ok := used[name]; ok {
			continue
		}
		return name
	}
}

// normalizeName maps a column reference to a valid placeholder identifier.
func normalizeName(column string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, column)
}

// letters renders n as a spreadsheet-style letter index: a..z, aa, ab, ...
func letters(n int) string {
	s := ""
	for {
		s = string(rune('a'+n%26)) + s
		n = n/26 - 1
		if n < 0 {
			return s
		}
	}
}
