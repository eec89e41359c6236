package sql

import (
	dbsql "database/sql"
	"reflect"
	"strconv"
	"strings"

	"github.com/syssam/sqlbridge/dialect"
)

// Rebind converts the :name placeholders of a compiled statement into the
// placeholder style of the given dialect and returns the ordered argument
// list:
//
//   - MySQL, Firebird: ? with positional args
//   - Postgres:        $1, $2, ... with positional args
//   - Oracle:          :name kept as-is with sql.Named args
//
// Slice-valued binds expand into a parenthesized list, one placeholder per
// element, so "col IN :a_col" binds naturally. An empty slice expands to
// (NULL), which matches no row.
//
// Placeholders with no entry in binds are left untouched, and text inside
// string literals, quoted identifiers, comments, and Postgres ::casts is
// never rewritten. MySQL treats a backslash inside a literal as an escape
// character, so for that dialect backslash pairs are consumed without ending
// the literal; the other dialects take backslashes literally.
func Rebind(d, query string, binds Binds) (string, []any) {
	var (
		buf  strings.Builder
		args = make([]any, 0, len(binds))
		n    = 0 // emitted placeholder count, for $n numbering
	)
	buf.Grow(len(query) + 8)

	const (
		sText = iota
		sSQ   // '...'
		sDQ   // "..."
		sBT   // `...`
		sLC   // line comment --
		sBC   // block comment /* ... */
	)
	state := sText

	emit := func(name string, value any) {
		rv := reflect.ValueOf(value)
		if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type() != reflect.TypeOf([]byte(nil)) {
			if rv.Len() == 0 {
				buf.WriteString("(NULL)")
				return
			}
			buf.WriteByte('(')
			for i := 0; i < rv.Len(); i++ {
				if i > 0 {
					buf.WriteString(", ")
				}
				writeArg(&buf, d, name+"_"+strconv.Itoa(i), &n, &args, rv.Index(i).Interface())
			}
			buf.WriteByte(')')
			return
		}
		writeArg(&buf, d, name, &n, &args, value)
	}

	for i := 0; i < len(query); {
		c := query[i]
		switch state {
		case sText:
			switch {
			case c == '-' && i+1 < len(query) && query[i+1] == '-':
				state = sLC
				buf.WriteString("--")
				i += 2
				continue
			case c == '/' && i+1 < len(query) && query[i+1] == '*':
				state = sBC
				buf.WriteString("/*")
				i += 2
				continue
			case c == '\'':
				state = sSQ
			case c == '"':
				state = sDQ
			case c == '`':
				state = sBT
			case c == ':':
				// Skip ::casts and require an identifier start.
				if i+1 < len(query) && query[i+1] == ':' {
					buf.WriteString("::")
					i += 2
					continue
				}
				// A third colon directly after a consumed ::cast pair is
				// not a placeholder start either.
				if i > 0 && query[i-1] == ':' {
					break
				}
				j := i + 1
				if j < len(query) && isNameStart(query[j]) {
					k := j + 1
					for k < len(query) && isNameChar(query[k]) {
						k++
					}
					name := query[j:k]
					if value, ok := binds[name]; ok {
						emit(name, value)
						i = k
						continue
					}
				}
			}
			buf.WriteByte(c)
			i++
		case sSQ:
			if c == '\\' && d == dialect.MySQL && i+1 < len(query) {
				buf.WriteString(query[i : i+2])
				i += 2
				continue
			}
			buf.WriteByte(c)
			i++
			if c == '\'' {
				state = sText
			}
		case sDQ:
			if c == '\\' && d == dialect.MySQL && i+1 < len(query) {
				buf.WriteString(query[i : i+2])
				i += 2
				continue
			}
			buf.WriteByte(c)
			i++
			if c == '"' {
				state = sText
			}
		case sBT:
			buf.WriteByte(c)
			i++
			if c == '`' {
				state = sText
			}
		case sLC:
			buf.WriteByte(c)
			i++
			if c == '\n' {
				state = sText
			}
		case sBC:
			if c == '*' && i+1 < len(query) && query[i+1] == '/' {
				buf.WriteString("*/")
				i += 2
				state = sText
				continue
			}
			buf.WriteByte(c)
			i++
		}
	}
	return buf.String(), args
}

// writeArg emits one dialect placeholder and appends its argument.
func writeArg(buf *strings.Builder, d, name string, n *int, args *[]any, value any) {
	*n++
	switch d {
	case dialect.Postgres:
		buf.WriteByte('$')
		buf.WriteString(strconv.Itoa(*n))
		*args = append(*args, value)
	case dialect.Oracle:
		buf.WriteByte(':')
		buf.WriteString(name)
		*args = append(*args, dbsql.Named(name, value))
	default:
		buf.WriteByte('?')
		*args = append(*args, value)
	}
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
