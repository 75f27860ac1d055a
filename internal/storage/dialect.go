package storage

import (
	"strconv"
	"strings"
)

// Dialect identifies the bind-parameter style of a database driver.
type Dialect int

const (
	// DialectSQLite uses "?" placeholders (modernc.org/sqlite).
	DialectSQLite Dialect = iota
	// DialectPostgres uses "$n" placeholders (lib/pq and pgx).
	DialectPostgres
)

// DialectFor maps a configured STORE_DRIVER value to its dialect.
func DialectFor(driver string) Dialect {
	switch driver {
	case "postgres", "pgx":
		return DialectPostgres
	default:
		return DialectSQLite
	}
}

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// TimestampOrder returns the ORDER BY key for a timestamp column.
//
// SQLite compares stored values by storage class, so a column mixing unix
// numbers and text in different layouts does not sort chronologically.
// The SQLite key maps every encoding to unix seconds first.
func (d Dialect) TimestampOrder(column string) string {
	if d == DialectPostgres {
		return column
	}
	return "CASE WHEN typeof(" + column + ") IN ('integer', 'real') THEN " + column +
		" ELSE unixepoch(" + column + ", 'subsec') END"
}

// Rebind rewrites "?" placeholders into the dialect's style.
// Queries in this package never carry "?" inside string literals.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
