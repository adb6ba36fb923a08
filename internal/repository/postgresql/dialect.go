package repository

import (
	"database/sql"
	"regexp"
	"strings"
)

// Dialect adapts the Postgres-flavoured SQL in this package to the driver in
// use. Queries number their placeholders $1..$n in argument order.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite3"
)

var placeholderRe = regexp.MustCompile(`\$\d+`)

func (d Dialect) Rebind(query string) string {
	if d != MySQL {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}

func (d Dialect) likeEscape() string {
	if d == MySQL {
		return `ESCAPE '\\'`
	}
	return `ESCAPE '\'`
}

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-folded LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(s)) + "%"
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
