// Package search implements changelist search: the term is lowercased and
// split on whitespace, every word must match at least one search field.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const likeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Terms lowercases the raw query and splits it into words. Lowercasing,
// not case folding, keeps terms comparable with the columns under SQL LOWER:
// folding would turn ß into ss and miss the stored text.
func Terms(raw string) []string {
	lowered := cases.Lower(language.Und).String(strings.TrimSpace(raw))
	return strings.Fields(lowered)
}

// Pattern builds the case-insensitive containment pattern for one word.
func Pattern(term string) string {
	return "%" + likeReplacer.Replace(term) + "%"
}

// Scope narrows a query to rows where every term of raw matches one of fields.
// Fields are SQL column expressions; an empty query or field list is a no-op.
func Scope(fields []string, raw string) func(*gorm.DB) *gorm.DB {
	terms := Terms(raw)
	return func(db *gorm.DB) *gorm.DB {
		if len(terms) == 0 || len(fields) == 0 {
			return db
		}
		for _, term := range terms {
			db = db.Where(Clause(fields), Args(fields, term)...)
		}
		return db
	}
}

// Clause returns the OR-ed LIKE clause over fields with one placeholder each.
func Clause(fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, "LOWER("+field+") LIKE ? ESCAPE '"+likeEscape+"'")
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Args repeats the pattern for term once per field.
func Args(fields []string, term string) []any {
	pattern := Pattern(term)
	args := make([]any, len(fields))
	for i := range fields {
		args[i] = pattern
	}
	return args
}
