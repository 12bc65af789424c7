// internal/assistant/sqlguard/validator.go

// Package sqlguard is a denylist safety net for SQL text. The primary defense
// is that the builder only emits from its fixed template set with parameter
// binding; this guard catches regressions and vets externally supplied SQL
// before execution.
package sqlguard

import (
	"regexp"
	"strings"
)

var (
	// A separator followed by anything non-whitespace means a second statement.
	multiStatement = regexp.MustCompile(`;\s*\S`)
	unionKeyword   = regexp.MustCompile(`(?i)\bUNION\b`)
	writeVerbs     = regexp.MustCompile(`(?i)\b(DROP|DELETE|UPDATE|INSERT|ALTER|TRUNCATE)\b`)
	selectsOnly    = regexp.MustCompile(`(?i)^SELECT\b`)
)

// Validate reports whether sql is a single read-only SELECT free of
// multi-statement separators, UNION and DML/DDL verbs.
func Validate(sql string) bool {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return false
	}
	if !selectsOnly.MatchString(trimmed) {
		return false
	}
	if multiStatement.MatchString(trimmed) {
		return false
	}
	if unionKeyword.MatchString(trimmed) {
		return false
	}
	if writeVerbs.MatchString(trimmed) {
		return false
	}
	return true
}
