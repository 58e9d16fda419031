package suggest

import (
	"regexp"
	"strings"
)

var (
	whereClauseRe = regexp.MustCompile(`(?is)\bWHERE\b\s+(.*?)(?:\bGROUP\b|\bORDER\b|\bLIMIT\b|\bHAVING\b|$)`)
	whereColumnRe = regexp.MustCompile(`(?i)(\b[\w]+(?:\.[\w]+)?)\s*(?:=|!=|<>|>=|<=|>|<|\bIN\b|\bLIKE\b|\bBETWEEN\b|\bIS\b)`)
)

// sqlKeywords are tokens the column matcher must not mistake for column
// references.
var sqlKeywords = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NULL": true, "TRUE": true,
	"FALSE": true, "IN": true, "LIKE": true, "BETWEEN": true, "IS": true,
	"EXISTS": true, "ANY": true, "ALL": true, "SOME": true,
}

// WhereColumns extracts column references from a query's WHERE clause:
// identifiers, optionally table-qualified, directly followed by a
// comparison or membership operator, deduplicated in first-seen order.
// This is a heuristic, not a parser; string literals and subqueries are
// not understood.
func WhereColumns(query string) []string {
	match := whereClauseRe.FindStringSubmatch(query)
	if match == nil {
		return nil
	}

	var cols []string
	seen := make(map[string]bool)
	for _, m := range whereColumnRe.FindAllStringSubmatch(match[1], -1) {
		col := m[1]
		if sqlKeywords[strings.ToUpper(col)] || seen[col] {
			continue
		}
		seen[col] = true
		cols = append(cols, col)
	}
	return cols
}
