package joins

import (
	"regexp"
	"strings"
)

// TableInfo is one table reference parsed from a query's FROM and JOIN
// clauses, in appearance order.
type TableInfo struct {
	Name        string `json:"table_name"`
	Alias       string `json:"alias"`
	JoinType    string `json:"join_type"`
	OnCondition string `json:"on_condition,omitempty"`
}

// TableCount is the standalone row count probed for one table.
type TableCount struct {
	Table string `json:"table_name"`
	Alias string `json:"alias"`
	Rows  int64  `json:"row_count"`
	Error string `json:"error,omitempty"`
}

// JoinStep records the row count after joining one more table onto the
// incrementally rebuilt chain.
type JoinStep struct {
	Step   int      `json:"step"`
	Tables []string `json:"tables_joined"`
	SQL    string   `json:"join_sql"`
	Rows   int64    `json:"row_count"`
	Error  string   `json:"error,omitempty"`
}

// Diagnostic explains why a JOIN query produced zero rows.
type Diagnostic struct {
	Query         string       `json:"original_query"`
	Tables        []TableInfo  `json:"tables"`
	TableCounts   []TableCount `json:"table_counts"`
	JoinSteps     []JoinStep   `json:"join_steps"`
	CulpritTable  string       `json:"culprit_table,omitempty"`
	CulpritReason string       `json:"culprit_reason,omitempty"`
}

var (
	fromRe        = regexp.MustCompile(`(?i)\bFROM\s+(\w+)`)
	joinHeadRe    = regexp.MustCompile(`(?i)((?:LEFT|RIGHT|FULL|CROSS|INNER|OUTER)?\s*JOIN)\s+(\w+)`)
	aliasRe       = regexp.MustCompile(`(?i)^\s+(?:AS\s+)?(\w+)`)
	onClauseRe    = regexp.MustCompile(`(?i)^\s+ON\s+(.*)`)
	clauseBreakRe = regexp.MustCompile(`(?i)\s+(?:WHERE|GROUP|ORDER|LIMIT|HAVING|UNION)\b|;`)
	joinTokenRe   = regexp.MustCompile(`(?i)\bJOIN\b`)
	whereRe       = regexp.MustCompile(`(?i)\bWHERE\s+(.*?)(?:\s+GROUP\b|\s+ORDER\b|\s+LIMIT\b|\s+HAVING\b|\s+UNION\b|;|\s*$)`)
)

// reservedTokens are keywords that must not be mistaken for a table
// name or alias while pattern-matching.
var reservedTokens = map[string]bool{
	"JOIN": true, "LEFT": true, "RIGHT": true, "FULL": true, "CROSS": true,
	"INNER": true, "OUTER": true, "ON": true, "WHERE": true, "GROUP": true,
	"ORDER": true, "LIMIT": true, "HAVING": true, "UNION": true, "AS": true,
	"SET": true, "SELECT": true,
}

// HasJoins reports whether a query contains at least one JOIN keyword.
func HasJoins(query string) bool {
	return joinTokenRe.MatchString(query)
}

// ExtractTables parses the FROM table and every JOIN clause from a
// query via pattern matching on whitespace-normalized text. Aliases
// default to the table name; ON conditions are captured verbatim up to
// the next JOIN or clause keyword. Heuristic only: comma-separated
// FROM lists and subqueries are not understood.
func ExtractTables(query string) []TableInfo {
	normalized := strings.Join(strings.Fields(query), " ")

	var tables []TableInfo

	if m := fromRe.FindStringSubmatchIndex(normalized); m != nil {
		name := normalized[m[2]:m[3]]
		// A parenthesis right before the name marks a subquery, which
		// has no countable base table.
		if !(m[2] > 0 && normalized[m[2]-1] == '(') {
			alias := name
			if am := aliasRe.FindStringSubmatch(normalized[m[3]:]); am != nil && !reservedTokens[strings.ToUpper(am[1])] {
				alias = am[1]
			}
			tables = append(tables, TableInfo{Name: name, Alias: alias, JoinType: "FROM"})
		}
	}

	heads := joinHeadRe.FindAllStringSubmatchIndex(normalized, -1)
	for i, m := range heads {
		joinType := strings.ToUpper(strings.TrimSpace(normalized[m[2]:m[3]]))
		name := normalized[m[4]:m[5]]
		if reservedTokens[strings.ToUpper(name)] {
			continue
		}

		// The clause body runs to the next JOIN head or clause keyword.
		segEnd := len(normalized)
		if i+1 < len(heads) {
			segEnd = heads[i+1][0]
		}
		seg := normalized[m[5]:segEnd]
		if loc := clauseBreakRe.FindStringIndex(seg); loc != nil {
			seg = seg[:loc[0]]
		}

		alias := name
		if am := aliasRe.FindStringSubmatch(seg); am != nil && !reservedTokens[strings.ToUpper(am[1])] {
			alias = am[1]
			seg = seg[len(am[0]):]
		}

		onCond := ""
		if om := onClauseRe.FindStringSubmatch(seg); om != nil {
			onCond = strings.TrimSpace(om[1])
		}

		tables = append(tables, TableInfo{
			Name:        name,
			Alias:       alias,
			JoinType:    joinType,
			OnCondition: onCond,
		})
	}

	return tables
}

// extractWhereClause returns the WHERE clause body, without the WHERE
// keyword, or an empty string.
func extractWhereClause(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if m := whereRe.FindStringSubmatch(normalized); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
