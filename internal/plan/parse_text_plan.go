package plan

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	textCostRe = regexp.MustCompile(`cost=(\d+\.?\d*)\.\.([\d.]+)`)
	textRowsRe = regexp.MustCompile(`rows=(\d+)`)
)

// parseTextPlan scans free-form plan text, such as SQL Server SHOWPLAN
// or PostgreSQL text-format EXPLAIN, for known operator names. Matching
// is case-insensitive substring detection over the whole text, so only
// boolean signals and the first cost/rows annotation can be recovered.
func parseTextPlan(planText string, m *Metrics) {
	lower := strings.ToLower(planText)

	if strings.Contains(lower, "seq scan") ||
		strings.Contains(lower, "table scan") ||
		strings.Contains(lower, "clustered index scan") {
		m.HasSequentialScan = true
		m.HasFullTableScan = true
	}

	if strings.Contains(lower, "nested loop") {
		m.HasNestedLoop = true
		m.JoinTypes = append(m.JoinTypes, "Nested Loop")
	}

	// SQL Server spells hash joins "Hash Match".
	if strings.Contains(lower, "hash join") || strings.Contains(lower, "hash match") {
		m.HasHashJoin = true
		m.JoinTypes = append(m.JoinTypes, "Hash Join")
	}

	if strings.Contains(lower, "bitmap heap scan") {
		m.HasBitmapHeapScan = true
	}

	if strings.Contains(lower, "sort") && sortSpillsToDisk(lower) {
		m.HasLargeSort = true
	}

	if match := textCostRe.FindStringSubmatch(planText); match != nil {
		m.StartupCost, _ = strconv.ParseFloat(match[1], 64)
		m.TotalCost, _ = strconv.ParseFloat(match[2], 64)
	}

	if match := textRowsRe.FindStringSubmatch(planText); match != nil {
		m.EstimatedRows, _ = strconv.ParseInt(match[1], 10, 64)
	}

	if strings.Contains(lower, "filter:") && strings.Contains(lower, "seq scan") {
		m.MissingIndexLikely = true
	}
}
