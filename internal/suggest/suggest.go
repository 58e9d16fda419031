package suggest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/colebramer/sqlpulse/internal/plan"
)

// Thresholds for query-text heuristics.
const (
	largeResultRows   = 1000
	highCostThreshold = 10000.0
)

var selectStarRe = regexp.MustCompile(`SELECT\s+\*`)

// Generate produces performance warnings and suggestions for one
// statement from its text and plan metrics. queryType selects the
// statement-specific checks; plan-metric checks always run last, so
// ordering within each list is stable for a given input.
func Generate(query, queryType string, m *plan.Metrics, slowThresholdMs float64) (warnings, suggestions []string) {
	if m.ExecutionTimeMs > slowThresholdMs {
		warnings = append(warnings, fmt.Sprintf(
			"SLOW QUERY: Execution time %.2f ms exceeds threshold of %.0f ms",
			m.ExecutionTimeMs, slowThresholdMs))
	}

	switch queryType {
	case "SELECT":
		warnings, suggestions = analyzeSelect(query, m, warnings, suggestions)
	case "INSERT", "UPDATE", "DELETE":
		warnings, suggestions = analyzeDML(query, queryType, warnings, suggestions)
	}

	return analyzePlanMetrics(m, warnings, suggestions)
}

func analyzeSelect(query string, m *plan.Metrics, warnings, suggestions []string) ([]string, []string) {
	queryUpper := strings.ToUpper(strings.TrimSpace(query))

	if selectStarRe.MatchString(queryUpper) {
		suggestions = append(suggestions,
			"Avoid SELECT * - specify only the columns you need to reduce I/O")
	}

	if !strings.Contains(queryUpper, "WHERE") && !strings.Contains(queryUpper, "JOIN") {
		suggestions = append(suggestions,
			"No WHERE clause detected - consider adding filters to limit results")
	}

	if !strings.Contains(queryUpper, "LIMIT") && !strings.Contains(queryUpper, "TOP") &&
		(m.EstimatedRows > largeResultRows || m.ActualRows > largeResultRows) {
		suggestions = append(suggestions,
			"Large result set detected - consider using LIMIT to restrict rows")
	}

	if m.HasSequentialScan {
		for _, table := range m.TablesScanned {
			warnings = append(warnings, fmt.Sprintf("Sequential Scan detected on table '%s'", table))
		}
		for _, col := range WhereColumns(query) {
			suggestions = append(suggestions, "Create index on filtered column: "+col)
		}
	}

	if m.MissingIndexLikely {
		warnings = append(warnings, "Missing index likely - filter applied during sequential scan")
	}

	if m.TotalCost > highCostThreshold {
		warnings = append(warnings, fmt.Sprintf("High cost query: estimated cost = %.1f", m.TotalCost))
	}

	return warnings, suggestions
}

func analyzeDML(query, queryType string, warnings, suggestions []string) ([]string, []string) {
	queryUpper := strings.ToUpper(strings.TrimSpace(query))

	if queryType == "INSERT" {
		suggestions = append(suggestions,
			"Consider batch INSERT operations for better performance (e.g., multi-row VALUES or COPY)")
	}

	if queryType == "UPDATE" || queryType == "DELETE" {
		if strings.Contains(queryUpper, "WHERE") {
			for _, col := range WhereColumns(query) {
				suggestions = append(suggestions, "Ensure index exists on WHERE column: "+col)
			}
		} else {
			warnings = append(warnings,
				queryType+" without WHERE clause - this affects ALL rows in the table")
		}
	}

	suggestions = append(suggestions,
		"Check for unnecessary triggers that may slow down DML operations",
		"Review foreign key constraints - cascading actions can impact performance")

	return warnings, suggestions
}

func analyzePlanMetrics(m *plan.Metrics, warnings, suggestions []string) ([]string, []string) {
	if m.HasNestedLoop {
		warnings = append(warnings, "Nested Loop Join detected - may be slow on large datasets")
		suggestions = append(suggestions,
			"Verify join conditions have proper indexes to avoid nested loop scans")
	}

	// Informational only: a hash join is usually the right choice.
	if m.HasHashJoin {
		warnings = append(warnings, "Hash Join detected - acceptable for large joins but uses more memory")
	}

	if m.HasLargeSort {
		warnings = append(warnings, "Large sort operation detected (possibly spilling to disk)")
		suggestions = append(suggestions,
			"Add index on ORDER BY / GROUP BY columns to avoid in-memory sorting")
	}

	if m.HasBitmapHeapScan {
		warnings = append(warnings, "Bitmap Heap Scan detected - partial index usage")
		suggestions = append(suggestions,
			"Consider a more selective index or adjust query filters")
	}

	if m.HasTempDiskUsage {
		warnings = append(warnings, "Temporary disk usage detected - work_mem may be too low")
		suggestions = append(suggestions,
			"Increase work_mem setting or optimize query to reduce data volume")
	}

	return warnings, suggestions
}
