package plan

import (
	"regexp"
	"strings"
)

var (
	sqliteScanRe   = regexp.MustCompile(`(?i)^SCAN\s+(\w+)`)
	sqliteSearchRe = regexp.MustCompile(`(?i)^SEARCH\s+(\w+)\s+USING\s+(.+)`)
)

// parseSQLitePlan reads EXPLAIN QUERY PLAN tree text line by line,
// after stripping tree-drawing prefixes. Recognized shapes:
//
//	SCAN <table>                      full table scan, no index
//	SEARCH <table> USING <detail>     indexed lookup
//	USE TEMP B-TREE FOR ...           sort or grouping spill
//
// plus subquery machinery lines. Anything else non-empty is recorded
// verbatim as a node type.
func parseSQLitePlan(planText string, m *Metrics) {
	for _, rawLine := range strings.Split(planText, "\n") {
		line := strings.TrimLeft(strings.TrimSpace(rawLine), "|- ")
		lower := strings.ToLower(line)

		if match := sqliteScanRe.FindStringSubmatch(line); match != nil {
			m.NodeTypes = append(m.NodeTypes, "SCAN")
			m.ScanTypes = append(m.ScanTypes, "Full Table Scan")
			m.addTable(match[1])
			m.HasSequentialScan = true
			m.HasFullTableScan = true
			m.MissingIndexLikely = true
			continue
		}

		if match := sqliteSearchRe.FindStringSubmatch(line); match != nil {
			m.NodeTypes = append(m.NodeTypes, "SEARCH")
			m.addTable(match[1])

			detail := strings.ToLower(match[2])
			switch {
			case strings.Contains(detail, "covering index"):
				m.ScanTypes = append(m.ScanTypes, "Covering Index Scan")
			case strings.Contains(detail, "integer primary key"):
				m.ScanTypes = append(m.ScanTypes, "Primary Key Lookup")
			case strings.Contains(detail, "automatic"):
				// SQLite built a transient index because no usable
				// permanent one exists.
				m.ScanTypes = append(m.ScanTypes, "Automatic Index")
				m.MissingIndexLikely = true
			default:
				m.ScanTypes = append(m.ScanTypes, "Index Scan")
			}
			continue
		}

		if strings.Contains(lower, "temporary b-tree") || strings.Contains(lower, "temp b-tree") {
			m.NodeTypes = append(m.NodeTypes, "Temporary B-Tree")
			m.HasLargeSort = true
			switch {
			case strings.Contains(lower, "order by"):
				m.ScanTypes = append(m.ScanTypes, "Temp Sort (ORDER BY)")
			case strings.Contains(lower, "group by"):
				m.ScanTypes = append(m.ScanTypes, "Temp Sort (GROUP BY)")
			case strings.Contains(lower, "distinct"):
				m.ScanTypes = append(m.ScanTypes, "Temp Sort (DISTINCT)")
			default:
				m.ScanTypes = append(m.ScanTypes, "Temp Sort")
			}
			continue
		}

		switch {
		case strings.Contains(lower, "compound subqueries"):
			m.NodeTypes = append(m.NodeTypes, "Compound Subqueries")
		case strings.Contains(lower, "co-routine"), strings.Contains(lower, "coroutine"):
			m.NodeTypes = append(m.NodeTypes, "Co-Routine")
		case strings.HasPrefix(lower, "subquery"):
			m.NodeTypes = append(m.NodeTypes, "Subquery")
		case line != "":
			m.NodeTypes = append(m.NodeTypes, line)
		}
	}
}
