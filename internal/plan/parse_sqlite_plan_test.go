package plan

import (
	"strings"
	"testing"
)

func TestSQLitePlan_ScanLine(t *testing.T) {
	m := Analyze("SCAN orders", 0, 500, EngineSQLite)

	if got := strings.Join(m.NodeTypes, "|"); got != "SCAN" {
		t.Errorf("NodeTypes = %q, want SCAN", got)
	}
	if got := strings.Join(m.ScanTypes, "|"); got != "Full Table Scan" {
		t.Errorf("ScanTypes = %q, want Full Table Scan", got)
	}
	if got := strings.Join(m.TablesScanned, "|"); got != "orders" {
		t.Errorf("TablesScanned = %q, want orders", got)
	}
	if !m.HasSequentialScan || !m.HasFullTableScan || !m.MissingIndexLikely {
		t.Error("SCAN line must set full-scan and missing-index flags")
	}
}

func TestSQLitePlan_SearchVariants(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		scanType    string
		wantMissing bool
	}{
		{"plain index", "SEARCH orders USING INDEX idx_orders_user (user_id=?)", "Index Scan", false},
		{"covering index", "SEARCH orders USING COVERING INDEX idx_orders_all (user_id=?)", "Covering Index Scan", false},
		{"rowid lookup", "SEARCH users USING INTEGER PRIMARY KEY (rowid=?)", "Primary Key Lookup", false},
		{"automatic index", "SEARCH orders USING AUTOMATIC COVERING INDEX (user_id=?)", "Automatic Index", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Analyze(tt.line, 0, 500, EngineSQLite)

			if got := strings.Join(m.ScanTypes, "|"); got != tt.scanType {
				t.Errorf("ScanTypes = %q, want %q", got, tt.scanType)
			}
			if m.MissingIndexLikely != tt.wantMissing {
				t.Errorf("MissingIndexLikely = %v, want %v", m.MissingIndexLikely, tt.wantMissing)
			}
			if m.HasSequentialScan {
				t.Error("SEARCH line must not set HasSequentialScan")
			}
		})
	}
}

func TestSQLitePlan_TempBTreeVariants(t *testing.T) {
	tests := []struct {
		line     string
		scanType string
	}{
		{"USE TEMP B-TREE FOR ORDER BY", "Temp Sort (ORDER BY)"},
		{"USE TEMP B-TREE FOR GROUP BY", "Temp Sort (GROUP BY)"},
		{"USE TEMP B-TREE FOR DISTINCT", "Temp Sort (DISTINCT)"},
		{"USE TEMPORARY B-TREE FOR LAST TERM OF CHECK", "Temp Sort"},
	}

	for _, tt := range tests {
		t.Run(tt.scanType, func(t *testing.T) {
			m := Analyze(tt.line, 0, 500, EngineSQLite)

			if got := strings.Join(m.NodeTypes, "|"); got != "Temporary B-Tree" {
				t.Errorf("NodeTypes = %q, want Temporary B-Tree", got)
			}
			if got := strings.Join(m.ScanTypes, "|"); got != tt.scanType {
				t.Errorf("ScanTypes = %q, want %q", got, tt.scanType)
			}
			if !m.HasLargeSort {
				t.Error("HasLargeSort = false, want true")
			}
		})
	}
}

func TestSQLitePlan_TreePrefixStripped(t *testing.T) {
	planText := "|--SCAN orders\n  |--SEARCH users USING INTEGER PRIMARY KEY (rowid=?)"

	m := Analyze(planText, 0, 500, EngineSQLite)
	if got := strings.Join(m.NodeTypes, "|"); got != "SCAN|SEARCH" {
		t.Errorf("NodeTypes = %q, want SCAN|SEARCH", got)
	}
	if got := strings.Join(m.TablesScanned, "|"); got != "orders|users" {
		t.Errorf("TablesScanned = %q, want orders|users", got)
	}
}

func TestSQLitePlan_TableDeduplicated(t *testing.T) {
	planText := "SCAN orders\nSCAN orders"

	m := Analyze(planText, 0, 500, EngineSQLite)
	if got := strings.Join(m.NodeTypes, "|"); got != "SCAN|SCAN" {
		t.Errorf("NodeTypes = %q, want SCAN|SCAN", got)
	}
	if got := strings.Join(m.TablesScanned, "|"); got != "orders" {
		t.Errorf("TablesScanned = %q, want orders exactly once", got)
	}
}

func TestSQLitePlan_SubqueryMachinery(t *testing.T) {
	planText := "COMPOUND SUBQUERIES 1 AND 2 (UNION ALL)\n" +
		"CO-ROUTINE (subquery-1)\n" +
		"SUBQUERY 2"

	m := Analyze(planText, 0, 500, EngineSQLite)
	if got := strings.Join(m.NodeTypes, "|"); got != "Compound Subqueries|Co-Routine|Subquery" {
		t.Errorf("NodeTypes = %q", got)
	}
}

func TestSQLitePlan_UnrecognizedLineKeptVerbatim(t *testing.T) {
	planText := "MATERIALIZE view_totals\n\n   \n"

	m := Analyze(planText, 0, 500, EngineSQLite)
	if got := strings.Join(m.NodeTypes, "|"); got != "MATERIALIZE view_totals" {
		t.Errorf("NodeTypes = %q, want the raw line only", got)
	}
}

func TestSQLitePlan_FullTree(t *testing.T) {
	planText := `QUERY PLAN
|--SCAN orders
|--SEARCH users USING INTEGER PRIMARY KEY (rowid=?)
` + "`--USE TEMP B-TREE FOR ORDER BY"

	m := Analyze(planText, 0, 500, EngineSQLite)

	if got := strings.Join(m.TablesScanned, "|"); got != "orders|users" {
		t.Errorf("TablesScanned = %q", got)
	}
	if !m.HasSequentialScan || !m.HasLargeSort || !m.MissingIndexLikely {
		t.Error("expected full-scan, large-sort and missing-index flags")
	}
	// 10 - 2 (seq scan) - 1 (missing index) - 1 (large sort).
	if m.PerformanceScore != 6 {
		t.Errorf("PerformanceScore = %d, want 6", m.PerformanceScore)
	}
}
