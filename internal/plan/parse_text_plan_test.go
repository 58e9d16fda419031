package plan

import (
	"strings"
	"testing"
)

func TestTextPlan_PostgresTextFormat(t *testing.T) {
	planText := `Nested Loop  (cost=0.43..1655.50 rows=100 width=244)
  ->  Seq Scan on orders  (cost=0.00..155.00 rows=5000 width=8)
        Filter: (status = 'open')
  ->  Index Scan using users_pkey on users  (cost=0.43..8.45 rows=1 width=236)`

	m := Analyze(planText, 0, 500, EnginePostgres)

	if !m.HasSequentialScan || !m.HasFullTableScan {
		t.Error("sequential scan not detected")
	}
	if !m.HasNestedLoop {
		t.Error("nested loop not detected")
	}
	if got := strings.Join(m.JoinTypes, "|"); got != "Nested Loop" {
		t.Errorf("JoinTypes = %q, want Nested Loop", got)
	}
	if !m.MissingIndexLikely {
		t.Error("MissingIndexLikely = false, want true (filter plus seq scan)")
	}
	if m.StartupCost != 0.43 || m.TotalCost != 1655.50 {
		t.Errorf("cost = %f..%f, want 0.43..1655.50 (first annotation wins)", m.StartupCost, m.TotalCost)
	}
	if m.EstimatedRows != 100 {
		t.Errorf("EstimatedRows = %d, want 100 (first annotation wins)", m.EstimatedRows)
	}
}

func TestTextPlan_SQLServerShowplan(t *testing.T) {
	planText := `  |--Nested Loops(Inner Join, OUTER REFERENCES:([o].[user_id]))
       |--Table Scan(OBJECT:([db].[dbo].[orders] AS [o]))
       |--Hash Match(Aggregate, HASH:([u].[id]))`

	m := Analyze(planText, 0, 500, EngineSQLServer)

	if !m.HasSequentialScan {
		t.Error("table scan not detected")
	}
	if !m.HasNestedLoop || !m.HasHashJoin {
		t.Error("join operators not detected")
	}
	if got := strings.Join(m.JoinTypes, "|"); got != "Nested Loop|Hash Join" {
		t.Errorf("JoinTypes = %q", got)
	}
}

func TestTextPlan_SortSpillToDisk(t *testing.T) {
	planText := "Sort  (cost=69.83..72.33 rows=1000 width=8)\n  Sort Method: external merge  Disk: 10240kB"

	m := Analyze(planText, 0, 500, EnginePostgres)
	if !m.HasLargeSort {
		t.Error("HasLargeSort = false, want true for on-disk sort")
	}
}

func TestTextPlan_InMemorySort(t *testing.T) {
	planText := "Sort  (cost=69.83..72.33 rows=1000 width=8)\n  Sort Method: quicksort  Memory: 71kB"

	m := Analyze(planText, 0, 500, EnginePostgres)
	if m.HasLargeSort {
		t.Error("HasLargeSort = true, want false for in-memory sort")
	}
}

func TestTextPlan_BitmapHeapScan(t *testing.T) {
	planText := "Bitmap Heap Scan on orders  (cost=4.18..12.64 rows=4 width=8)"

	m := Analyze(planText, 0, 500, EnginePostgres)
	if !m.HasBitmapHeapScan {
		t.Error("HasBitmapHeapScan = false, want true")
	}
}

func TestTextPlan_NoRecognizedOperators(t *testing.T) {
	planText := "Result  (cost=0.00..0.01 rows=1 width=4)"

	m := Analyze(planText, 0, 500, EnginePostgres)
	if m.HasSequentialScan || m.HasNestedLoop || m.HasHashJoin || m.HasLargeSort {
		t.Error("no issue flags expected")
	}
	if m.StartupCost != 0.00 || m.TotalCost != 0.01 {
		t.Errorf("cost = %f..%f, want 0.00..0.01", m.StartupCost, m.TotalCost)
	}
	if m.EstimatedRows != 1 {
		t.Errorf("EstimatedRows = %d, want 1", m.EstimatedRows)
	}
	if m.PerformanceScore != 10 {
		t.Errorf("PerformanceScore = %d, want 10", m.PerformanceScore)
	}
}
