package plan

import (
	"strings"
	"testing"
)

func TestAnalyze_EmptyPlanText(t *testing.T) {
	m := Analyze("", 12.5, 500, EnginePostgres)

	if m.ExecutionTimeMs != 12.5 {
		t.Errorf("ExecutionTimeMs = %f, want 12.5", m.ExecutionTimeMs)
	}
	if len(m.NodeTypes) != 0 || m.HasSequentialScan {
		t.Error("empty plan text must yield baseline metrics")
	}
	if m.PerformanceScore != 10 {
		t.Errorf("PerformanceScore = %d, want 10", m.PerformanceScore)
	}
}

func TestAnalyze_EmptyPlanTextStillScoresTiming(t *testing.T) {
	m := Analyze("", 1200, 500, EnginePostgres)

	if m.PerformanceScore != 7 {
		t.Errorf("PerformanceScore = %d, want 7 (slow query deduction applies without a plan)", m.PerformanceScore)
	}
}

func TestAnalyze_UnknownEngine(t *testing.T) {
	m := Analyze(nestedLoopFixture, 42.75, 500, "oracle")

	if len(m.NodeTypes) != 0 || m.HasSequentialScan || m.HasNestedLoop {
		t.Error("unknown engine must leave the plan text unparsed")
	}
	if m.ExecutionTimeMs != 42.75 {
		t.Errorf("ExecutionTimeMs = %f, want 42.75", m.ExecutionTimeMs)
	}
	if m.PerformanceScore != 10 {
		t.Errorf("PerformanceScore = %d, want 10", m.PerformanceScore)
	}
}

func TestAnalyze_TextFallbackForMalformedJSON(t *testing.T) {
	planText := "Seq Scan on users  (cost=0.00..431.00 rows=21000 width=244)\n  Filter: (age > 18)"

	m := Analyze(planText, 0, 500, EnginePostgres)
	if !m.HasSequentialScan || !m.HasFullTableScan {
		t.Error("sequential scan not detected in text plan")
	}
	if !m.MissingIndexLikely {
		t.Error("MissingIndexLikely = false, want true (filter on seq scan)")
	}
	if m.TotalCost != 431.00 {
		t.Errorf("TotalCost = %f, want 431.00", m.TotalCost)
	}
	if m.EstimatedRows != 21000 {
		t.Errorf("EstimatedRows = %d, want 21000", m.EstimatedRows)
	}
}

func TestAnalyze_ValidJSONUnexpectedShape(t *testing.T) {
	// MySQL emits a JSON object, not the array the decoder expects.
	// Valid JSON of the wrong shape must not leak into the free-form
	// text dialect, which would misread words like "sort" in it.
	planText := `{"query_block": {"select_id": 1, "cost_info": {"query_cost": "431.00"}, "ordering_operation": {"using_filesort": true}}}`

	m := Analyze(planText, 0, 500, EngineMySQL)
	if len(m.NodeTypes) != 0 || m.HasSequentialScan || m.HasLargeSort {
		t.Error("object-shaped JSON must yield baseline metrics")
	}
	if m.PerformanceScore != 10 {
		t.Errorf("PerformanceScore = %d, want 10", m.PerformanceScore)
	}
}

func TestAnalyze_SQLiteRoutesToLineDialect(t *testing.T) {
	m := Analyze("SCAN users", 0, 500, EngineSQLite)

	if got := strings.Join(m.ScanTypes, "|"); got != "Full Table Scan" {
		t.Errorf("ScanTypes = %q, want Full Table Scan", got)
	}
	if !m.HasSequentialScan || !m.MissingIndexLikely {
		t.Error("sqlite SCAN line did not set scan flags")
	}
}

func TestAnalyze_SQLServerTextPlan(t *testing.T) {
	planText := "  |--Hash Match(Inner Join, HASH:([a].[id])=([b].[a_id]))\n" +
		"       |--Clustered Index Scan(OBJECT:([db].[dbo].[users].[PK_users]))"

	m := Analyze(planText, 0, 500, EngineSQLServer)
	if !m.HasHashJoin {
		t.Error("HasHashJoin = false, want true for Hash Match")
	}
	if !m.HasSequentialScan {
		t.Error("HasSequentialScan = false, want true for Clustered Index Scan")
	}
}

func TestAnalyze_DeepPlanBounded(t *testing.T) {
	depth := 3 * maxWalkDepth
	var b strings.Builder
	b.WriteString(`[{"Plan": `)
	for i := 0; i < depth; i++ {
		b.WriteString(`{"Node Type": "Nested Loop", "Plans": [`)
	}
	b.WriteString(`{"Node Type": "Seq Scan"}`)
	for i := 0; i < depth; i++ {
		b.WriteString(`]}`)
	}
	b.WriteString(`}]`)

	m := Analyze(b.String(), 0, 500, EnginePostgres)
	if len(m.NodeTypes) != maxWalkDepth+1 {
		t.Errorf("visited %d nodes, want walk capped at %d", len(m.NodeTypes), maxWalkDepth+1)
	}
	if !m.HasNestedLoop {
		t.Error("HasNestedLoop = false, want true")
	}
}
