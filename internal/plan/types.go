package plan

// Metrics is the accumulator populated while walking a query plan.
// Every field except PerformanceScore is written during parsing; the
// score is derived last, once all flags and costs are known.
type Metrics struct {
	// Cost estimates. TotalCost keeps the highest value seen across
	// nodes, with the StartupCost belonging to that same node.
	StartupCost float64 `json:"startup_cost"`
	TotalCost   float64 `json:"total_cost"`

	// Row estimates, summed across all nodes.
	EstimatedRows int64 `json:"estimated_rows"`
	ActualRows    int64 `json:"actual_rows"`

	// Buffer statistics, summed across all nodes.
	SharedHitBlocks   int64 `json:"shared_hit_blocks"`
	SharedReadBlocks  int64 `json:"shared_read_blocks"`
	TempReadBlocks    int64 `json:"temp_read_blocks"`
	TempWrittenBlocks int64 `json:"temp_written_blocks"`

	// Timing. ExecutionTimeMs is measured by the caller, not parsed
	// from the plan.
	PlanningTimeMs  float64 `json:"planning_time_ms"`
	ActualTimeMs    float64 `json:"actual_time_ms"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`

	// Classification, in first-seen order. TablesScanned is deduplicated.
	NodeTypes     []string `json:"node_types"`
	ScanTypes     []string `json:"scan_types"`
	JoinTypes     []string `json:"join_types"`
	TablesScanned []string `json:"tables_scanned"`

	// Detected issues.
	HasSequentialScan  bool `json:"has_sequential_scan"`
	HasFullTableScan   bool `json:"has_full_table_scan"`
	HasNestedLoop      bool `json:"has_nested_loop"`
	HasHashJoin        bool `json:"has_hash_join"`
	HasLargeSort       bool `json:"has_large_sort"`
	HasBitmapHeapScan  bool `json:"has_bitmap_heap_scan"`
	HasTempDiskUsage   bool `json:"has_temp_disk_usage"`
	MissingIndexLikely bool `json:"missing_index_likely"`

	// PerformanceScore runs from 1 (worst) to 10 (best).
	PerformanceScore int `json:"performance_score"`
}

func (m *Metrics) addTable(name string) {
	for _, t := range m.TablesScanned {
		if t == name {
			return
		}
	}
	m.TablesScanned = append(m.TablesScanned, name)
}
