package plan

import (
	"encoding/json"
	"strings"
)

// explainOutput is one entry of the JSON document produced by
// EXPLAIN (FORMAT JSON). The document is a single-element array.
type explainOutput struct {
	Plan          *explainNode `json:"Plan"`
	PlanningTime  float64      `json:"Planning Time"`
	ExecutionTime float64      `json:"Execution Time"`
}

// explainNode carries the subset of node attributes the metrics walk
// reads. Unknown attributes are ignored by the decoder.
type explainNode struct {
	NodeType          string        `json:"Node Type"`
	StartupCost       float64       `json:"Startup Cost"`
	TotalCost         float64       `json:"Total Cost"`
	PlanRows          int64         `json:"Plan Rows"`
	ActualRows        int64         `json:"Actual Rows"`
	SharedHitBlocks   int64         `json:"Shared Hit Blocks"`
	SharedReadBlocks  int64         `json:"Shared Read Blocks"`
	TempReadBlocks    int64         `json:"Temp Read Blocks"`
	TempWrittenBlocks int64         `json:"Temp Written Blocks"`
	RelationName      string        `json:"Relation Name"`
	Filter            string        `json:"Filter"`
	SortMethod        string        `json:"Sort Method"`
	Plans             []explainNode `json:"Plans"`
}

// parseJSONPlan decodes a JSON EXPLAIN document and folds its node tree
// into m. It reports whether the text held a usable document; timing
// and the walk only run on the first array entry.
func parseJSONPlan(planText string, m *Metrics) bool {
	var outputs []explainOutput
	if err := json.Unmarshal([]byte(planText), &outputs); err != nil || len(outputs) == 0 {
		return false
	}

	out := outputs[0]
	m.PlanningTimeMs = out.PlanningTime
	m.ActualTimeMs = out.ExecutionTime
	if out.Plan != nil {
		walkNode(out.Plan, m, 0)
	}
	return true
}

func walkNode(node *explainNode, m *Metrics, depth int) {
	if depth > maxWalkDepth {
		return
	}

	m.NodeTypes = append(m.NodeTypes, node.NodeType)

	// Track the most expensive node's cost pair rather than summing:
	// parent costs already include their children.
	if node.TotalCost > m.TotalCost {
		m.TotalCost = node.TotalCost
		m.StartupCost = node.StartupCost
	}

	m.EstimatedRows += node.PlanRows
	m.ActualRows += node.ActualRows

	m.SharedHitBlocks += node.SharedHitBlocks
	m.SharedReadBlocks += node.SharedReadBlocks
	m.TempReadBlocks += node.TempReadBlocks
	m.TempWrittenBlocks += node.TempWrittenBlocks
	if node.TempReadBlocks > 0 || node.TempWrittenBlocks > 0 {
		m.HasTempDiskUsage = true
	}

	if isScanNode(node.NodeType) {
		m.ScanTypes = append(m.ScanTypes, node.NodeType)
		table := node.RelationName
		if table == "" {
			table = "unknown"
		}
		m.addTable(table)
	}

	switch node.NodeType {
	case "Seq Scan":
		m.HasSequentialScan = true
		m.HasFullTableScan = true
		// A filter applied during a sequential scan is the classic
		// signature of a missing index.
		if node.Filter != "" {
			m.MissingIndexLikely = true
		}
	case "Bitmap Heap Scan":
		m.HasBitmapHeapScan = true
	}

	if isJoinNode(node.NodeType) {
		m.JoinTypes = append(m.JoinTypes, node.NodeType)
		switch node.NodeType {
		case "Nested Loop":
			m.HasNestedLoop = true
		case "Hash Join":
			m.HasHashJoin = true
		}
	}

	if node.NodeType == "Sort" {
		if sortSpillsToDisk(node.SortMethod) || node.PlanRows > largeSortRowThreshold {
			m.HasLargeSort = true
		}
	}

	for i := range node.Plans {
		walkNode(&node.Plans[i], m, depth+1)
	}
}

func sortSpillsToDisk(sortMethod string) bool {
	method := strings.ToLower(sortMethod)
	return strings.Contains(method, "disk") || strings.Contains(method, "external")
}

func isScanNode(nodeType string) bool {
	switch nodeType {
	case "Seq Scan", "Index Scan", "Index Only Scan", "Bitmap Index Scan", "Bitmap Heap Scan", "Tid Scan":
		return true
	}
	return false
}

func isJoinNode(nodeType string) bool {
	switch nodeType {
	case "Nested Loop", "Hash Join", "Merge Join":
		return true
	}
	return false
}
