package plan

// CalculateScore derives a 1-10 performance score from the metrics.
// Deductions are independent of each other and the result is clamped
// to the [1, 10] range.
func CalculateScore(m *Metrics, slowThresholdMs float64) int {
	score := 10

	if m.ExecutionTimeMs > slowThresholdMs {
		score -= 3
	} else if m.ExecutionTimeMs > slowThresholdMs/2 {
		score--
	}

	if m.HasSequentialScan {
		score -= 2
	}
	if m.MissingIndexLikely {
		score--
	}
	if m.HasNestedLoop {
		score--
	}
	if m.HasLargeSort {
		score--
	}
	if m.HasTempDiskUsage {
		score--
	}
	if m.TotalCost > highCostThreshold {
		score--
	}

	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
