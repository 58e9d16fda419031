package compare

import (
	"fmt"
	"math"

	"github.com/colebramer/sqlpulse/internal/report"
	"github.com/colebramer/sqlpulse/internal/runner"
	"github.com/colebramer/sqlpulse/internal/sqlfile"
)

// Compare diffs two saved reports query by query. Queries are paired by
// position; extra queries on either side are counted in the summary rather
// than treated as an error.
func Compare(old, new *report.Report) *Comparison {
	n := min(len(old.Queries), len(new.Queries))

	deltas := make([]QueryDelta, 0, n)
	for i := 0; i < n; i++ {
		deltas = append(deltas, diffQuery(&old.Queries[i], &new.Queries[i]))
	}

	return &Comparison{
		Summary: summarize(old, new, deltas),
		Deltas:  deltas,
	}
}

func diffQuery(old, new *runner.Result) QueryDelta {
	d := QueryDelta{
		QueryNumber: new.QueryNumber,
		QueryText:   sqlfile.Truncate(new.QueryText, 80),

		OldTimeMs:   old.ExecutionTimeMs,
		NewTimeMs:   new.ExecutionTimeMs,
		TimeDeltaMs: round2(new.ExecutionTimeMs - old.ExecutionTimeMs),
		TimePct:     pctChange(old.ExecutionTimeMs, new.ExecutionTimeMs),

		OldScore:   old.PerformanceScore,
		NewScore:   new.PerformanceScore,
		ScoreDelta: new.PerformanceScore - old.PerformanceScore,

		OldRows:   old.RowsAffected,
		NewRows:   new.RowsAffected,
		RowsDelta: new.RowsAffected - old.RowsAffected,

		OldSuccess: old.Success,
		NewSuccess: new.Success,
	}

	// A success flip outweighs any timing movement.
	switch {
	case old.Success && !new.Success:
		d.TimeDir = Regressed
	case !old.Success && new.Success:
		d.TimeDir = Improved
	case !old.Success && !new.Success:
		d.TimeDir = Unchanged
	default:
		d.TimeDir = direction(old.ExecutionTimeMs, new.ExecutionTimeMs)
	}
	d.Significant = d.TimeDir != Unchanged

	return d
}

func summarize(old, new *report.Report, deltas []QueryDelta) Summary {
	s := Summary{
		QueriesCompared: len(deltas),
		OldOnly:         len(old.Queries) - len(deltas),
		NewOnly:         len(new.Queries) - len(deltas),

		OldTotalTimeMs: old.Summary.TotalExecutionTimeMs,
		NewTotalTimeMs: new.Summary.TotalExecutionTimeMs,
	}
	s.TimeDeltaMs = round2(s.NewTotalTimeMs - s.OldTotalTimeMs)
	s.TimePct = pctChange(s.OldTotalTimeMs, s.NewTotalTimeMs)
	s.TimeDir = direction(s.OldTotalTimeMs, s.NewTotalTimeMs)

	for _, d := range deltas {
		switch d.TimeDir {
		case Improved:
			s.Improved++
		case Regressed:
			s.Regressed++
		default:
			s.Unchanged++
		}
	}

	s.Verdict = verdict(s)
	return s
}

func verdict(s Summary) string {
	switch {
	case s.Improved > 0 && s.Regressed > 0:
		return fmt.Sprintf("mixed results: %d improved, %d regressed", s.Improved, s.Regressed)
	case s.TimeDir == Improved:
		return fmt.Sprintf("faster: total execution time down %.1f%%", math.Abs(s.TimePct))
	case s.TimeDir == Regressed:
		return fmt.Sprintf("slower: total execution time up %.1f%%", s.TimePct)
	default:
		return "no significant change"
	}
}

func direction(old, new float64) Direction {
	if math.Abs(pctChange(old, new)) < SignificanceThresholdPct {
		return Unchanged
	}
	if new < old {
		return Improved
	}
	return Regressed
}

func pctChange(old, new float64) float64 {
	if old == 0 {
		if new == 0 {
			return 0
		}
		return 100
	}
	return ((new - old) / old) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
