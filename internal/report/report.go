package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/colebramer/sqlpulse/internal/runner"
	"github.com/colebramer/sqlpulse/internal/sqlfile"
)

// Summary aggregates a whole run.
type Summary struct {
	TotalQueries         int         `json:"total_queries"`
	Successful           int         `json:"successful"`
	Failed               int         `json:"failed"`
	SlowQueries          int         `json:"slow_queries"`
	TotalExecutionTimeMs float64     `json:"total_execution_time_ms"`
	Top3Slowest          []SlowEntry `json:"top_3_slowest"`
}

// SlowEntry is one row of the top-slowest list.
type SlowEntry struct {
	QueryNumber     int     `json:"query_number"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	QueryText       string  `json:"query_text"`
}

// Report is the document analyze writes and compare reads.
type Report struct {
	Summary Summary         `json:"summary"`
	Queries []runner.Result `json:"queries"`
}

// Build assembles a report from execution results. Exported times are
// rounded to two decimals; the top-slowest list considers successful
// queries only, ties broken by execution order.
func Build(results []runner.Result) *Report {
	summary := Summary{TotalQueries: len(results), Top3Slowest: []SlowEntry{}}

	var total float64
	for _, r := range results {
		total += r.ExecutionTimeMs
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		if r.IsSlow {
			summary.SlowQueries++
		}
	}
	summary.TotalExecutionTimeMs = round2(total)

	for _, r := range topSlowest(results, 3) {
		summary.Top3Slowest = append(summary.Top3Slowest, SlowEntry{
			QueryNumber:     r.QueryNumber,
			ExecutionTimeMs: round2(r.ExecutionTimeMs),
			QueryText:       sqlfile.Truncate(r.QueryText, 200),
		})
	}

	queries := make([]runner.Result, len(results))
	copy(queries, results)
	for i := range queries {
		queries[i].ExecutionTimeMs = round2(queries[i].ExecutionTimeMs)
	}

	return &Report{Summary: summary, Queries: queries}
}

// Load reads a previously saved JSON report.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &rep, nil
}

func topSlowest(results []runner.Result, n int) []runner.Result {
	var ok []runner.Result
	for _, r := range results {
		if r.Success {
			ok = append(ok, r)
		}
	}
	sort.SliceStable(ok, func(i, j int) bool {
		return ok[i].ExecutionTimeMs > ok[j].ExecutionTimeMs
	})
	if len(ok) > n {
		ok = ok[:n]
	}
	return ok
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
