package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/colebramer/sqlpulse/internal/joins"
	"github.com/colebramer/sqlpulse/internal/plan"
	"github.com/colebramer/sqlpulse/internal/runner"
	"github.com/colebramer/sqlpulse/internal/sqlfile"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

// RenderText writes every query block followed by the run summary.
func RenderText(w io.Writer, rep *Report) error {
	tw := &textWriter{w: w}

	for i := range rep.Queries {
		tw.renderResult(&rep.Queries[i])
	}
	tw.renderSummary(rep)

	return tw.err
}

func (tw *textWriter) renderResult(r *runner.Result) {
	label, color := statusFormat(r)
	lineInfo := ""
	if r.LineNumber > 0 {
		lineInfo = fmt.Sprintf(" (line %d)", r.LineNumber)
	}
	tw.printf("%sQuery #%d%s%s  %s%s%s\n", colorBold, r.QueryNumber, colorReset, lineInfo, color, label, colorReset)
	tw.printf("  %s%s%s\n", colorDim, sqlfile.Truncate(r.QueryText, 120), colorReset)

	if r.Success {
		tw.printf("  Execution Time: %s%.2f ms%s\n", colorCyan, r.ExecutionTimeMs, colorReset)
		tw.printf("  Rows Affected:  %s%d%s\n", colorCyan, r.RowsAffected, colorReset)
		tw.printf("  Query Type:     %s%s%s\n", colorCyan, r.QueryType, colorReset)
		if r.PerformanceScore > 0 {
			tw.printf("  Perf Score:     %s%d/10%s\n", scoreColor(r.PerformanceScore), r.PerformanceScore, colorReset)
		}
		if r.ExplainOutput != "" {
			tw.printf("  Execution Plan:\n")
			for _, planLine := range strings.Split(r.ExplainOutput, "\n") {
				tw.printf("    %s%s%s\n", colorDim, planLine, colorReset)
			}
		}
	} else {
		tw.printf("  %sError: %s%s\n", colorRed, r.ErrorMessage, colorReset)
	}

	if len(r.Warnings) > 0 {
		tw.printf("  %s%sPerformance Warnings:%s\n", colorBold, colorYellow, colorReset)
		for _, warning := range r.Warnings {
			tw.printf("    %s• %s%s\n", colorYellow, warning, colorReset)
		}
	}
	if len(r.Suggestions) > 0 {
		tw.printf("  %s%sSuggestions:%s\n", colorBold, colorCyan, colorReset)
		for _, s := range r.Suggestions {
			if strings.HasPrefix(s, "[AI]") {
				tw.printf("    %s%s%s\n", colorGreen, s, colorReset)
			} else {
				tw.printf("    → %s\n", s)
			}
		}
	}
	if r.JoinDiagnostic != nil {
		tw.renderJoinDiagnostic(r.JoinDiagnostic)
	}
	tw.printf("\n")
}

func statusFormat(r *runner.Result) (string, string) {
	switch {
	case !r.Success:
		return "✗ FAILED", colorRed
	case r.IsSlow:
		return "⚠ SLOW", colorYellow
	case r.PerformanceScore > 0 && r.PerformanceScore <= 4:
		return "⚠ NEEDS OPTIMIZATION", colorYellow
	default:
		return "✓ OK", colorGreen
	}
}

func scoreColor(score int) string {
	switch {
	case score >= 8:
		return colorGreen
	case score >= 5:
		return colorYellow
	default:
		return colorRed
	}
}

func (tw *textWriter) renderJoinDiagnostic(d *joins.Diagnostic) {
	tw.printf("  %s%sJOIN Diagnostic:%s\n", colorBold, colorYellow, colorReset)

	tw.printf("    Table counts:\n")
	for _, tc := range d.TableCounts {
		if tc.Error != "" {
			tw.printf("      %-20s %serror: %s%s\n", tc.Table, colorRed, tc.Error, colorReset)
			continue
		}
		color := ""
		if tc.Rows == 0 {
			color = colorRed
		}
		tw.printf("      %-20s %s%d rows%s\n", tc.Table, color, tc.Rows, colorReset)
	}

	if len(d.JoinSteps) > 0 {
		tw.printf("    Join steps:\n")
		for _, step := range d.JoinSteps {
			label := strings.Join(step.Tables, " + ")
			if step.Error != "" {
				tw.printf("      step %d (%s): %serror: %s%s\n", step.Step, label, colorRed, step.Error, colorReset)
				continue
			}
			color := ""
			if step.Rows == 0 {
				color = colorRed
			}
			tw.printf("      step %d (%s): %s%d rows%s\n", step.Step, label, color, step.Rows, colorReset)
		}
	}

	if d.CulpritTable != "" {
		tw.printf("    %sCulprit: %s%s\n", colorRed, d.CulpritTable, colorReset)
	}
	if d.CulpritReason != "" {
		tw.printf("    %s\n", d.CulpritReason)
	}
}

func (tw *textWriter) renderSummary(rep *Report) {
	s := rep.Summary

	tw.printf("%s%sExecution Summary%s\n\n", colorBold, colorCyan, colorReset)
	tw.printf("  Total Queries:        %d\n", s.TotalQueries)
	tw.printf("  Successful:           %s%d%s\n", colorGreen, s.Successful, colorReset)
	if s.Failed > 0 {
		tw.printf("  Failed:               %s%d%s\n", colorRed, s.Failed, colorReset)
	} else {
		tw.printf("  Failed:               0\n")
	}
	tw.printf("  Slow Queries:         %d\n", s.SlowQueries)
	tw.printf("  Total Execution Time: %.2f ms\n", s.TotalExecutionTimeMs)

	if len(s.Top3Slowest) > 0 {
		tw.printf("\n%s%sTop 3 Slowest Queries:%s\n", colorBold, colorYellow, colorReset)
		for _, e := range s.Top3Slowest {
			r := findQuery(rep, e.QueryNumber)
			lineInfo := ""
			score := "N/A"
			if r != nil {
				if r.LineNumber > 0 {
					lineInfo = fmt.Sprintf(" (line %d)", r.LineNumber)
				}
				if r.PerformanceScore > 0 {
					score = fmt.Sprintf("%d/10", r.PerformanceScore)
				}
			}
			tw.printf("  #%d%s: %.2f ms (Score: %s) - %s\n",
				e.QueryNumber, lineInfo, e.ExecutionTimeMs, score, sqlfile.Truncate(e.QueryText, 60))
		}
	}

	suggestions := dedupSuggestions(rep.Queries)
	if len(suggestions) > 0 {
		tw.printf("\n%s%sOptimization Summary:%s\n", colorBold, colorCyan, colorReset)
		for i, s := range suggestions {
			if strings.HasPrefix(s, "[AI]") {
				tw.printf("  %s%d. %s%s\n", colorGreen, i+1, s, colorReset)
			} else {
				tw.printf("  %d. %s\n", i+1, s)
			}
		}
	}
}

func findQuery(rep *Report, number int) *runner.Result {
	for i := range rep.Queries {
		if rep.Queries[i].QueryNumber == number {
			return &rep.Queries[i]
		}
	}
	return nil
}

// dedupSuggestions collects suggestions across all queries in first-seen
// order, capped at ten.
func dedupSuggestions(results []runner.Result) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range results {
		for _, s := range r.Suggestions {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// RenderMetricsText writes the offline single-plan view used by the
// plan command.
func RenderMetricsText(w io.Writer, m *plan.Metrics, warnings, suggestions []string) error {
	tw := &textWriter{w: w}

	tw.printf("%s%sPlan Summary%s\n\n", colorBold, colorCyan, colorReset)
	tw.printf("  Performance Score: %s%d/10%s\n", scoreColor(m.PerformanceScore), m.PerformanceScore, colorReset)
	if m.TotalCost > 0 {
		tw.printf("  Total Cost:        %.2f\n", m.TotalCost)
	}
	if m.ExecutionTimeMs > 0 {
		tw.printf("  Execution Time:    %.2f ms\n", m.ExecutionTimeMs)
	}
	if m.PlanningTimeMs > 0 {
		tw.printf("  Planning Time:     %.3f ms\n", m.PlanningTimeMs)
	}
	if m.ActualTimeMs > 0 {
		tw.printf("  Plan Actual Time:  %.3f ms\n", m.ActualTimeMs)
	}
	if m.EstimatedRows > 0 || m.ActualRows > 0 {
		tw.printf("  Rows:              estimated %d, actual %d\n", m.EstimatedRows, m.ActualRows)
	}
	if m.SharedHitBlocks > 0 || m.SharedReadBlocks > 0 {
		tw.printf("  Buffers:           hit %d, read %d\n", m.SharedHitBlocks, m.SharedReadBlocks)
	}
	if len(m.TablesScanned) > 0 {
		tw.printf("  Tables:            %s\n", strings.Join(m.TablesScanned, ", "))
	}
	if len(m.ScanTypes) > 0 {
		tw.printf("  Scans:             %s\n", strings.Join(m.ScanTypes, ", "))
	}
	if len(m.JoinTypes) > 0 {
		tw.printf("  Joins:             %s\n", strings.Join(m.JoinTypes, ", "))
	}
	if flags := flagLabels(m); len(flags) > 0 {
		tw.printf("  Flags:             %s%s%s\n", colorYellow, strings.Join(flags, ", "), colorReset)
	}

	if len(warnings) > 0 {
		tw.printf("\n%s%sPerformance Warnings:%s\n", colorBold, colorYellow, colorReset)
		for _, warning := range warnings {
			tw.printf("  %s• %s%s\n", colorYellow, warning, colorReset)
		}
	}
	if len(suggestions) > 0 {
		tw.printf("\n%s%sSuggestions:%s\n", colorBold, colorCyan, colorReset)
		for _, s := range suggestions {
			tw.printf("  → %s\n", s)
		}
	}
	if len(warnings) == 0 && len(suggestions) == 0 {
		tw.printf("\n%s%sNo issues found.%s\n", colorBold, colorGreen, colorReset)
	}

	return tw.err
}

// RenderBatchText prints the outcome of a whole-script run.
func RenderBatchText(w io.Writer, b runner.BatchResult) error {
	tw := &textWriter{w: w}

	tw.printf("%s%sScript Execution%s\n\n", colorBold, colorCyan, colorReset)
	if b.Success {
		tw.printf("  Status:          %s✓ OK%s\n", colorGreen, colorReset)
	} else {
		tw.printf("  Status:          %s✗ FAILED%s\n", colorRed, colorReset)
		tw.printf("  Error:           %s%s%s\n", colorRed, b.ErrorMessage, colorReset)
	}
	tw.printf("  Statements:      %d\n", b.TotalStatements)
	tw.printf("  Execution Time:  %s%.2f ms%s\n", colorCyan, b.ExecutionTimeMs, colorReset)
	tw.printf("  Rows Affected:   %d\n", b.RowsAffected)

	return tw.err
}

func flagLabels(m *plan.Metrics) []string {
	var flags []string
	if m.HasSequentialScan {
		flags = append(flags, "sequential scan")
	}
	if m.HasFullTableScan {
		flags = append(flags, "full table scan")
	}
	if m.MissingIndexLikely {
		flags = append(flags, "missing index likely")
	}
	if m.HasNestedLoop {
		flags = append(flags, "nested loop")
	}
	if m.HasHashJoin {
		flags = append(flags, "hash join")
	}
	if m.HasLargeSort {
		flags = append(flags, "large sort")
	}
	if m.HasBitmapHeapScan {
		flags = append(flags, "bitmap heap scan")
	}
	if m.HasTempDiskUsage {
		flags = append(flags, "temp disk usage")
	}
	return flags
}
