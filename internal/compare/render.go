package compare

import (
	"fmt"
	"io"
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

func RenderText(w io.Writer, c *Comparison) error {
	tw := &textWriter{w: w}
	s := c.Summary

	tw.printf("%s%sComparison Summary%s\n\n", colorBold, colorCyan, colorReset)
	tw.printf("  Queries Compared: %d\n", s.QueriesCompared)
	if s.OldOnly > 0 {
		tw.printf("  Only in old run:  %d\n", s.OldOnly)
	}
	if s.NewOnly > 0 {
		tw.printf("  Only in new run:  %d\n", s.NewOnly)
	}
	tw.printf("  Total Time:       %s\n", formatDelta(s.OldTotalTimeMs, s.NewTotalTimeMs, s.TimePct, s.TimeDir, "%.2f ms"))
	tw.printf("  Improved: %d, Regressed: %d, Unchanged: %d\n\n", s.Improved, s.Regressed, s.Unchanged)

	significant := 0
	for _, d := range c.Deltas {
		if d.Significant {
			significant++
		}
	}

	if significant == 0 {
		tw.printf("%s%sNo significant query changes.%s\n", colorBold, colorGreen, colorReset)
		tw.renderVerdict(s)
		return tw.err
	}

	tw.printf("%s%sQuery Changes%s\n\n", colorBold, colorCyan, colorReset)

	for _, d := range c.Deltas {
		if !d.Significant {
			continue
		}
		tw.renderDelta(d)
	}

	tw.renderVerdict(s)

	return tw.err
}

func (tw *textWriter) renderDelta(d QueryDelta) {
	tw.printf("  %sQuery #%d%s  %s%s%s\n", colorBold, d.QueryNumber, colorReset, colorDim, d.QueryText, colorReset)

	switch {
	case d.OldSuccess && !d.NewSuccess:
		tw.printf("    %snow failing%s\n\n", colorRed, colorReset)
		return
	case !d.OldSuccess && d.NewSuccess:
		tw.printf("    %snow succeeding%s\n", colorGreen, colorReset)
	}

	tw.printf("    time: %s\n", formatDelta(d.OldTimeMs, d.NewTimeMs, d.TimePct, d.TimeDir, "%.2f ms"))
	if d.ScoreDelta != 0 {
		color, arrow := scoreIndicator(d.ScoreDelta)
		tw.printf("    score: %d → %s%d %s%s\n", d.OldScore, color, d.NewScore, arrow, colorReset)
	}
	if d.RowsDelta != 0 {
		tw.printf("    rows: %d → %d\n", d.OldRows, d.NewRows)
	}
	tw.printf("\n")
}

// Higher scores are better, so an upward move is the green one.
func scoreIndicator(delta int) (string, string) {
	if delta > 0 {
		return colorGreen, "↑"
	}
	return colorRed, "↓"
}

func formatDelta(oldVal, newVal, pct float64, dir Direction, fmtStr string) string {
	color := dirColor(dir)
	arrow := dirArrow(dir)
	oldStr := fmt.Sprintf(fmtStr, oldVal)
	newStr := fmt.Sprintf(fmtStr, newVal)
	return fmt.Sprintf("%s → %s%s %s (%+.1f%%)%s", oldStr, color, newStr, arrow, pct, colorReset)
}

func dirColor(d Direction) string {
	switch d {
	case Improved:
		return colorGreen
	case Regressed:
		return colorRed
	default:
		return ""
	}
}

func dirArrow(d Direction) string {
	switch d {
	case Improved:
		return "↓"
	case Regressed:
		return "↑"
	default:
		return ""
	}
}

func (tw *textWriter) renderVerdict(s Summary) {
	var color string
	switch {
	case s.Improved > 0 && s.Regressed > 0:
		color = colorYellow
	case s.TimeDir == Improved:
		color = colorGreen
	case s.TimeDir == Regressed:
		color = colorRed
	}
	if color != "" {
		tw.printf("\n%sVerdict: %s%s\n", color, s.Verdict, colorReset)
	} else {
		tw.printf("\nVerdict: %s\n", s.Verdict)
	}
}
