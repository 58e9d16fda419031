package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/colebramer/sqlpulse/internal/runner"
	"github.com/colebramer/sqlpulse/internal/sqlfile"
)

var csvColumns = []string{
	"query_number",
	"line_number",
	"query_type",
	"execution_time_ms",
	"rows_affected",
	"success",
	"error_message",
	"performance_score",
	"is_slow",
	"warnings",
	"suggestions",
	"query_text",
}

// WriteCSV exports one row per query. Warnings and suggestions are
// joined with "; "; an unscored query leaves the score column empty.
func WriteCSV(w io.Writer, results []runner.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}

	for _, r := range results {
		score := ""
		if r.PerformanceScore > 0 {
			score = strconv.Itoa(r.PerformanceScore)
		}
		row := []string{
			strconv.Itoa(r.QueryNumber),
			strconv.Itoa(r.LineNumber),
			r.QueryType,
			strconv.FormatFloat(round2(r.ExecutionTimeMs), 'f', 2, 64),
			strconv.FormatInt(r.RowsAffected, 10),
			strconv.FormatBool(r.Success),
			r.ErrorMessage,
			score,
			strconv.FormatBool(r.IsSlow),
			strings.Join(r.Warnings, "; "),
			strings.Join(r.Suggestions, "; "),
			sqlfile.Truncate(r.QueryText, 200),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
