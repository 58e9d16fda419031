/*
Copyright © 2026 COLE BRAMER
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/colebramer/sqlpulse/internal/plan"
	"github.com/colebramer/sqlpulse/internal/report"
	"github.com/colebramer/sqlpulse/internal/sqlfile"
	"github.com/colebramer/sqlpulse/internal/suggest"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan [file]",
	Short: "Analyze saved EXPLAIN output offline",
	Long: `Analyze saved EXPLAIN output without connecting to a database.

Reads a plan from a file, from stdin when the file is "-", or from an
interactive paste when no file is given. JSON EXPLAIN documents (postgres,
sqlserver), MySQL TREE text, and SQLite EXPLAIN QUERY PLAN output are all
understood.

Pass the original statement with --query to enable the text-based
suggestion checks, and --time when you measured the execution yourself.`,
	Example: `  # Analyze a saved postgres plan
  sqlpulse plan explain.json

  # Pipe EXPLAIN output straight in
  psql -qAtc "EXPLAIN (FORMAT JSON) SELECT * FROM users" mydb | sqlpulse plan -

  # Include the query text and measured time
  sqlpulse plan explain.json --query "SELECT * FROM users" --time 812`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _ := cmd.Flags().GetString("engine")
		query, _ := cmd.Flags().GetString("query")
		timeMs, _ := cmd.Flags().GetFloat64("time")
		slowThreshold, _ := cmd.Flags().GetFloat64("slow-threshold")
		format, _ := cmd.Flags().GetString("format")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		var file string
		if len(args) > 0 {
			file = args[0]
		}

		planText, err := plan.ReadPlanText(file)
		if err != nil {
			return err
		}

		metrics := plan.Analyze(planText, timeMs, slowThreshold, engine)

		warnings, suggestions := []string{}, []string{}
		if query != "" {
			w, s := suggest.Generate(query, sqlfile.QueryType(query), &metrics, slowThreshold)
			warnings = append(warnings, w...)
			suggestions = append(suggestions, s...)
		}

		if format == "json" {
			return report.RenderJSON(os.Stdout, struct {
				Metrics     plan.Metrics `json:"metrics"`
				Warnings    []string     `json:"warnings"`
				Suggestions []string     `json:"suggestions"`
			}{metrics, warnings, suggestions})
		}
		return report.RenderMetricsText(os.Stdout, &metrics, warnings, suggestions)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringP("engine", "e", "postgres", "Plan dialect: postgres, mysql, sqlite, sqlserver")
	planCmd.Flags().StringP("query", "q", "", "Statement text the plan belongs to")
	planCmd.Flags().Float64("time", 0, "Measured execution time in ms")
	planCmd.Flags().Float64("slow-threshold", 500, "Slow query threshold in ms")
	planCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
}
