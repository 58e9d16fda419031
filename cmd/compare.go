/*
Copyright © 2026 COLE BRAMER
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/colebramer/sqlpulse/internal/compare"
	"github.com/colebramer/sqlpulse/internal/report"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <old.json> <new.json>",
	Short: "Compare two saved analysis reports",
	Long: `Compare two JSON reports produced by 'analyze --json-out' and show
per-query deltas in execution time, score, and row counts.

Queries are paired by position in the script, so both reports should come
from runs of the same SQL file. Changes under 10% are treated as noise.`,
	Example: `  # Capture a baseline, change an index, measure again
  sqlpulse analyze queries.sql --db "$DSN" --json-out before.json
  sqlpulse analyze queries.sql --db "$DSN" --json-out after.json
  sqlpulse compare before.json after.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		oldRep, err := report.Load(args[0])
		if err != nil {
			return err
		}
		newRep, err := report.Load(args[1])
		if err != nil {
			return err
		}

		c := compare.Compare(oldRep, newRep)

		if format == "json" {
			return report.RenderJSON(os.Stdout, c)
		}
		return compare.RenderText(os.Stdout, c)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
}
