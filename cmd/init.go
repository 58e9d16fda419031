/*
Copyright © 2026 COLE BRAMER
*/
package cmd

import (
	"fmt"

	"github.com/colebramer/sqlpulse/internal/profile"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with example template",
	Long: `Create a profiles.yaml config file with an example template.

The config file lives in the sqlpulse directory under your user config
directory (~/.config/sqlpulse on Linux) and stores named database connection
profiles so you don't need to pass connection strings on every invocation.
If a config file already exists, it will not be overwritten.`,
	Example: `  # Create default config
  sqlpulse init

  # Overwrite existing config
  sqlpulse init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path, err := profile.WriteExample(force)
		if err != nil {
			return err
		}

		fmt.Printf("Example config written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing config file")
}
