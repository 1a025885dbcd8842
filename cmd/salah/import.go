// ABOUTME: Import command for restoring data from YAML backup
// ABOUTME: Restores preferences and merges the backed-up alarms by ID

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harper/salah/internal/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data from a YAML backup",
	Long: `Import data from a YAML backup file created with 'salah backup'.

Location, settings and tasbeeh are replaced. Alarms are merged by ID: an alarm
already in the database is overwritten, any other alarm is kept.

Examples:
  salah import salah.yaml
  salah import ~/backups/salah-20260101.yaml --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename) //nolint:gosec // user-supplied path is the point
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if confirm, _ := cmd.Flags().GetBool("confirm"); !confirm &&
			!confirmPrompt(fmt.Sprintf("Import data from '%s'? [y/N] ", filename), "y", "yes") {
			fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}

		if err := storage.ImportBackup(repo, data); err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		out := cmd.OutOrStdout()
		color.Green("✓ Import complete")
		if loc, err := repo.GetLocation(); err == nil {
			fmt.Fprintf(out, "  location: %s\n", loc)
		}
		if alarms, err := repo.ListAlarms(); err == nil {
			fmt.Fprintf(out, "  %d alarms in database\n", len(alarms))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(importCmd)
}
