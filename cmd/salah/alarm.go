// ABOUTME: Alarm commands
// ABOUTME: Adds, lists, toggles and removes daily religious reminders

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/storage"
	"github.com/harper/salah/internal/ui"
	"github.com/spf13/cobra"
)

var alarmCmd = &cobra.Command{
	Use:   "alarm",
	Short: "Manage daily reminders",
	Long: `Manage daily reminders such as morning adhkar or Quran reading.

Alarms are referred to by ID or any unique ID prefix.

Examples:
  salah alarm add 05:30 --label "أذكار الصباح"
  salah alarm suggest
  salah alarm add --suggested 2
  salah alarm toggle 3f2a
  salah alarm remove 3f2a`,
}

var alarmAddCmd = &cobra.Command{
	Use:     "add [HH:MM]",
	Aliases: []string{"a"},
	Short:   "Add an alarm",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var clock string
		if len(args) == 1 {
			clock = args[0]
		}
		label, _ := cmd.Flags().GetString("label")

		if n, _ := cmd.Flags().GetInt("suggested"); n > 0 {
			if n > len(models.SuggestedAlarms) {
				return fmt.Errorf("suggestion must be between 1 and %d", len(models.SuggestedAlarms))
			}
			s := models.SuggestedAlarms[n-1]
			if clock == "" {
				clock = s.Time
			}
			if label == "" {
				label = s.Label
			}
		}

		a, err := models.NewAlarm(clock, label)
		if err != nil {
			return err
		}
		if err := repo.CreateAlarm(a); err != nil {
			return fmt.Errorf("failed to create alarm: %w", err)
		}

		color.Green("✓ Added alarm %s at %s", a.Label, a.Time)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(a.ID.String()[:8]))
		return nil
	},
}

var alarmListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List alarms",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		alarms, err := repo.ListAlarms()
		if err != nil {
			return fmt.Errorf("failed to list alarms: %w", err)
		}
		if len(alarms) == 0 {
			fmt.Println("No alarms yet. Use 'salah alarm add' or 'salah alarm suggest'.")
			return nil
		}
		for _, a := range alarms {
			fmt.Println(ui.FormatAlarm(a))
		}
		return nil
	},
}

var alarmToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Enable or disable an alarm",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := storage.FindAlarm(repo, args[0])
		if err != nil {
			return fmt.Errorf("alarm '%s': %w", args[0], err)
		}
		a.Enabled = !a.Enabled
		if err := repo.UpdateAlarm(a); err != nil {
			return fmt.Errorf("failed to update alarm: %w", err)
		}
		state := "disabled"
		if a.Enabled {
			state = "enabled"
		}
		color.Green("✓ %s %s", a.Label, state)
		return nil
	},
}

var alarmRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove an alarm",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := storage.FindAlarm(repo, args[0])
		if err != nil {
			return fmt.Errorf("alarm '%s': %w", args[0], err)
		}

		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			fmt.Printf("Remove alarm '%s' at %s? [y/N] ", a.Label, a.Time)
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := repo.DeleteAlarm(a.ID); err != nil {
			return fmt.Errorf("failed to remove alarm: %w", err)
		}
		color.Green("✓ Removed %s", a.Label)
		return nil
	},
}

var alarmSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "List suggested reminders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, s := range models.SuggestedAlarms {
			fmt.Printf("  %d. %s  %s\n", i+1, color.CyanString(s.Time), s.Label)
		}
		fmt.Println()
		fmt.Println("Add one with 'salah alarm add --suggested <n>'.")
		return nil
	},
}

func init() {
	alarmAddCmd.Flags().StringP("label", "l", "", "label for the alarm")
	alarmAddCmd.Flags().Int("suggested", 0, "use a suggested reminder by number (see 'alarm suggest')")
	alarmRemoveCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	alarmCmd.AddCommand(alarmAddCmd)
	alarmCmd.AddCommand(alarmListCmd)
	alarmCmd.AddCommand(alarmToggleCmd)
	alarmCmd.AddCommand(alarmRemoveCmd)
	alarmCmd.AddCommand(alarmSuggestCmd)

	rootCmd.AddCommand(alarmCmd)
}
