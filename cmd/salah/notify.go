// ABOUTME: Notification and language settings commands
// ABOUTME: Toggles per-prayer reminders and the display language

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/salah/internal/models"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Manage prayer reminders",
	Long: `Turn reminders on or off for each of the five daily prayers.

Examples:
  salah notify list
  salah notify off fajr
  salah notify on Isha`,
}

var notifyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show reminder settings",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := repo.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		for _, name := range models.NotifiablePrayers {
			state := color.GreenString("on")
			if !settings.NotificationEnabled(name) {
				state = color.New(color.Faint).Sprint("off")
			}
			fmt.Printf("  %-8s %-8s %s\n", name, models.PrayerNames[name], state)
		}
		return nil
	},
}

var notifyOnCmd = &cobra.Command{
	Use:   "on <prayer>",
	Short: "Enable the reminder for a prayer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setNotification(args[0], true)
	},
}

var notifyOffCmd = &cobra.Command{
	Use:   "off <prayer>",
	Short: "Disable the reminder for a prayer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setNotification(args[0], false)
	},
}

var languageCmd = &cobra.Command{
	Use:     "language [ar|en]",
	Aliases: []string{"lang"},
	Short:   "Show or set the display language",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := repo.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if len(args) == 0 {
			fmt.Println(settings.Language)
			return nil
		}
		lang, err := models.ParseLanguage(args[0])
		if err != nil {
			return err
		}
		settings.Language = lang
		if err := repo.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		color.Green("✓ Language set to %s", lang)
		return nil
	},
}

func init() {
	notifyCmd.AddCommand(notifyListCmd)
	notifyCmd.AddCommand(notifyOnCmd)
	notifyCmd.AddCommand(notifyOffCmd)

	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(languageCmd)
}

func setNotification(prayer string, on bool) error {
	settings, err := repo.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := settings.SetNotification(prayer, on); err != nil {
		return err
	}
	if err := repo.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	name, _ := models.CanonicalPrayer(prayer)
	if on {
		color.Green("✓ %s reminders on", name)
	} else {
		color.Green("✓ %s reminders off", name)
	}
	return nil
}
