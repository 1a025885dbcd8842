// ABOUTME: Location commands
// ABOUTME: Saves, shows and clears the observer location used for qibla and prayer times

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/qibla"
	"github.com/harper/salah/internal/storage"
	"github.com/harper/salah/internal/ui"
	"github.com/spf13/cobra"
)

var locationCmd = &cobra.Command{
	Use:     "location",
	Aliases: []string{"loc"},
	Short:   "Manage your saved location",
	Long: `Manage the location used for the qibla bearing and prayer times.

Examples:
  salah location set 21.4225 39.8262 --city Makkah --country "Saudi Arabia"
  salah location show
  salah location clear`,
}

var locationSetCmd = &cobra.Command{
	Use:   "set <latitude> <longitude>",
	Short: "Save your location",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude: %w", err)
		}
		lng, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude: %w", err)
		}

		loc, err := models.NewLocation(lat, lng)
		if err != nil {
			return err
		}
		city, _ := cmd.Flags().GetString("city")
		country, _ := cmd.Flags().GetString("country")
		loc.City = strings.TrimSpace(city)
		loc.Country = strings.TrimSpace(country)

		if err := repo.SetLocation(loc); err != nil {
			return fmt.Errorf("failed to save location: %w", err)
		}

		color.Green("✓ Location set to %s", loc.String())
		if b, err := qibla.QiblaBearing(loc.Coordinate()); err == nil {
			fmt.Printf("  Qibla: %.1f° %s\n", b.Degrees(), b.Cardinal())
		}
		return nil
	},
}

var locationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your saved location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := repo.GetLocation()
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println(ui.FormatLocation(nil))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load location: %w", err)
		}
		fmt.Println(ui.FormatLocation(loc))
		return nil
	},
}

var locationClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget your saved location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.ClearLocation(); err != nil {
			return fmt.Errorf("failed to clear location: %w", err)
		}
		color.Green("✓ Location cleared")
		return nil
	},
}

func init() {
	locationSetCmd.Flags().String("city", "", "city name for display")
	locationSetCmd.Flags().String("country", "", "country name for display")

	locationCmd.AddCommand(locationSetCmd)
	locationCmd.AddCommand(locationShowCmd)
	locationCmd.AddCommand(locationClearCmd)

	rootCmd.AddCommand(locationCmd)
}
