// ABOUTME: Prayer times commands
// ABOUTME: Shows a day's timings, a month calendar, and the next prayer

package main

import (
	"fmt"
	"time"

	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/ui"
	"github.com/spf13/cobra"
)

var timesCmd = &cobra.Command{
	Use:     "times",
	Aliases: []string{"t"},
	Short:   "Show prayer times",
	Long: `Show the five daily prayers and sunrise for your saved location.

Timings are fetched from the prayer time service and cached per day.

Examples:
  salah times
  salah times --date 2026-03-20
  salah times --month 2026-03`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := savedLocation()
		if err != nil {
			return err
		}

		if month, _ := cmd.Flags().GetString("month"); month != "" {
			return printCalendar(cmd, *loc, month)
		}

		now := time.Now()
		date := now
		dateStr, _ := cmd.Flags().GetString("date")
		if dateStr != "" {
			date, err = parseDay(dateStr)
			if err != nil {
				return err
			}
		}

		day, err := prayerTimes().Timings(cmd.Context(), *loc, date)
		if err != nil {
			return fmt.Errorf("failed to get prayer times: %w", err)
		}
		settings, err := repo.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		var next *models.NextPrayerInfo
		if sameDay(date, now) {
			if info, err := models.NextPrayer(day.Times, now); err == nil {
				next = &info
			}
		}

		fmt.Println(ui.FormatLocation(loc))
		fmt.Println(ui.FormatPrayerTable(day, next, settings))
		return nil
	},
}

var nextCmd = &cobra.Command{
	Use:     "next",
	Aliases: []string{"n"},
	Short:   "Show the next prayer and the time left",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := savedLocation()
		if err != nil {
			return err
		}
		now := time.Now()
		day, err := prayerTimes().Timings(cmd.Context(), *loc, now)
		if err != nil {
			return fmt.Errorf("failed to get prayer times: %w", err)
		}
		info, err := models.NextPrayer(day.Times, now)
		if err != nil {
			return err
		}
		fmt.Println(ui.FormatNextPrayer(info, now))
		return nil
	},
}

func init() {
	timesCmd.Flags().String("date", "", "day to show (YYYY-MM-DD, default today)")
	timesCmd.Flags().String("month", "", "show a whole month (YYYY-MM)")

	rootCmd.AddCommand(timesCmd)
	rootCmd.AddCommand(nextCmd)
}

func printCalendar(cmd *cobra.Command, loc models.Location, month string) error {
	m, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return fmt.Errorf("invalid month %q (use YYYY-MM): %w", month, err)
	}
	days, err := prayerTimes().Calendar(cmd.Context(), loc, m.Year(), m.Month())
	if err != nil {
		return fmt.Errorf("failed to get prayer calendar: %w", err)
	}

	fmt.Println(ui.FormatLocation(&loc))
	fmt.Printf("%-12s %-8s %-8s %-8s %-8s %-8s %s\n", "Date", "Fajr", "Dhuhr", "Asr", "Maghrib", "Isha", "Hijri")
	for _, d := range days {
		fmt.Printf("%-12s %-8s %-8s %-8s %-8s %-8s %s\n",
			d.Date.Gregorian, clock(d.Times.Fajr), clock(d.Times.Dhuhr), clock(d.Times.Asr),
			clock(d.Times.Maghrib), clock(d.Times.Isha), d.Date.Hijri.String())
	}
	return nil
}

// clock strips the " (TZ)" suffix the service appends to timings.
func clock(s string) string {
	h, m, err := models.ParseClock(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// parseDay reads YYYY-MM-DD as local noon, which keeps the day stable when
// the service converts the timestamp at the observer's location.
func parseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return d.Add(12 * time.Hour), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
