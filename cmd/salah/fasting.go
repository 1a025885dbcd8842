// ABOUTME: Recommended fasting days command
// ABOUTME: Matches today or a whole month against the voluntary fasting calendar

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/prayer"
	"github.com/harper/salah/internal/ui"
	"github.com/spf13/cobra"
)

var fastingCmd = &cobra.Command{
	Use:   "fasting",
	Short: "Show recommended voluntary fasts",
	Long: `Show whether today is a recommended fasting day, or list every such day in a month.

Hijri dates come from the prayer time service for your saved location.

Examples:
  salah fasting
  salah fasting --month 2026-06
  salah fasting --all`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			for _, d := range models.FastingDays {
				fmt.Println(ui.FormatFastingDay(d))
			}
			return nil
		}

		loc, err := savedLocation()
		if err != nil {
			return err
		}

		if month, _ := cmd.Flags().GetString("month"); month != "" {
			m, err := time.ParseInLocation("2006-01", month, time.Local)
			if err != nil {
				return fmt.Errorf("invalid month %q (use YYYY-MM): %w", month, err)
			}
			days, err := prayerTimes().Calendar(cmd.Context(), *loc, m.Year(), m.Month())
			if err != nil {
				return fmt.Errorf("failed to get calendar: %w", err)
			}
			found := 0
			for i := range days {
				fasts, err := fastsFor(&days[i])
				if err != nil {
					return err
				}
				for _, f := range fasts {
					fmt.Printf("%s  %s  %s\n", days[i].Date.Gregorian, days[i].Date.Hijri.String(), ui.FormatFastingDay(f))
					found++
				}
			}
			if found == 0 {
				fmt.Println("No recommended fasts this month.")
			}
			return nil
		}

		day, err := prayerTimes().Timings(cmd.Context(), *loc, time.Now())
		if err != nil {
			return fmt.Errorf("failed to get today's date: %w", err)
		}
		fasts, err := fastsFor(day)
		if err != nil {
			return err
		}
		fmt.Println(day.Date.Hijri.String())
		if len(fasts) == 0 {
			fmt.Println("No recommended fast today.")
			return nil
		}
		for _, f := range fasts {
			fmt.Println(ui.FormatFastingDay(f))
		}
		return nil
	},
}

func init() {
	fastingCmd.Flags().String("month", "", "list recommended fasts in a month (YYYY-MM)")
	fastingCmd.Flags().Bool("all", false, "list every kind of recommended fast")

	rootCmd.AddCommand(fastingCmd)
}

// fastsFor reads the weekday and Hijri date of a fetched day.
func fastsFor(day *models.DayTimings) ([]models.FastingDay, error) {
	g, err := prayer.ParseGregorian(day.Date.Gregorian)
	if err != nil {
		return nil, fmt.Errorf("bad gregorian date %q: %w", day.Date.Gregorian, err)
	}
	hd, err := strconv.Atoi(day.Date.Hijri.Day)
	if err != nil {
		return nil, fmt.Errorf("bad hijri day %q: %w", day.Date.Hijri.Day, err)
	}
	return models.RecommendedFasts(g.Weekday(), hd, day.Date.Hijri.Month.Number), nil
}
