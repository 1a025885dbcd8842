// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Renders bearings, prayer tables, alarms and the tasbeeh counter

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/qibla"
)

func faint(s string) string {
	return color.New(color.Faint).Sprint(s)
}

// FormatLocation formats a saved location for terminal display.
func FormatLocation(loc *models.Location) string {
	if loc == nil {
		return faint("(no location set)")
	}
	coords := fmt.Sprintf("(%.4f, %.4f)", loc.Latitude, loc.Longitude)
	if loc.City == "" && loc.Country == "" {
		return color.CyanString(coords)
	}
	place := strings.Trim(loc.City+", "+loc.Country, ", ")
	return fmt.Sprintf("%s %s", color.CyanString(place), faint(coords))
}

// FormatBearing formats the qibla bearing with its compass point and distance.
func FormatBearing(b qibla.Bearing, distanceKm float64) string {
	return fmt.Sprintf("%s %s %s",
		color.GreenString("%.1f°", b.Degrees()),
		color.CyanString(b.Cardinal()),
		faint(fmt.Sprintf("(%s km to the Kaaba)", formatThousands(distanceKm))))
}

func formatThousands(km float64) string {
	s := fmt.Sprintf("%.0f", km)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// FormatPrayerTable lists the day's timings, highlighting the next prayer and
// marking prayers whose notification is off.
func FormatPrayerTable(day *models.DayTimings, next *models.NextPrayerInfo, settings *models.Settings) string {
	if day == nil {
		return faint("(no prayer times)")
	}

	var b strings.Builder
	header := day.Date.Gregorian
	if day.Date.Weekday != "" {
		header = day.Date.Weekday + " " + header
	}
	b.WriteString(color.New(color.Bold).Sprint(header))
	if day.Date.Hijri.Day != "" {
		b.WriteString("  " + faint(day.Date.Hijri.String()))
	}
	b.WriteString("\n")

	for _, name := range models.PrayerOrder {
		raw, _ := day.Times.Get(name)
		clock := raw
		if h, m, err := models.ParseClock(raw); err == nil {
			clock = fmt.Sprintf("%02d:%02d", h, m)
		}

		line := fmt.Sprintf("  %-8s %-7s %s", name, models.PrayerNames[name], clock)
		switch {
		case next != nil && !next.NextDay && next.Name == name:
			line = color.GreenString("%s  ◀ next", line)
		case !models.IsNotifiable(name):
			line = faint(line)
		}
		if settings != nil && models.IsNotifiable(name) && !settings.NotificationEnabled(name) {
			line += faint("  (muted)")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatNextPrayer formats the upcoming prayer and the time left until it.
func FormatNextPrayer(info models.NextPrayerInfo, now time.Time) string {
	when := info.Time
	if info.NextDay {
		when += " tomorrow"
	}
	return fmt.Sprintf("%s %s at %s %s",
		color.GreenString(info.Name),
		info.ArabicName,
		color.CyanString(when),
		faint("(in "+FormatDuration(info.Remaining(now))+")"))
}

// FormatDuration renders a countdown as "2h 05m" or "12m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

// FormatAlarm formats an alarm as one list line.
func FormatAlarm(a *models.Alarm) string {
	if a == nil {
		return faint("(invalid alarm)")
	}
	id := faint(a.ID.String()[:8])
	if !a.Enabled {
		return fmt.Sprintf("%s %s %s %s", id, faint(a.Time), faint(a.Label), faint("(off)"))
	}
	return fmt.Sprintf("%s %s %s %s", id, color.CyanString(a.Time), a.Label,
		faint("added "+FormatRelativeTime(a.CreatedAt)))
}

// FormatTasbeeh shows the phrase, the count against its target and a bar.
func FormatTasbeeh(t *models.Tasbeeh) string {
	if t == nil {
		return faint("(no counter)")
	}
	if t.Target <= 0 {
		return fmt.Sprintf("%s  %s", color.CyanString(t.Phrase()), color.GreenString("%d", t.Count))
	}

	const width = 20
	filled := int(t.Progress() * width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	count := fmt.Sprintf("%d/%d", t.Count, t.Target)
	if t.Count >= t.Target {
		count = color.GreenString(count + " ✓")
	}
	return fmt.Sprintf("%s  %s %s", color.CyanString(t.Phrase()), bar, count)
}

// FormatFastingDay formats a recommended fasting day.
func FormatFastingDay(d models.FastingDay) string {
	return fmt.Sprintf("%s %s", color.GreenString(d.Name), faint(d.Description))
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	// Clock skew or bad data.
	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		return plural(int(diff.Minutes()), "minute")
	}
	if diff < 24*time.Hour {
		return plural(int(diff.Hours()), "hour")
	}
	return plural(int(diff.Hours()/24), "day")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
