// ABOUTME: Unit tests for terminal UI formatting
// ABOUTME: Tests human-readable output for locations, prayers, alarms and tasbeeh

package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/qibla"
)

func TestFormatLocation(t *testing.T) {
	loc := &models.Location{Latitude: 51.5074, Longitude: -0.1278, City: "London", Country: "UK"}
	output := FormatLocation(loc)
	if !strings.Contains(output, "London, UK") {
		t.Errorf("expected place name, got %q", output)
	}
	if !strings.Contains(output, "51.5074") {
		t.Errorf("expected latitude, got %q", output)
	}
}

func TestFormatLocation_CoordinatesOnly(t *testing.T) {
	output := FormatLocation(&models.Location{Latitude: 24.7136, Longitude: 46.6753})
	if !strings.Contains(output, "(24.7136, 46.6753)") {
		t.Errorf("expected coordinates, got %q", output)
	}
}

func TestFormatLocation_CityOnly(t *testing.T) {
	output := FormatLocation(&models.Location{City: "Riyadh"})
	if strings.Contains(output, "Riyadh,") {
		t.Errorf("expected no dangling comma, got %q", output)
	}
}

func TestFormatLocation_Nil(t *testing.T) {
	if output := FormatLocation(nil); !strings.Contains(output, "no location") {
		t.Errorf("expected nil location message, got %q", output)
	}
}

func TestFormatBearing(t *testing.T) {
	output := FormatBearing(qibla.Bearing(118.987), 4791.3)
	for _, want := range []string{"119.0°", "ESE", "4,791 km"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %q", want, output)
		}
	}
}

func TestFormatThousands(t *testing.T) {
	tests := map[float64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		12345.6:  "12,346",
		20015.08: "20,015",
	}
	for in, want := range tests {
		if got := formatThousands(in); got != want {
			t.Errorf("formatThousands(%v) = %q, want %q", in, got, want)
		}
	}
}

func testDay() *models.DayTimings {
	return &models.DayTimings{
		Times: models.PrayerTimes{
			Fajr: "04:12", Sunrise: "05:40", Dhuhr: "11:51",
			Asr: "15:12", Maghrib: "18:02", Isha: "19:32 (+03)",
		},
		Date: models.DateInfo{
			Gregorian: "10-05-2026",
			Weekday:   "Sunday",
			Hijri: models.HijriDate{
				Day: "23", Month: models.HijriMonth{Number: 11, Ar: "ذوالقعدة"}, Year: "1447",
			},
		},
	}
}

func TestFormatPrayerTable(t *testing.T) {
	next := &models.NextPrayerInfo{Name: models.Asr, Time: "15:12"}
	settings := models.DefaultSettings()
	if err := settings.SetNotification(models.Isha, false); err != nil {
		t.Fatalf("SetNotification: %v", err)
	}

	output := FormatPrayerTable(testDay(), next, settings)
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 1+len(models.PrayerOrder) {
		t.Fatalf("expected %d lines, got %d: %q", 1+len(models.PrayerOrder), len(lines), output)
	}
	if !strings.Contains(lines[0], "Sunday 10-05-2026") || !strings.Contains(lines[0], "1447") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[4], "Asr") || !strings.Contains(lines[4], "next") {
		t.Errorf("expected Asr marked next, got %q", lines[4])
	}
	if !strings.Contains(lines[6], "19:32") || strings.Contains(lines[6], "+03") {
		t.Errorf("expected Isha clock without zone suffix, got %q", lines[6])
	}
	if !strings.Contains(lines[6], "muted") {
		t.Errorf("expected Isha muted, got %q", lines[6])
	}
	if strings.Contains(lines[2], "muted") {
		t.Errorf("sunrise is never muted, got %q", lines[2])
	}
}

func TestFormatPrayerTable_NextDayNotHighlighted(t *testing.T) {
	next := &models.NextPrayerInfo{Name: models.Fajr, NextDay: true}
	if output := FormatPrayerTable(testDay(), next, nil); strings.Contains(output, "next") {
		t.Errorf("tomorrow's Fajr should not be marked in today's table: %q", output)
	}
}

func TestFormatPrayerTable_Nil(t *testing.T) {
	if output := FormatPrayerTable(nil, nil, nil); !strings.Contains(output, "no prayer times") {
		t.Errorf("unexpected output %q", output)
	}
}

func TestFormatNextPrayer(t *testing.T) {
	now := time.Date(2026, 5, 10, 13, 0, 0, 0, time.UTC)
	info := models.NextPrayerInfo{
		Name: models.Asr, ArabicName: "العصر", Time: "15:12",
		At: time.Date(2026, 5, 10, 15, 12, 0, 0, time.UTC),
	}
	output := FormatNextPrayer(info, now)
	for _, want := range []string{"Asr", "العصر", "15:12", "2h 12m"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %q", want, output)
		}
	}

	info.NextDay = true
	if output := FormatNextPrayer(info, now); !strings.Contains(output, "tomorrow") {
		t.Errorf("expected tomorrow marker, got %q", output)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0m"},
		{-time.Hour, "0m"},
		{12 * time.Minute, "12m"},
		{65 * time.Minute, "1h 05m"},
		{10*time.Hour + 29*time.Second, "10h 00m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAlarm(t *testing.T) {
	alarm, err := models.NewAlarm("5:30", "أذكار الصباح")
	if err != nil {
		t.Fatalf("NewAlarm: %v", err)
	}

	output := FormatAlarm(alarm)
	if !strings.Contains(output, "05:30") || !strings.Contains(output, "أذكار الصباح") {
		t.Errorf("unexpected output %q", output)
	}
	if !strings.Contains(output, alarm.ID.String()[:8]) {
		t.Errorf("expected short id in %q", output)
	}

	alarm.Enabled = false
	if output := FormatAlarm(alarm); !strings.Contains(output, "(off)") {
		t.Errorf("expected disabled marker, got %q", output)
	}

	if output := FormatAlarm(nil); !strings.Contains(output, "invalid alarm") {
		t.Errorf("unexpected nil output %q", output)
	}
}

func TestFormatTasbeeh(t *testing.T) {
	tb := models.NewTasbeeh()
	tb.Count = 11
	output := FormatTasbeeh(tb)
	if !strings.Contains(output, "11/33") || !strings.Contains(output, "سبحان الله") {
		t.Errorf("unexpected output %q", output)
	}

	tb.Count = 33
	if output := FormatTasbeeh(tb); !strings.Contains(output, "✓") {
		t.Errorf("expected completion mark, got %q", output)
	}

	open := &models.Tasbeeh{Target: 0, Count: 250}
	output = FormatTasbeeh(open)
	if !strings.Contains(output, "250") || strings.Contains(output, "/") {
		t.Errorf("unexpected open-ended output %q", output)
	}
}

func TestFormatFastingDay(t *testing.T) {
	output := FormatFastingDay(models.FastArafah)
	if !strings.Contains(output, models.FastArafah.Name) {
		t.Errorf("unexpected output %q", output)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{1 * time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{1 * time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		if got := FormatRelativeTime(time.Now().Add(-tt.ago)); got != tt.want {
			t.Errorf("FormatRelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestFormatRelativeTime_Future(t *testing.T) {
	if got := FormatRelativeTime(time.Now().Add(time.Hour)); !strings.Contains(got, "in the future") {
		t.Errorf("unexpected output %q", got)
	}
}
