// ABOUTME: Prayer time models and next-prayer selection
// ABOUTME: Timings are local HH:MM strings as returned by the timing service

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prayer keys in the order they occur during the day.
const (
	Fajr    = "Fajr"
	Sunrise = "Sunrise"
	Dhuhr   = "Dhuhr"
	Asr     = "Asr"
	Maghrib = "Maghrib"
	Isha    = "Isha"
)

// PrayerOrder lists every timing shown to the user.
var PrayerOrder = []string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// NotifiablePrayers are the five obligatory prayers; Sunrise is informational.
var NotifiablePrayers = []string{Fajr, Dhuhr, Asr, Maghrib, Isha}

// PrayerNames maps prayer keys to their Arabic names.
var PrayerNames = map[string]string{
	Fajr:    "الفجر",
	Sunrise: "الشروق",
	Dhuhr:   "الظهر",
	Asr:     "العصر",
	Maghrib: "المغرب",
	Isha:    "العشاء",
}

// DefaultNotifications turns every notifiable prayer on.
func DefaultNotifications() map[string]bool {
	m := make(map[string]bool, len(NotifiablePrayers))
	for _, p := range NotifiablePrayers {
		m[p] = true
	}
	return m
}

// IsNotifiable reports whether name is one of the five daily prayers.
func IsNotifiable(name string) bool {
	for _, p := range NotifiablePrayers {
		if p == name {
			return true
		}
	}
	return false
}

// CanonicalPrayer maps user input ("fajr", "ISHA", "الفجر") to a prayer key.
func CanonicalPrayer(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, p := range PrayerOrder {
		if strings.EqualFold(p, s) || PrayerNames[p] == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown prayer %q", s)
}

// PrayerTimes are the day's timings as HH:MM strings.
type PrayerTimes struct {
	Fajr    string `json:"Fajr" yaml:"fajr"`
	Sunrise string `json:"Sunrise" yaml:"sunrise"`
	Dhuhr   string `json:"Dhuhr" yaml:"dhuhr"`
	Asr     string `json:"Asr" yaml:"asr"`
	Maghrib string `json:"Maghrib" yaml:"maghrib"`
	Isha    string `json:"Isha" yaml:"isha"`
}

// Get returns the timing for a prayer key.
func (p PrayerTimes) Get(name string) (string, bool) {
	switch name {
	case Fajr:
		return p.Fajr, true
	case Sunrise:
		return p.Sunrise, true
	case Dhuhr:
		return p.Dhuhr, true
	case Asr:
		return p.Asr, true
	case Maghrib:
		return p.Maghrib, true
	case Isha:
		return p.Isha, true
	}
	return "", false
}

// HijriMonth names a month of the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	Ar     string `json:"ar"`
	En     string `json:"en"`
}

// HijriDate is the Hijri side of a day.
type HijriDate struct {
	Day         string     `json:"day"`
	Month       HijriMonth `json:"month"`
	Year        string     `json:"year"`
	Designation string     `json:"designation"`
}

// String renders e.g. "14 رمضان 1447 هـ".
func (h HijriDate) String() string {
	return fmt.Sprintf("%s %s %s هـ", h.Day, h.Month.Ar, h.Year)
}

// DateInfo pairs the Gregorian date with its Hijri equivalent.
type DateInfo struct {
	Gregorian string    `json:"gregorian"`
	Weekday   string    `json:"weekday,omitempty"`
	Hijri     HijriDate `json:"hijri"`
}

// DayTimings is one day of prayer times.
type DayTimings struct {
	Times PrayerTimes `json:"times"`
	Date  DateInfo    `json:"date"`
}

// NextPrayerInfo describes the upcoming prayer.
type NextPrayerInfo struct {
	Name       string    `json:"name"`
	ArabicName string    `json:"arabic_name"`
	Time       string    `json:"time"`
	NextDay    bool      `json:"next_day"`
	At         time.Time `json:"at"`
}

// Remaining is the time left until the prayer, never negative.
func (n NextPrayerInfo) Remaining(now time.Time) time.Duration {
	d := n.At.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// ParseClock parses "HH:MM", ignoring a trailing " (TZ)" annotation.
func ParseClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// NextPrayer returns the first of the five daily prayers strictly after now,
// compared at minute resolution. After Isha it wraps to tomorrow's Fajr, using
// today's Fajr time as the estimate.
func NextPrayer(times PrayerTimes, now time.Time) (NextPrayerInfo, error) {
	nowMinutes := now.Hour()*60 + now.Minute()

	for _, name := range NotifiablePrayers {
		raw, _ := times.Get(name)
		h, m, err := ParseClock(raw)
		if err != nil {
			return NextPrayerInfo{}, fmt.Errorf("%s: %w", name, err)
		}
		if h*60+m > nowMinutes {
			return NextPrayerInfo{
				Name:       name,
				ArabicName: PrayerNames[name],
				Time:       fmt.Sprintf("%02d:%02d", h, m),
				At:         clockOn(now, 0, h, m),
			}, nil
		}
	}

	h, m, err := ParseClock(times.Fajr)
	if err != nil {
		return NextPrayerInfo{}, fmt.Errorf("%s: %w", Fajr, err)
	}
	return NextPrayerInfo{
		Name:       Fajr,
		ArabicName: PrayerNames[Fajr],
		Time:       fmt.Sprintf("%02d:%02d", h, m),
		NextDay:    true,
		At:         clockOn(now, 1, h, m),
	}, nil
}

// clockOn returns the wall-clock time h:m, days after now's date, in now's zone.
func clockOn(now time.Time, days, h, m int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+days, h, m, 0, 0, now.Location())
}
