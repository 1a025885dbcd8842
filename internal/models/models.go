// ABOUTME: Core data models for locations and user settings
// ABOUTME: Provides validators shared by the CLI, MCP and HTTP surfaces

package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/harper/salah/internal/qibla"
)

// ValidateCoordinates checks if latitude and longitude are within valid ranges.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return fmt.Errorf("coordinates cannot be NaN")
	}
	if math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("coordinates cannot be infinite")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateLabel checks that a label is non-blank and not absurdly long.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("label cannot be empty or whitespace")
	}
	if len(label) > 255 {
		return fmt.Errorf("label too long (max 255 characters)")
	}
	return nil
}

// Location is the observer's saved position.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	City      string  `json:"city,omitempty" yaml:"city,omitempty"`
	Country   string  `json:"country,omitempty" yaml:"country,omitempty"`
}

// NewLocation validates coordinates and builds a Location.
func NewLocation(lat, lng float64) (*Location, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	return &Location{Latitude: lat, Longitude: lng}, nil
}

// Coordinate converts the location for bearing calculations.
func (l Location) Coordinate() qibla.Coordinate {
	return qibla.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// String renders the place name when known, otherwise the coordinates.
func (l Location) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	default:
		return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
	}
}

// Language selects the display language.
type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

// ParseLanguage accepts "ar" or "en" in any case.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case Arabic:
		return Arabic, nil
	case English:
		return English, nil
	default:
		return "", fmt.Errorf("unsupported language %q (use ar or en)", s)
	}
}

// Settings holds per-user preferences.
type Settings struct {
	Notifications map[string]bool `json:"notifications" yaml:"notifications"`
	Language      Language        `json:"language" yaml:"language"`
}

// DefaultSettings enables every notifiable prayer and uses Arabic.
func DefaultSettings() *Settings {
	return &Settings{
		Notifications: DefaultNotifications(),
		Language:      Arabic,
	}
}

// NotificationEnabled reports the toggle for prayer. Missing entries default to on.
func (s *Settings) NotificationEnabled(prayer string) bool {
	if s.Notifications == nil {
		return true
	}
	on, ok := s.Notifications[prayer]
	if !ok {
		return true
	}
	return on
}

// SetNotification toggles reminders for one of the five daily prayers.
func (s *Settings) SetNotification(prayer string, on bool) error {
	name, err := CanonicalPrayer(prayer)
	if err != nil {
		return err
	}
	if !IsNotifiable(name) {
		return fmt.Errorf("%s has no notification", name)
	}
	if s.Notifications == nil {
		s.Notifications = DefaultNotifications()
	}
	s.Notifications[name] = on
	return nil
}
