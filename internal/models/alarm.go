// ABOUTME: Religious reminder alarms with a daily HH:MM time
// ABOUTME: Includes the suggested presets offered when adding alarms

package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultAlarmLabel is used when an alarm is created without a label.
const DefaultAlarmLabel = "منبه ديني"

// DefaultAlarmTime is used when an alarm is created without a time.
const DefaultAlarmTime = "04:00"

// Alarm is a daily reminder.
type Alarm struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Time      string    `json:"time" yaml:"time"`
	Label     string    `json:"label" yaml:"label"`
	Enabled   bool      `json:"enabled" yaml:"enabled"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewAlarm creates an enabled alarm, filling in the default time and label.
func NewAlarm(clock, label string) (*Alarm, error) {
	if strings.TrimSpace(clock) == "" {
		clock = DefaultAlarmTime
	}
	h, m, err := ParseClock(clock)
	if err != nil {
		return nil, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultAlarmLabel
	}
	if err := ValidateLabel(label); err != nil {
		return nil, err
	}

	return &Alarm{
		ID:        uuid.New(),
		Time:      fmt.Sprintf("%02d:%02d", h, m),
		Label:     label,
		Enabled:   true,
		CreatedAt: time.Now(),
	}, nil
}

// NextFire returns the next time the alarm rings at or after now.
func (a *Alarm) NextFire(now time.Time) (time.Time, error) {
	h, m, err := ParseClock(a.Time)
	if err != nil {
		return time.Time{}, err
	}
	at := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}

// SortAlarms orders alarms by time of day, then by creation.
func SortAlarms(alarms []*Alarm) {
	sort.SliceStable(alarms, func(i, j int) bool {
		if alarms[i].Time != alarms[j].Time {
			return alarms[i].Time < alarms[j].Time
		}
		return alarms[i].CreatedAt.Before(alarms[j].CreatedAt)
	})
}

// SuggestedAlarm is a preset reminder.
type SuggestedAlarm struct {
	Label string `json:"label"`
	Time  string `json:"time"`
}

// SuggestedAlarms are the presets offered by "alarm suggest".
var SuggestedAlarms = []SuggestedAlarm{
	{Label: "أذكار الصباح", Time: "05:30"},
	{Label: "أذكار المساء", Time: "16:30"},
	{Label: "قراءة القرآن", Time: "06:00"},
	{Label: "صلاة الضحى", Time: "09:00"},
	{Label: "قيام الليل", Time: "03:00"},
}
