// ABOUTME: Repository interfaces for preferences, alarms and the prayer cache
// ABOUTME: Enables testability and storage backend swapping

package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/harper/salah/internal/models"
)

// PreferenceRepository stores the single-valued user state.
type PreferenceRepository interface {
	// GetLocation returns ErrNotFound when no location has been saved.
	GetLocation() (*models.Location, error)
	SetLocation(loc *models.Location) error
	ClearLocation() error
	// GetSettings returns defaults when nothing has been saved.
	GetSettings() (*models.Settings, error)
	SaveSettings(s *models.Settings) error
	// GetTasbeeh returns a fresh counter when nothing has been saved.
	GetTasbeeh() (*models.Tasbeeh, error)
	SaveTasbeeh(t *models.Tasbeeh) error
}

// AlarmRepository defines operations for managing alarms.
type AlarmRepository interface {
	CreateAlarm(a *models.Alarm) error
	GetAlarm(id uuid.UUID) (*models.Alarm, error)
	// ListAlarms returns alarms ordered by time of day.
	ListAlarms() ([]*models.Alarm, error)
	UpdateAlarm(a *models.Alarm) error
	DeleteAlarm(id uuid.UUID) error
}

// PrayerCache holds fetched prayer timings keyed by day, place and method.
type PrayerCache interface {
	// GetCachedDay returns ErrNotFound on a miss.
	GetCachedDay(key string) (*models.DayTimings, time.Time, error)
	PutCachedDay(key string, day *models.DayTimings) error
}

// Repository combines all repository operations with lifecycle management.
type Repository interface {
	PreferenceRepository
	AlarmRepository
	PrayerCache
	Close() error
	Sync() error
	Reset() error
	IsReadOnly() bool
}
