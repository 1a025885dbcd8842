// ABOUTME: Data migration between storage backends
// ABOUTME: Copies preferences and alarms from source to destination repository

package storage

import (
	"errors"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Location bool
	Alarms   int
}

// MigrateData copies all user data from src to dst. Cached prayer timings are
// not copied; they are refetched on demand.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	if dst.IsReadOnly() {
		return nil, ErrReadOnly
	}
	summary := &MigrateSummary{}

	loc, err := src.GetLocation()
	switch {
	case err == nil:
		if err := dst.SetLocation(loc); err != nil {
			return nil, fmt.Errorf("copy location: %w", err)
		}
		summary.Location = true
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("get source location: %w", err)
	}

	settings, err := src.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("get source settings: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return nil, fmt.Errorf("copy settings: %w", err)
	}

	tasbeeh, err := src.GetTasbeeh()
	if err != nil {
		return nil, fmt.Errorf("get source tasbeeh: %w", err)
	}
	if err := dst.SaveTasbeeh(tasbeeh); err != nil {
		return nil, fmt.Errorf("copy tasbeeh: %w", err)
	}

	alarms, err := src.ListAlarms()
	if err != nil {
		return nil, fmt.Errorf("list source alarms: %w", err)
	}
	for _, a := range alarms {
		if err := dst.CreateAlarm(a); err != nil {
			return nil, fmt.Errorf("create alarm %q: %w", a.Label, err)
		}
		summary.Alarms++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
