// ABOUTME: YAML backup and restore of user data
// ABOUTME: Covers location, settings, tasbeeh and alarms; the prayer cache is not backed up

package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/salah/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// BackupTool identifies backups written by this program.
const BackupTool = "salah"

// Backup represents the YAML backup format.
type Backup struct {
	Version    string           `yaml:"version"`
	ExportedAt time.Time        `yaml:"exported_at"`
	Tool       string           `yaml:"tool"`
	Location   *models.Location `yaml:"location,omitempty"`
	Settings   *models.Settings `yaml:"settings"`
	Tasbeeh    *models.Tasbeeh  `yaml:"tasbeeh"`
	Alarms     []AlarmBackup    `yaml:"alarms"`
}

// AlarmBackup represents an alarm in the backup format.
type AlarmBackup struct {
	ID        string    `yaml:"id"`
	Time      string    `yaml:"time"`
	Label     string    `yaml:"label"`
	Enabled   bool      `yaml:"enabled"`
	CreatedAt time.Time `yaml:"created_at"`
}

// ExportToYAML exports all user data to YAML format.
func ExportToYAML(repo Repository) ([]byte, error) {
	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       BackupTool,
	}

	loc, err := repo.GetLocation()
	switch {
	case err == nil:
		backup.Location = loc
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("get location: %w", err)
	}

	if backup.Settings, err = repo.GetSettings(); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if backup.Tasbeeh, err = repo.GetTasbeeh(); err != nil {
		return nil, fmt.Errorf("get tasbeeh: %w", err)
	}

	alarms, err := repo.ListAlarms()
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}
	backup.Alarms = make([]AlarmBackup, len(alarms))
	for i, a := range alarms {
		backup.Alarms[i] = AlarmBackup{
			ID:        a.ID.String(),
			Time:      a.Time,
			Label:     a.Label,
			Enabled:   a.Enabled,
			CreatedAt: a.CreatedAt,
		}
	}

	return yaml.Marshal(backup)
}

// ImportFromYAML restores data from YAML format. Alarms whose ID already
// exists are overwritten; the rest of the stored data is left in place.
func ImportFromYAML(repo Repository, data []byte) error {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}

	if backup.Tool != BackupTool {
		return fmt.Errorf("wrong tool: %s (expected %s)", backup.Tool, BackupTool)
	}

	if repo.IsReadOnly() {
		return ErrReadOnly
	}

	if backup.Location != nil {
		if err := repo.SetLocation(backup.Location); err != nil {
			return fmt.Errorf("restore location: %w", err)
		}
	}
	if backup.Settings != nil {
		if err := repo.SaveSettings(backup.Settings); err != nil {
			return fmt.Errorf("restore settings: %w", err)
		}
	}
	if backup.Tasbeeh != nil {
		if err := repo.SaveTasbeeh(backup.Tasbeeh); err != nil {
			return fmt.Errorf("restore tasbeeh: %w", err)
		}
	}

	for _, ab := range backup.Alarms {
		id, err := uuid.Parse(ab.ID)
		if err != nil {
			return fmt.Errorf("invalid alarm ID %s: %w", ab.ID, err)
		}
		if _, _, err := models.ParseClock(ab.Time); err != nil {
			return fmt.Errorf("alarm %s: %w", ab.ID, err)
		}

		alarm := &models.Alarm{
			ID:        id,
			Time:      ab.Time,
			Label:     ab.Label,
			Enabled:   ab.Enabled,
			CreatedAt: ab.CreatedAt,
		}
		if err := upsertAlarm(repo, alarm); err != nil {
			return fmt.Errorf("restore alarm %s: %w", ab.Label, err)
		}
	}

	return nil
}

func upsertAlarm(repo AlarmRepository, a *models.Alarm) error {
	_, err := repo.GetAlarm(a.ID)
	switch {
	case err == nil:
		return repo.UpdateAlarm(a)
	case errors.Is(err, ErrNotFound):
		return repo.CreateAlarm(a)
	default:
		return err
	}
}

// ExportBackup creates a YAML backup (alias for ExportToYAML).
func ExportBackup(repo Repository) ([]byte, error) {
	return ExportToYAML(repo)
}

// ImportBackup restores from a YAML backup (alias for ImportFromYAML).
func ImportBackup(repo Repository, data []byte) error {
	return ImportFromYAML(repo, data)
}
