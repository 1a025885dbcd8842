// ABOUTME: SQLite storage implementation for preferences, alarms and cached timings
// ABOUTME: Provides local-only persistence using pure Go SQLite driver

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/salah/internal/models"
	_ "modernc.org/sqlite"
)

// Keys in the kv table.
const (
	keyLocation = "location"
	keySettings = "settings"
	keyTasbeeh  = "tasbeeh"
)

// SQLiteDB implements Repository with a local SQLite database.
type SQLiteDB struct {
	db       *sql.DB
	path     string
	readOnly bool
}

// Compile-time check that SQLiteDB implements Repository.
var _ Repository = (*SQLiteDB)(nil)

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "salah", "salah.db")
}

// NewSQLiteDB creates a new SQLite database at the given path.
// Creates the directory and database file if they don't exist.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteDB{db: db, path: path}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// OpenSQLiteReadOnly opens an existing database without write access.
func OpenSQLiteReadOnly(path string) (*SQLiteDB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &SQLiteDB{db: db, path: path, readOnly: true}, nil
}

// migrate creates or updates the database schema.
func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS alarms (
			id TEXT PRIMARY KEY,
			time TEXT NOT NULL,
			label TEXT NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS prayer_cache (
			key TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			fetched_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_alarms_time ON alarms(time);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *SQLiteDB) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Sync is a no-op for local SQLite (no cloud sync).
func (s *SQLiteDB) Sync() error {
	return nil
}

// IsReadOnly reports whether writes are rejected.
func (s *SQLiteDB) IsReadOnly() bool {
	return s.readOnly
}

// Reset clears all data from the database.
func (s *SQLiteDB) Reset() error {
	if s.readOnly {
		return ErrReadOnly
	}
	_, err := s.db.Exec("DELETE FROM kv; DELETE FROM alarms; DELETE FROM prayer_cache;")
	return err
}

// --- kv ---

func (s *SQLiteDB) getJSON(key string, v any) error {
	var raw string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteDB) putJSON(key string, v any) error {
	if s.readOnly {
		return ErrReadOnly
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// GetLocation returns the saved observer location.
func (s *SQLiteDB) GetLocation() (*models.Location, error) {
	var loc models.Location
	if err := s.getJSON(keyLocation, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// SetLocation saves the observer location.
func (s *SQLiteDB) SetLocation(loc *models.Location) error {
	if err := models.ValidateCoordinates(loc.Latitude, loc.Longitude); err != nil {
		return err
	}
	return s.putJSON(keyLocation, loc)
}

// ClearLocation forgets the observer location.
func (s *SQLiteDB) ClearLocation() error {
	if s.readOnly {
		return ErrReadOnly
	}
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", keyLocation)
	return err
}

// GetSettings returns saved settings, or defaults.
func (s *SQLiteDB) GetSettings() (*models.Settings, error) {
	settings := models.DefaultSettings()
	if err := s.getJSON(keySettings, settings); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return settings, nil
}

// SaveSettings stores settings.
func (s *SQLiteDB) SaveSettings(settings *models.Settings) error {
	return s.putJSON(keySettings, settings)
}

// GetTasbeeh returns the saved counter, or a fresh one.
func (s *SQLiteDB) GetTasbeeh() (*models.Tasbeeh, error) {
	t := models.NewTasbeeh()
	if err := s.getJSON(keyTasbeeh, t); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return t, nil
}

// SaveTasbeeh stores the counter.
func (s *SQLiteDB) SaveTasbeeh(t *models.Tasbeeh) error {
	return s.putJSON(keyTasbeeh, t)
}

// --- alarms ---

// CreateAlarm inserts an alarm.
func (s *SQLiteDB) CreateAlarm(a *models.Alarm) error {
	if s.readOnly {
		return ErrReadOnly
	}
	_, err := s.db.Exec(
		"INSERT INTO alarms (id, time, label, enabled, created_at) VALUES (?, ?, ?, ?, ?)",
		a.ID.String(), a.Time, a.Label, a.Enabled, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alarm: %w", err)
	}
	return nil
}

// GetAlarm retrieves an alarm by its UUID.
func (s *SQLiteDB) GetAlarm(id uuid.UUID) (*models.Alarm, error) {
	row := s.db.QueryRow(
		"SELECT id, time, label, enabled, created_at FROM alarms WHERE id = ?",
		id.String(),
	)
	a, err := scanAlarm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// ListAlarms returns all alarms ordered by time of day.
func (s *SQLiteDB) ListAlarms() ([]*models.Alarm, error) {
	rows, err := s.db.Query("SELECT id, time, label, enabled, created_at FROM alarms ORDER BY time, created_at")
	if err != nil {
		return nil, fmt.Errorf("query alarms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	alarms := []*models.Alarm{}
	for rows.Next() {
		a, err := scanAlarm(rows)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, a)
	}
	return alarms, rows.Err()
}

// UpdateAlarm overwrites an existing alarm.
func (s *SQLiteDB) UpdateAlarm(a *models.Alarm) error {
	if s.readOnly {
		return ErrReadOnly
	}
	res, err := s.db.Exec(
		"UPDATE alarms SET time = ?, label = ?, enabled = ? WHERE id = ?",
		a.Time, a.Label, a.Enabled, a.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update alarm: %w", err)
	}
	return requireAffected(res)
}

// DeleteAlarm removes an alarm.
func (s *SQLiteDB) DeleteAlarm(id uuid.UUID) error {
	if s.readOnly {
		return ErrReadOnly
	}
	res, err := s.db.Exec("DELETE FROM alarms WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlarm(row rowScanner) (*models.Alarm, error) {
	var idStr string
	var a models.Alarm
	if err := row.Scan(&idStr, &a.Time, &a.Label, &a.Enabled, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan alarm: %w", err)
	}
	a.ID, _ = uuid.Parse(idStr)
	return &a, nil
}

// --- prayer cache ---

// GetCachedDay returns a cached day and when it was fetched.
func (s *SQLiteDB) GetCachedDay(key string) (*models.DayTimings, time.Time, error) {
	var body string
	var fetchedAt time.Time
	err := s.db.QueryRow("SELECT body, fetched_at FROM prayer_cache WHERE key = ?", key).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get cached day: %w", err)
	}

	var day models.DayTimings
	if err := json.Unmarshal([]byte(body), &day); err != nil {
		return nil, time.Time{}, fmt.Errorf("unmarshal cached day: %w", err)
	}
	return &day, fetchedAt, nil
}

// PutCachedDay stores a day's timings, replacing any earlier entry.
func (s *SQLiteDB) PutCachedDay(key string, day *models.DayTimings) error {
	if s.readOnly {
		return ErrReadOnly
	}
	data, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("marshal cached day: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO prayer_cache (key, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		key, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("put cached day: %w", err)
	}
	return nil
}

// PruneCache removes cached days fetched before cutoff and returns how many went.
func (s *SQLiteDB) PruneCache(cutoff time.Time) (int64, error) {
	if s.readOnly {
		return 0, ErrReadOnly
	}
	res, err := s.db.Exec("DELETE FROM prayer_cache WHERE fetched_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return res.RowsAffected()
}

// FindAlarm resolves an alarm by full UUID or unique ID prefix.
func FindAlarm(repo AlarmRepository, ref string) (*models.Alarm, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, ErrNotFound
	}
	if id, err := uuid.Parse(ref); err == nil {
		return repo.GetAlarm(id)
	}

	alarms, err := repo.ListAlarms()
	if err != nil {
		return nil, err
	}
	var match *models.Alarm
	for _, a := range alarms {
		if strings.HasPrefix(a.ID.String(), ref) {
			if match != nil {
				return nil, fmt.Errorf("alarm %q: %w", ref, ErrAmbiguousID)
			}
			match = a
		}
	}
	if match == nil {
		return nil, ErrNotFound
	}
	return match, nil
}
