// ABOUTME: salah configuration management with backend selection
// ABOUTME: Handles file settings, .env and SALAH_* overrides, and the storage backend factory

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/salah/internal/charm"
	"github.com/harper/salah/internal/heading"
	"github.com/harper/salah/internal/storage"
	"github.com/joho/godotenv"
)

// Defaults for values left unset in the config file.
const (
	DefaultBackend    = "sqlite"
	DefaultAPIBaseURL = "https://api.aladhan.com/v1"
	// DefaultMethod is the Umm al-Qura calculation method.
	DefaultMethod = 4
	DefaultListen = "127.0.0.1:8788"
)

// Config stores salah configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage. SQLite puts salah.db here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/salah.
	DataDir string `json:"data_dir,omitempty"`

	// APIBaseURL points at the prayer timing service.
	APIBaseURL string `json:"api_base_url,omitempty"`

	// Method is the prayer time calculation method id.
	Method int `json:"method,omitempty"`

	// Threshold is the alignment band in degrees; ExitThreshold adds hysteresis.
	Threshold     float64 `json:"threshold,omitempty"`
	ExitThreshold float64 `json:"exit_threshold,omitempty"`

	// Heading is the default heading source: "stdin", "file:<path>" or "serial:<port>".
	Heading string `json:"heading,omitempty"`

	// Serial configures serial compasses.
	Serial heading.PortOptions `json:"serial,omitempty"`

	// ReplayInterval paces file replays, e.g. "250ms". Empty means the
	// heading package default.
	ReplayInterval string `json:"replay_interval,omitempty"`

	// Listen is the HTTP API address for "salah serve".
	Listen string `json:"listen,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`
}

// defaultDBFilename is the SQLite database filename.
const defaultDBFilename = "salah.db"

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return DefaultBackend
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetAPIBaseURL returns the timing service URL without a trailing slash.
func (c *Config) GetAPIBaseURL() string {
	if c.APIBaseURL == "" {
		return DefaultAPIBaseURL
	}
	return strings.TrimRight(c.APIBaseURL, "/")
}

// GetMethod returns the calculation method, defaulting to Umm al-Qura.
func (c *Config) GetMethod() int {
	if c.Method <= 0 {
		return DefaultMethod
	}
	return c.Method
}

// GetListen returns the HTTP listen address.
func (c *Config) GetListen() string {
	if c.Listen == "" {
		return DefaultListen
	}
	return c.Listen
}

// GetReplayInterval returns the configured replay pacing, defaulting to
// heading.DefaultReplayInterval.
func (c *Config) GetReplayInterval() (time.Duration, error) {
	if c.ReplayInterval == "" {
		return heading.DefaultReplayInterval, nil
	}
	d, err := time.ParseDuration(c.ReplayInterval)
	if err != nil {
		return 0, fmt.Errorf("replay_interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("replay_interval: must not be negative")
	}
	return d, nil
}

// DBPath returns the SQLite database path inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), defaultDBFilename)
}

// defaultDataDir returns the default XDG data directory for salah.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "salah")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	switch backend := c.GetBackend(); backend {
	case "sqlite":
		return storage.NewSQLiteDB(c.DBPath())
	case "charm":
		return charm.NewClient(charm.DefaultConfig())
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "salah", "config.json")
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	log.Debug("loaded environment file", "path", path)
	return nil
}

// Load reads config from disk, creating a default file on first run, then
// applies SALAH_* environment overrides.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from XDG dirs
	var cfg Config
	switch {
	case os.IsNotExist(err):
		cfg = Config{Backend: DefaultBackend}
		if saveErr := cfg.Save(); saveErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
		}
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from SALAH_* environment variables.
func (c *Config) ApplyEnv() error {
	str := map[string]*string{
		"SALAH_BACKEND":         &c.Backend,
		"SALAH_DATA_DIR":        &c.DataDir,
		"SALAH_API_BASE_URL":    &c.APIBaseURL,
		"SALAH_HEADING":         &c.Heading,
		"SALAH_REPLAY_INTERVAL": &c.ReplayInterval,
		"SALAH_LISTEN":          &c.Listen,
		"SALAH_LOG_LEVEL":       &c.LogLevel,
	}
	for name, dst := range str {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("SALAH_METHOD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SALAH_METHOD: %w", err)
		}
		c.Method = n
	}
	if v := os.Getenv("SALAH_SERIAL_BAUD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SALAH_SERIAL_BAUD: %w", err)
		}
		c.Serial.BaudRate = n
	}

	floats := map[string]*float64{
		"SALAH_THRESHOLD":      &c.Threshold,
		"SALAH_EXIT_THRESHOLD": &c.ExitThreshold,
	}
	for name, dst := range floats {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = f
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(GetConfigPath(), data)
}

// atomicWrite writes data to a temp file in the target directory and renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
