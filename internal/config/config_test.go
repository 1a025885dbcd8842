// ABOUTME: Tests for salah config functionality
// ABOUTME: Verifies config load, save, path resolution, env overrides, and backend factory

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harper/salah/internal/heading"
	"github.com/harper/salah/internal/storage"
)

// isolate points every XDG and SALAH_* variable at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_DATA_HOME", tmpDir)
	for _, name := range []string{
		"SALAH_BACKEND", "SALAH_DATA_DIR", "SALAH_API_BASE_URL", "SALAH_HEADING",
		"SALAH_LISTEN", "SALAH_LOG_LEVEL", "SALAH_METHOD", "SALAH_SERIAL_BAUD",
		"SALAH_THRESHOLD", "SALAH_EXIT_THRESHOLD", "SALAH_REPLAY_INTERVAL",
	} {
		t.Setenv(name, "")
	}
	return tmpDir
}

func TestGetConfigPathWithXDGConfigHome(t *testing.T) {
	tmpDir := isolate(t)

	path := GetConfigPath()
	if !strings.HasPrefix(path, tmpDir) {
		t.Errorf("GetConfigPath should use XDG_CONFIG_HOME, got %s", path)
	}
	if !strings.HasSuffix(path, filepath.Join("salah", "config.json")) {
		t.Errorf("GetConfigPath should end with salah/config.json, got %s", path)
	}
}

func TestGetConfigPathWithoutXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	path := GetConfigPath()
	if !strings.Contains(path, ".config") {
		t.Errorf("GetConfigPath should use .config fallback, got %s", path)
	}
}

func TestLoadNonExistent(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed on non-existent config: %v", err)
	}
	if cfg.GetBackend() != "sqlite" {
		t.Errorf("expected default backend sqlite, got %q", cfg.Backend)
	}

	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		t.Fatalf("expected config file to be auto-created on first run: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("auto-created config is not valid JSON: %v", err)
	}
	if raw["backend"] != "sqlite" {
		t.Errorf("expected auto-created backend sqlite, got %v", raw["backend"])
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "salah")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json {{{"), 0600); err != nil {
		t.Fatalf("failed to write invalid config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		Backend:       "charm",
		DataDir:       "/tmp/salah-data",
		Method:        2,
		Threshold:     3,
		ExitThreshold: 6,
		Heading:       "serial:/dev/ttyUSB0",
		Listen:        ":9000",
	}
	cfg.Serial.BaudRate = 9600
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Backend != "charm" || loaded.Method != 2 || loaded.Heading != "serial:/dev/ttyUSB0" {
		t.Errorf("unexpected config %+v", loaded)
	}
	if loaded.Threshold != 3 || loaded.ExitThreshold != 6 {
		t.Errorf("unexpected thresholds %v/%v", loaded.Threshold, loaded.ExitThreshold)
	}
	if loaded.Serial.BaudRate != 9600 {
		t.Errorf("expected baud 9600, got %d", loaded.Serial.BaudRate)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	isolate(t)

	if err := (&Config{Backend: "sqlite"}).Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := (&Config{Backend: "charm"}).Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(GetConfigPath()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only config.json, got %v", names)
	}
}

func TestSaveToUnwritableDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	// The config dir would have to live beneath a regular file.
	t.Setenv("XDG_CONFIG_HOME", blocker)

	if err := (&Config{}).Save(); err == nil {
		t.Error("expected error when saving beneath a regular file")
	}
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg := &Config{}

	if cfg.GetBackend() != "sqlite" {
		t.Errorf("unexpected backend %q", cfg.GetBackend())
	}
	if cfg.GetAPIBaseURL() != DefaultAPIBaseURL {
		t.Errorf("unexpected api url %q", cfg.GetAPIBaseURL())
	}
	if cfg.GetMethod() != 4 {
		t.Errorf("expected method 4, got %d", cfg.GetMethod())
	}
	if cfg.GetListen() != DefaultListen {
		t.Errorf("unexpected listen %q", cfg.GetListen())
	}
	if !strings.HasSuffix(cfg.GetDataDir(), "salah") {
		t.Errorf("unexpected data dir %q", cfg.GetDataDir())
	}

	cfg.APIBaseURL = "http://localhost:9999/v1/"
	if cfg.GetAPIBaseURL() != "http://localhost:9999/v1" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.GetAPIBaseURL())
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/salah", filepath.Join(home, "salah")},
		{"/abs/path", "/abs/path"},
		{"relative/path", "relative/path"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	cfg := &Config{DataDir: "~/salah-data"}
	if cfg.GetDataDir() != filepath.Join(home, "salah-data") {
		t.Errorf("expected tilde expansion, got %q", cfg.GetDataDir())
	}
}

func TestApplyEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SALAH_BACKEND", "charm")
	t.Setenv("SALAH_METHOD", "3")
	t.Setenv("SALAH_THRESHOLD", "2.5")
	t.Setenv("SALAH_EXIT_THRESHOLD", "4")
	t.Setenv("SALAH_HEADING", "stdin")
	t.Setenv("SALAH_SERIAL_BAUD", "9600")

	cfg := &Config{Backend: "sqlite", Method: 4}
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Backend != "charm" || cfg.Method != 3 || cfg.Heading != "stdin" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Threshold != 2.5 || cfg.ExitThreshold != 4 || cfg.Serial.BaudRate != 9600 {
		t.Errorf("unexpected numeric overrides %+v", cfg)
	}
}

func TestGetReplayInterval(t *testing.T) {
	isolate(t)
	cfg := &Config{}
	d, err := cfg.GetReplayInterval()
	if err != nil || d != heading.DefaultReplayInterval {
		t.Errorf("default = %v, %v", d, err)
	}

	t.Setenv("SALAH_REPLAY_INTERVAL", "250ms")
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	d, err = cfg.GetReplayInterval()
	if err != nil || d != 250*time.Millisecond {
		t.Errorf("env override = %v, %v", d, err)
	}

	for _, bad := range []string{"soon", "-1s"} {
		cfg.ReplayInterval = bad
		if _, err := cfg.GetReplayInterval(); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	for name, value := range map[string]string{
		"SALAH_METHOD":      "umm-al-qura",
		"SALAH_THRESHOLD":   "five",
		"SALAH_SERIAL_BAUD": "fast",
	} {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			t.Setenv(name, value)
			if err := (&Config{}).ApplyEnv(); err == nil {
				t.Errorf("expected error for %s=%s", name, value)
			}
		})
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	isolate(t)
	if err := (&Config{Listen: ":1"}).Save(); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SALAH_LISTEN", ":2")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":2" {
		t.Errorf("expected env to win, got %q", cfg.Listen)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SALAH_TEST_FROM_FILE=:7777\nSALAH_TEST_PRESET=5\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("SALAH_TEST_FROM_FILE") })
	// Variables already set are not overridden.
	t.Setenv("SALAH_TEST_PRESET", "2")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if os.Getenv("SALAH_TEST_FROM_FILE") != ":7777" {
		t.Errorf("expected value from .env, got %q", os.Getenv("SALAH_TEST_FROM_FILE"))
	}
	if os.Getenv("SALAH_TEST_PRESET") != "2" {
		t.Errorf("expected existing value kept, got %q", os.Getenv("SALAH_TEST_PRESET"))
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should not be an error: %v", err)
	}
}

func TestOpenStorageSqliteCreatesDBInDataDir(t *testing.T) {
	tmpDir := isolate(t)
	cfg := &Config{Backend: "sqlite", DataDir: tmpDir}

	store, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*storage.SQLiteDB); !ok {
		t.Errorf("expected *storage.SQLiteDB, got %T", store)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "salah.db")); err != nil {
		t.Errorf("expected database file: %v", err)
	}
}

func TestOpenStorageUnknownBackend(t *testing.T) {
	cfg := &Config{Backend: "postgres"}
	_, err := cfg.OpenStorage()
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}
