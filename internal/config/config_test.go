package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	wantDB, err := expandPath(defaultDBPath)
	if err != nil {
		t.Fatalf("expandPath(defaultDBPath) returned error: %v", err)
	}
	if cfg.DBPath != wantDB {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, wantDB)
	}
	if cfg.WindowDays != 7 {
		t.Fatalf("WindowDays = %d, want 7", cfg.WindowDays)
	}
	if cfg.Debounce != time.Second {
		t.Fatalf("Debounce = %v, want 1s", cfg.Debounce)
	}
	if cfg.SaveTimeout != 5*time.Second || cfg.LoadTimeout != 5*time.Second {
		t.Fatalf("timeouts = %v/%v, want 5s/5s", cfg.SaveTimeout, cfg.LoadTimeout)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
db_path = "  ~/journal/day.db  "
log_level = " DEBUG "
window_days = 14
debounce = "750ms"
save_timeout = "2s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DBPath != filepath.Join(home, "journal", "day.db") {
		t.Fatalf("DBPath = %q, want it under HOME %q", cfg.DBPath, home)
	}
	if cfg.LogLevel != "debug" || cfg.Level() != slog.LevelDebug {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.WindowDays != 14 {
		t.Fatalf("WindowDays = %d, want 14", cfg.WindowDays)
	}
	if cfg.Debounce != 750*time.Millisecond {
		t.Fatalf("Debounce = %v, want 750ms", cfg.Debounce)
	}
	if cfg.SaveTimeout != 2*time.Second {
		t.Fatalf("SaveTimeout = %v, want 2s", cfg.SaveTimeout)
	}
	if cfg.LoadTimeout != defaultLoadTimeout {
		t.Fatalf("LoadTimeout = %v, want default", cfg.LoadTimeout)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
db_path = "   "
log_level = ""
debounce = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg != def {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cases := map[string]string{
		"window too large": "window_days = 1000\n",
		"negative window":  "window_days = -3\n",
		"bad duration":     "debounce = \"soon\"\n",
		"tiny debounce":    "debounce = \"1ms\"\n",
		"unknown level":    "log_level = \"loud\"\n",
		"malformed toml":   "window_days = \n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("Load(%q) succeeded, want error", body)
			}
		})
	}
}

func TestWithDBPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	same, err := cfg.WithDBPath("  ")
	if err != nil || same.DBPath != cfg.DBPath {
		t.Fatalf("WithDBPath(blank) = %q, %v", same.DBPath, err)
	}

	next, err := cfg.WithDBPath("~/other.db")
	if err != nil {
		t.Fatalf("WithDBPath returned error: %v", err)
	}
	if next.DBPath != filepath.Join(home, "other.db") {
		t.Fatalf("DBPath = %q", next.DBPath)
	}
	if cfg.DBPath == next.DBPath {
		t.Fatal("WithDBPath mutated the receiver")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/daybook")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if !strings.HasPrefix(got, home) {
		t.Fatalf("expandPath = %q, want prefix %q", got, home)
	}

	if _, err := expandPath("   "); err == nil {
		t.Fatal("expandPath on blank input succeeded, want error")
	}
}
