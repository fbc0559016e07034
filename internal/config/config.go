package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/daybook/internal/days"
	"github.com/five82/daybook/internal/debounce"
	"github.com/five82/daybook/internal/notes"
)

// Config holds the runtime settings for Daybook.
type Config struct {
	DBPath      string
	LogPath     string
	LogLevel    string
	WindowDays  int
	Debounce    time.Duration
	SaveTimeout time.Duration
	LoadTimeout time.Duration
}

const (
	defaultConfigPath  = "~/.config/daybook/config.toml"
	defaultDBPath      = "~/.local/share/daybook/daybook.db"
	defaultLogPath     = "~/.local/state/daybook/daybook.log"
	defaultLogLevel    = "info"
	defaultLoadTimeout = 5 * time.Second
	maxWindowDays      = 366
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DBPath:      mustExpand(defaultDBPath),
		LogPath:     mustExpand(defaultLogPath),
		LogLevel:    defaultLogLevel,
		WindowDays:  days.DefaultWindow,
		Debounce:    debounce.DefaultInterval,
		SaveTimeout: notes.DefaultSaveTimeout,
		LoadTimeout: defaultLoadTimeout,
	}
}

// Load locates and parses the Daybook config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DBPath      string `toml:"db_path"`
		LogPath     string `toml:"log_path"`
		LogLevel    string `toml:"log_level"`
		WindowDays  int    `toml:"window_days"`
		Debounce    string `toml:"debounce"`
		SaveTimeout string `toml:"save_timeout"`
		LoadTimeout string `toml:"load_timeout"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.DBPath); v != "" {
		cfg.DBPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if raw.WindowDays != 0 {
		cfg.WindowDays = raw.WindowDays
	}
	if cfg.Debounce, err = durationOr(raw.Debounce, cfg.Debounce); err != nil {
		return Config{}, fmt.Errorf("parse debounce: %w", err)
	}
	if cfg.SaveTimeout, err = durationOr(raw.SaveTimeout, cfg.SaveTimeout); err != nil {
		return Config{}, fmt.Errorf("parse save_timeout: %w", err)
	}
	if cfg.LoadTimeout, err = durationOr(raw.LoadTimeout, cfg.LoadTimeout); err != nil {
		return Config{}, fmt.Errorf("parse load_timeout: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.LogPath, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.WindowDays, validation.Required, validation.Min(1), validation.Max(maxWindowDays)),
		validation.Field(&c.Debounce, validation.Required, validation.Min(10*time.Millisecond), validation.Max(time.Minute)),
		validation.Field(&c.SaveTimeout, validation.Required, validation.Min(100*time.Millisecond)),
		validation.Field(&c.LoadTimeout, validation.Required, validation.Min(100*time.Millisecond)),
	)
}

// Level maps LogLevel to a slog level.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithDBPath returns a copy with the database path replaced, when set.
func (c Config) WithDBPath(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return c, nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return c, err
	}
	c.DBPath = expanded
	return c, nil
}

func durationOr(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
