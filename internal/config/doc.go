// Package config loads the Daybook configuration file.
//
// # Overview
//
// Configuration covers where notes and logs live and the timing of the save
// policy. Everything has a default, so Daybook runs without a config file.
// UI preferences (theme, footer statistics) are not configuration; they live
// in internal/prefs because the TUI writes them back.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/daybook/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Database: ~/.local/share/daybook/daybook.db
//   - Log file: ~/.local/state/daybook/daybook.log
//   - Log level: info
//   - Window: 7 days
//   - Debounce: 1s
//   - Save and load timeouts: 5s
//
// # TOML Format
//
//	db_path = "~/notes/daybook.db"
//	log_path = "~/.local/state/daybook/daybook.log"
//	log_level = "debug"
//	window_days = 14
//	debounce = "750ms"
//	save_timeout = "5s"
//	load_timeout = "5s"
//
// Durations use Go duration syntax. Tilde expansion is performed for paths.
//
// # Validation
//
// After parsing, Validate rejects out of range values (window_days outside
// 1..366, a debounce under 10ms or over a minute, timeouts under 100ms) and
// unknown log levels. Missing config files are NOT an error.
//
// # Overrides
//
// Command line flags are applied after Load:
//
//   - --db replaces db_path through WithDBPath, which expands it like the
//     file value
//   - --debug forces log_level to debug
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and unparsable durations
//   - Validation failures, wrapped as "invalid config <path>: ..."
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return fmt.Errorf("load config: %w", err)
//	}
//	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))
//
// # Testing Considerations
//
// Tests point HOME at a temp dir or pass explicit paths, and build Config
// values with Default() when they only need a valid configuration.
package config
