package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/five82/daybook/internal/config"
	"github.com/five82/daybook/internal/editor"
	"github.com/five82/daybook/internal/notes"
	"github.com/five82/daybook/internal/prefs"
	"github.com/five82/daybook/internal/storage"
	"github.com/five82/daybook/internal/ui"
)

// Options configure the Daybook application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/daybook/prefs.toml
	DBPath     string // overrides db_path from the config file
	Debug      bool
}

// Env holds the resources shared by the TUI and the CLI subcommands.
type Env struct {
	Config config.Config
	Logger *slog.Logger
	Store  *storage.Store
	RunID  string

	logFile io.Closer
}

// Open loads configuration, starts the log file and opens the database.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg, err = cfg.WithDBPath(opts.DBPath); err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}

	runID := uuid.NewString()
	logger, logFile, err := newLogger(cfg.LogPath, cfg.Level(), runID)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("db_path", cfg.DBPath),
		slog.String("log_level", cfg.LogLevel),
		slog.Int("window_days", cfg.WindowDays),
		slog.Duration("debounce", cfg.Debounce),
		slog.Duration("save_timeout", cfg.SaveTimeout))

	return &Env{Config: cfg, Logger: logger, Store: store, RunID: runID, logFile: logFile}, nil
}

// Close releases the database and the log file.
func (e *Env) Close() error {
	err := e.Store.Close()
	if cerr := e.logFile.Close(); err == nil {
		err = cerr
	}
	return err
}

// Run boots the Daybook TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	return runUI(ctx, env, opts.PrefsPath)
}

func runUI(ctx context.Context, env *Env, prefsPath string) error {
	cfg := env.Config
	logger := env.Logger

	userPrefs, _ := prefs.Load(prefsPath)

	cache := notes.NewCache()
	syncer := notes.NewSynchronizer(env.Store, cache, notes.SyncOptions{
		Timeout: cfg.SaveTimeout,
		Logger:  logger,
	})
	ed := editor.New(cache, syncer, editor.Options{
		Debounce: cfg.Debounce,
		Logger:   logger,
	})

	logger.Info("daybook starting")
	uiErr := ui.Run(ui.Options{
		Context:     ctx,
		Loader:      env.Store,
		Cache:       cache,
		Syncer:      syncer,
		Editor:      ed,
		Logger:      logger,
		WindowDays:  cfg.WindowDays,
		LoadTimeout: cfg.LoadTimeout,
		Prefs:       userPrefs,
		PrefsPath:   prefsPath,
	})
	if uiErr != nil {
		logger.Error("ui stopped", slog.String("error", uiErr.Error()))
	}

	if err := drain(ed, syncer, cfg.SaveTimeout, logger); err != nil {
		if uiErr != nil {
			return fmt.Errorf("%w (also: %v)", uiErr, err)
		}
		return err
	}
	logger.Info("daybook stopped")
	return uiErr
}
