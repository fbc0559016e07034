// Package app is the composition root for Daybook.
//
// # Startup
//
//	Open()
//	  ├─> config.Load()        TOML config, defaults when missing
//	  ├─> newLogger()          slog text handler on the log file, run_id tag
//	  └─> storage.Open()       SQLite database (WAL)
//
//	Run()
//	  ├─> notes.NewCache()
//	  ├─> notes.NewSynchronizer()
//	  ├─> editor.New()
//	  ├─> ui.Run()             blocks until the user quits
//	  └─> drain()              final writes, then wait for in-flight saves
//
// The CLI subcommands use Open directly and talk to the Store without the
// cache or the editor.
//
// # Shutdown
//
// drain re-issues every write the editor has not seen confirmed and waits up
// to twice the save timeout. Days that are still unsaved afterwards are
// returned as an ErrUnsaved error so the command exits non-zero and the user
// sees which notes were lost.
//
// # Logging
//
// Logs go to the file at log_path, never to the terminal. Each process gets
// a fresh run_id (a UUID) attached to every record:
//
//	time=... level=INFO msg="daybook starting" run_id=3f1c...
//	time=... level=WARN msg="note save failed" run_id=3f1c... day=2026-10-14 seq=12
//
// `daybook log --run last` filters on that id.
//
// # Error Handling
//
// Open fails on an invalid config, an unwritable log directory or an
// unopenable database; nothing is started in that case. Run returns the UI
// error and the drain error together when both fail.
package app
