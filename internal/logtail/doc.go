// Package logtail reads the tail of the Daybook log file.
//
// # Overview
//
// Daybook never logs to the terminal the TUI owns; everything goes to the
// log file. The `daybook log` subcommand uses this package to print the
// interesting part of that file.
//
// # Reading Log Files
//
// Read keeps the last maxLines matching lines in a ring buffer, so memory is
// O(maxLines) regardless of file size:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line in file that passes every filter:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	   - Track total lines kept
//	3. If total < maxLines, return the first total entries
//	4. Otherwise return the buffer starting at the current index (oldest line)
//
// A non-positive maxLines returns every matching line.
//
// # Filters
//
// Lines are expected in log/slog text format:
//
//	time=2026-10-14T09:00:02Z level=WARN msg="note save failed" run_id=3f1c... day=2026-10-14 timeout=true
//
//   - Run(id): keeps lines whose run_id field equals id exactly
//   - MinLevel(level): keeps lines whose level field is at least level;
//     lines without a level are dropped
//
// Filters compose; a line must pass all of them:
//
//	lines, err := logtail.Read(cfg.LogPath, 200,
//		logtail.Run(runID),
//		logtail.MinLevel(slog.LevelWarn))
//
// LastRun returns the run_id of the newest tagged line, which is how
// `daybook log --run last` picks the most recent session.
//
// # Error Handling
//
// Read returns nil, nil for a missing file. Other errors (permission
// denied, I/O errors, lines over 1MB) are returned wrapped.
package logtail
