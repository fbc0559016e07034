// Package storage is the SQLite backend for Daybook notes.
//
// # Schema
//
// Notes live in a single table keyed by day identifier:
//
//	CREATE TABLE notes (
//	    id            TEXT PRIMARY KEY,       -- YYYY-MM-DD
//	    body_markdown TEXT NOT NULL DEFAULT '',
//	    folder_id     TEXT,                   -- always 'daily' for day notes
//	    note_type     TEXT NOT NULL DEFAULT 'day',
//	    is_archived   INTEGER NOT NULL DEFAULT 0,
//	    created_at    TEXT NOT NULL,
//	    updated_at    TEXT NOT NULL
//	);
//
// Timestamps are RFC 3339 with nanoseconds in UTC. Rows written by other
// tools with millisecond or SQLite "YYYY-MM-DD HH:MM:SS" timestamps are read
// as well.
//
// # Operations
//
//   - SaveNote: upsert keyed by day; preserves created_at, sets updated_at
//     to the time of the write, and stores empty content as-is
//   - LoadNotesForDays: one query for a window, returning only days that
//     have a row of note_type 'day'
//   - LoadNote, ListNotes, DeleteNote: used by the CLI subcommands;
//     ListNotes skips archived rows and returns newest day first
//
// # Concurrency
//
// The database is opened in WAL mode with a busy timeout so the CLI
// subcommands can read while the TUI is running. *Store is safe for
// concurrent use; database/sql pools the connections.
//
// # Error Handling
//
// LoadNote and DeleteNote return an error wrapping ErrNotFound when the day
// has no note. Everything else is wrapped with the operation name:
//
//	rec, err := store.LoadNote(ctx, id)
//	if errors.Is(err, storage.ErrNotFound) {
//		// no note for id
//	}
package storage
