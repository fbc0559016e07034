package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/five82/daybook/internal/days"
	"github.com/five82/daybook/internal/notes"
)

// ErrNotFound is returned when a day has no stored note.
var ErrNotFound = errors.New("note not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id            TEXT PRIMARY KEY,
	body_markdown TEXT NOT NULL DEFAULT '',
	folder_id     TEXT,
	note_type     TEXT NOT NULL DEFAULT 'day',
	is_archived   INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_type ON notes(note_type);
CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at);
`

const (
	noteTypeDay  = "day"
	folderDaily  = "daily"
	timestampFmt = time.RFC3339Nano
)

// Store implements notes.Backend on SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ notes.Backend = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveNote upserts the note for id.
func (s *Store) SaveNote(ctx context.Context, id days.ID, content string) (notes.Record, error) {
	now := s.now().UTC()
	stamp := now.Format(timestampFmt)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, body_markdown, folder_id, note_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			body_markdown = excluded.body_markdown,
			updated_at    = excluded.updated_at
	`, string(id), content, folderDaily, noteTypeDay, stamp, stamp)
	if err != nil {
		return notes.Record{}, fmt.Errorf("upsert note: %w", err)
	}
	return notes.Record{Day: id, Content: content, UpdatedAt: now}, nil
}

// LoadNotesForDays returns the stored notes among ids, most recent day first.
func (s *Store) LoadNotesForDays(ctx context.Context, ids []days.ID) ([]notes.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, noteTypeDay)
	for _, id := range ids {
		args = append(args, string(id))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, body_markdown, updated_at FROM notes
		WHERE note_type = ? AND id IN (`+placeholders+`)
		ORDER BY id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	return scanRecords(rows)
}

// LoadNote returns the note for id, or ErrNotFound.
func (s *Store) LoadNote(ctx context.Context, id days.ID) (notes.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, body_markdown, updated_at FROM notes
		WHERE id = ? AND note_type = ?
	`, string(id), noteTypeDay)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return notes.Record{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return notes.Record{}, fmt.Errorf("load note: %w", err)
	}
	return rec, nil
}

// ListNotes returns every day note, most recent day first.
func (s *Store) ListNotes(ctx context.Context) ([]notes.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, body_markdown, updated_at FROM notes
		WHERE note_type = ? AND is_archived = 0
		ORDER BY id DESC
	`, noteTypeDay)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return scanRecords(rows)
}

// DeleteNote removes the note for id, or returns ErrNotFound.
func (s *Store) DeleteNote(ctx context.Context, id days.ID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND note_type = ?`, string(id), noteTypeDay)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (notes.Record, error) {
	var (
		id, body, updated string
	)
	if err := row.Scan(&id, &body, &updated); err != nil {
		return notes.Record{}, err
	}
	ts, err := parseTimestamp(updated)
	if err != nil {
		return notes.Record{}, fmt.Errorf("note %s: %w", id, err)
	}
	return notes.Record{Day: days.ID(id), Content: body, UpdatedAt: ts}, nil
}

func scanRecords(rows *sql.Rows) ([]notes.Record, error) {
	defer rows.Close()
	var out []notes.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return out, nil
}

// parseTimestamp accepts our own format plus the SQLite strftime form
// written by older databases.
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", value)
}
