package notes

import (
	"context"
	"time"

	"github.com/five82/daybook/internal/days"
)

// Record is the last-known persisted state of one day's note.
type Record struct {
	Day       days.ID   `json:"day"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Empty reports whether the record holds no text.
func (r Record) Empty() bool {
	return r.Content == ""
}

// Loader reads notes in bulk. Days without a stored note are omitted from
// the result. A call either returns every stored note or an error.
type Loader interface {
	LoadNotesForDays(ctx context.Context, ids []days.ID) ([]Record, error)
}

// Saver upserts a single note. Saving identical content twice is harmless.
// The returned record carries the time of the durable write.
type Saver interface {
	SaveNote(ctx context.Context, id days.ID, content string) (Record, error)
}

// Backend is the durable store behind the cache.
type Backend interface {
	Loader
	Saver
}
