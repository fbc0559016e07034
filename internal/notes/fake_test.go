package notes

import (
	"context"
	"sync"
	"time"

	"github.com/five82/daybook/internal/days"
)

type fakeBackend struct {
	mu      sync.Mutex
	notes   map[days.ID]Record
	loadErr error
	saveErr error
	loads   int
	saves   []Write

	// gate, when set, is received from before a save completes.
	gate chan struct{}
	// loadGate, when set, blocks loads until it is closed; loadStarted is
	// signalled as each load begins.
	loadGate    chan struct{}
	loadStarted chan struct{}
}

func newFakeBackend(recs ...Record) *fakeBackend {
	b := &fakeBackend{notes: make(map[days.ID]Record)}
	for _, r := range recs {
		b.notes[r.Day] = r
	}
	return b
}

func (b *fakeBackend) LoadNotesForDays(ctx context.Context, ids []days.ID) ([]Record, error) {
	if b.loadStarted != nil {
		select {
		case b.loadStarted <- struct{}{}:
		default:
		}
	}
	if b.loadGate != nil {
		select {
		case <-b.loadGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loads++
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	var out []Record
	for _, id := range ids {
		if r, ok := b.notes[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *fakeBackend) SaveNote(ctx context.Context, id days.ID, content string) (Record, error) {
	if b.gate != nil {
		select {
		case <-b.gate:
		case <-ctx.Done():
			return Record{}, ctx.Err()
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saves = append(b.saves, Write{Day: id, Content: content})
	if b.saveErr != nil {
		return Record{}, b.saveErr
	}
	rec := Record{Day: id, Content: content, UpdatedAt: time.Now().UTC()}
	b.notes[id] = rec
	return rec, nil
}

func (b *fakeBackend) stored(id days.ID) (Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.notes[id]
	return r, ok
}
