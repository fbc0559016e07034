package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/five82/daybook/internal/days"
	"github.com/five82/daybook/internal/notes"
)

var errDiskFull = errors.New("disk full")

type memBackend struct {
	mu    sync.Mutex
	notes map[days.ID]notes.Record
	saves []notes.Write
	fail  bool
}

func (b *memBackend) LoadNotesForDays(_ context.Context, ids []days.ID) ([]notes.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []notes.Record
	for _, id := range ids {
		if r, ok := b.notes[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *memBackend) SaveNote(_ context.Context, id days.ID, content string) (notes.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saves = append(b.saves, notes.Write{Day: id, Content: content})
	if b.fail {
		return notes.Record{}, errDiskFull
	}
	rec := notes.Record{Day: id, Content: content, UpdatedAt: time.Now().UTC()}
	b.notes[id] = rec
	return rec, nil
}

type harness struct {
	t       *testing.T
	backend *memBackend
	cache   *notes.Cache
	syncer  *notes.Synchronizer
	ed      *Editor
}

const (
	d0 days.ID = "2026-10-14"
	d1 days.ID = "2026-10-13"
	d2 days.ID = "2026-10-12"
)

// newHarness hydrates a three-day window where only d1 has a note.
func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := &memBackend{notes: map[days.ID]notes.Record{
		d1: {Day: d1, Content: "hello", UpdatedAt: time.Date(2026, 10, 13, 20, 0, 0, 0, time.UTC)},
	}}
	cache := notes.NewCache()
	require.NoError(t, cache.Hydrate(context.Background(), backend, []days.ID{d0, d1, d2}))
	syncer := notes.NewSynchronizer(backend, cache, notes.SyncOptions{})
	return &harness{
		t:       t,
		backend: backend,
		cache:   cache,
		syncer:  syncer,
		ed:      New(cache, syncer, Options{Debounce: time.Second}),
	}
}

func (h *harness) selectDay(id days.ID) Effects {
	h.t.Helper()
	fx, err := h.ed.SelectDay(id)
	require.NoError(h.t, err)
	return fx
}

// fire delivers the alarm from fx, as the tea.Tick would after its delay.
func (h *harness) fire(fx Effects) Effects {
	h.t.Helper()
	require.NotNil(h.t, fx.Alarm, "expected an alarm")
	return h.ed.Fire(fx.Alarm.Token)
}

// flush runs a write to completion without resolving it in the editor.
func (h *harness) flush(w notes.Write) notes.Result {
	return h.syncer.Flush(context.Background(), w)
}

// settle flushes and resolves every write in fx, returning the merged
// effects of the resolutions.
func (h *harness) settle(fx Effects) Effects {
	var out Effects
	for _, w := range fx.Writes {
		out.merge(h.ed.Resolve(h.flush(w)))
	}
	return out
}

func (h *harness) saveCount() int {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	return len(h.backend.saves)
}

func (h *harness) setFail(v bool) {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	h.backend.fail = v
}
