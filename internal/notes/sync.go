package notes

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/daybook/internal/days"
)

// DefaultSaveTimeout bounds a single SaveNote call.
const DefaultSaveTimeout = 5 * time.Second

// Write is one save request. Seq orders writes by issuance.
type Write struct {
	Seq     uint64
	Day     days.ID
	Content string
}

// Result is the outcome of flushing a Write.
type Result struct {
	Write  Write
	Record Record
	// Superseded is set when a later-issued write for the same day had
	// already been persisted, so this one was skipped.
	Superseded bool
	Err        error
}

// OK reports whether the write reached storage.
func (r Result) OK() bool {
	return r.Err == nil && !r.Superseded
}

type dayLock struct {
	mu      sync.Mutex
	written uint64
}

// Synchronizer writes notes through the backend and folds successful
// results into the cache.
type Synchronizer struct {
	saver   Saver
	cache   *Cache
	timeout time.Duration
	logger  *slog.Logger

	seq      atomic.Uint64
	inflight sync.WaitGroup

	mu    sync.Mutex
	locks map[days.ID]*dayLock
}

// SyncOptions configure a Synchronizer.
type SyncOptions struct {
	Timeout time.Duration // zero uses DefaultSaveTimeout
	Logger  *slog.Logger  // nil uses slog.Default()
}

// NewSynchronizer returns a Synchronizer writing through saver into cache.
func NewSynchronizer(saver Saver, cache *Cache, opts SyncOptions) *Synchronizer {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultSaveTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		saver:   saver,
		cache:   cache,
		timeout: timeout,
		logger:  logger,
		locks:   make(map[days.ID]*dayLock),
	}
}

// Issue stamps a write with the next sequence number. Call it at the moment
// the content is captured; Flush may then run on any goroutine.
func (s *Synchronizer) Issue(id days.ID, content string) Write {
	return Write{Seq: s.seq.Add(1), Day: id, Content: content}
}

// Flush persists w. Writes for the same day run one at a time, and a write
// that was overtaken by a later-issued one that already landed is skipped.
// On success the cache entry for the day is replaced unconditionally.
func (s *Synchronizer) Flush(ctx context.Context, w Write) Result {
	s.inflight.Add(1)
	defer s.inflight.Done()

	lock := s.lockFor(w.Day)
	lock.mu.Lock()
	defer lock.mu.Unlock()

	if w.Seq < lock.written {
		s.logger.Debug("write superseded",
			slog.String("day", w.Day.String()),
			slog.Uint64("seq", w.Seq),
			slog.Uint64("written", lock.written))
		return Result{Write: w, Superseded: true}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	rec, err := s.saver.SaveNote(ctx, w.Day, w.Content)
	if err != nil {
		return Result{Write: w, Err: &WriteError{Day: w.Day, Err: err}}
	}

	rec.Day = w.Day
	rec.Content = w.Content
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	lock.written = w.Seq
	s.cache.Put(rec)

	s.logger.Debug("note saved",
		slog.String("day", w.Day.String()),
		slog.Uint64("seq", w.Seq),
		slog.Int("bytes", len(w.Content)),
		slog.Duration("took", time.Since(started)))
	return Result{Write: w, Record: rec}
}

// Wait blocks until every Flush that has started returns or ctx is done.
// Writes that were issued but never flushed are not waited for.
func (s *Synchronizer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Synchronizer) lockFor(id days.ID) *dayLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &dayLock{}
		s.locks[id] = l
	}
	return l
}
