package notes

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/five82/daybook/internal/days"
)

// HydrationStatus summarizes the outcome of recent hydrations.
type HydrationStatus struct {
	LastHydrated        time.Time
	LastAttempt         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Stale returns true when the latest hydration failed and the cache is
// serving older data (or nothing).
func (s HydrationStatus) Stale() bool {
	return s.LastError != nil
}

type entry struct {
	rec   Record
	stamp uint64
}

// Cache maps day identifiers to their last-known persisted note. Hydration
// and write completions run on different goroutines than the UI, so every
// access goes through the mutex.
type Cache struct {
	mu       sync.RWMutex
	entries  map[days.ID]entry
	hydrated map[days.ID]struct{}
	clock    uint64
	status   HydrationStatus

	group singleflight.Group
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries:  make(map[days.ID]entry),
		hydrated: make(map[days.ID]struct{}),
	}
}

// Get returns the cached record for id. A missing entry means no note.
func (c *Cache) Get(id days.ID) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e.rec, ok
}

// Known reports whether id has been covered by a successful hydration or a
// completed write. Absence from an unknown day is not evidence of "no note".
func (c *Cache) Known(id days.ID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.hydrated[id]; ok {
		return true
	}
	_, ok := c.entries[id]
	return ok
}

// Put records a completed write.
func (c *Cache) Put(rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock++
	c.entries[rec.Day] = entry{rec: rec, stamp: c.clock}
}

// Len returns the number of cached notes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot returns a copy of every cached record.
func (c *Cache) Snapshot() map[days.ID]Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[days.ID]Record, len(c.entries))
	for id, e := range c.entries {
		out[id] = e.rec
	}
	return out
}

// Status returns the hydration status.
func (c *Cache) Status() HydrationStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := c.status
	if c.status.LastError != nil {
		st.LastError = fmt.Errorf("%w", c.status.LastError)
	}
	return st
}

func (c *Cache) mark() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clock
}

// replace swaps the entries for ids with recs. Entries written after since
// are newer than the hydration read and are kept.
func (c *Cache) replace(ids []days.ID, recs []Record, since uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wanted := make(map[days.ID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
		c.hydrated[id] = struct{}{}
		if e, ok := c.entries[id]; ok && e.stamp <= since {
			delete(c.entries, id)
		}
	}
	for _, rec := range recs {
		if _, ok := wanted[rec.Day]; !ok {
			continue
		}
		if e, ok := c.entries[rec.Day]; ok && e.stamp > since {
			continue
		}
		c.entries[rec.Day] = entry{rec: rec, stamp: since}
	}

	now := time.Now()
	c.status.LastHydrated = now
	c.status.LastAttempt = now
	c.status.LastError = nil
	c.status.ConsecutiveFailures = 0
}

func (c *Cache) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.LastAttempt = time.Now()
	c.status.LastError = err
	c.status.ConsecutiveFailures++
}
