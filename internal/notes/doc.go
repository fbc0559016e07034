// Package notes holds the day-indexed note cache and the synchronizer that
// writes notes to durable storage.
//
// # Cache
//
// Cache maps a day identifier to the last-known persisted Record. It is
// filled by Hydrate, one bulk read per visible window, and updated by the
// Synchronizer after every successful write. Entries are never evicted; the
// window is small and days that scroll out simply stop being looked up.
//
// Hydration replaces the window's entries rather than merging into them.
// Days the backend does not return are absent, which means "no note". A
// failed read leaves the cache untouched and is reported as a
// *HydrationError; the cache also remembers which days it has actually
// loaded so callers can tell "empty" from "unknown".
//
// # Synchronizer
//
// Issue stamps a Write with a sequence number at the moment its content is
// captured. Flush then performs the save, usually from a tea.Cmd goroutine:
//
//	w := syncer.Issue(day, content)
//	go func() { results <- syncer.Flush(ctx, w) }()
//
// Flushes for different days run in parallel. Flushes for the same day are
// serialized, and one that finds a later-issued write already persisted is
// skipped and marked Superseded. The later-issued write therefore wins both
// in storage and in the cache, whatever order the goroutines run in.
//
// Each save runs under a timeout. A deadline produces a *WriteError whose
// Timeout method returns true.
//
// # Hydration And Writes Together
//
// A write can land while a hydration read for the same day is still in
// flight. Cache entries carry a write stamp, and a hydration result never
// replaces an entry written after the read started:
//
//	t0  Hydrate starts (mark)
//	t1  Flush succeeds, Put stamps the entry
//	t2  Hydrate returns the pre-t1 row
//	    -> entry from t1 is kept
//
// # Error Handling
//
//   - *HydrationError: the bulk read failed; Status() records the attempt
//     and the consecutive failure count used for retry backoff
//   - *WriteError: one save failed; IsTimeout reports a deadline
//   - Result.Superseded: not an error, the write was made redundant
package notes
