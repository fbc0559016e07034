// Package editor implements the active edit session: the single selected
// day, its live content, and the debounced save policy that decides when
// that content is written.
//
// # State machine
//
//	            keystroke (≠ baseline)
//	  Idle ───────────────────────────────> Dirty ──┐ keystroke: re-arm
//	   ^                                      │ <───┘
//	   │ keystroke back to baseline           │ debounce fires
//	   └──────────────────────────────────────┤
//	                                          v
//	  Saved <──── newest write ok, ──────── Saving
//	              content unchanged           │
//	                                          ├── newest write ok, content changed ──> Dirty (re-armed)
//	                                          └── newest write failed ──> Failed (retry armed)
//
// Failed keeps both content and baseline. A keystroke moves it back to Dirty;
// otherwise a retry fires after an exponential backoff.
//
// # Staleness
//
// Every write carries the sequence number it was issued with. The session
// remembers the newest one. A result only changes the status if it belongs
// to that newest write, and it only marks the session clean if the content
// still equals what was written. Completion order on the wire does not
// matter.
//
// # Switching days
//
// SelectDay replaces the session wholesale. Dirty content of the outgoing
// day is written immediately. Writes still in flight for the outgoing day
// complete into the cache through the synchronizer; the editor keeps track
// of them per day so that a failure is retried in the background and so that
// selecting the day again picks up the unsaved text rather than the older
// cached copy.
//
// # Effects
//
// The package performs no I/O and never starts a timer. Each call returns
// Effects (writes to flush, an alarm to schedule, background retries) which
// the UI turns into tea.Cmds. This keeps every transition synchronous and
// testable without a clock.
package editor
