// Package debounce provides a single-slot cancellable alarm.
//
// A Bubble Tea program cannot stop a tea.Tick once it has been scheduled, so
// cancellation works by generation: every Arm returns a new Token and makes
// all earlier tokens stale. When a tick arrives, Fire reports whether its
// token is still the live one.
//
//	tok := d.Arm()
//	cmd := tea.Tick(d.Interval(), func(time.Time) tea.Msg { return fireMsg{tok} })
//	...
//	case fireMsg:
//		if d.Fire(msg.tok) { save() }
package debounce

import "time"

const (
	// DefaultInterval is the quiet period before an edit is saved.
	DefaultInterval = time.Second

	// MaxBackoff caps the retry delay after repeated failures.
	MaxBackoff = 30 * time.Second
)

// Token identifies one arming of a Debouncer.
type Token uint64

// Debouncer is not safe for concurrent use; it belongs to the event loop.
type Debouncer struct {
	interval time.Duration
	current  Token
	armed    bool
}

// New returns a Debouncer with the given quiet period.
func New(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer{interval: interval}
}

// Interval returns the quiet period.
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}

// Arm schedules a new firing and cancels any pending one.
func (d *Debouncer) Arm() Token {
	d.current++
	d.armed = true
	return d.current
}

// Cancel drops the pending firing, if any.
func (d *Debouncer) Cancel() {
	d.current++
	d.armed = false
}

// Armed reports whether a firing is pending.
func (d *Debouncer) Armed() bool {
	return d.armed
}

// Fire consumes t. It returns true only for the most recent token of a
// still-armed Debouncer, and only once.
func (d *Debouncer) Fire(t Token) bool {
	if !d.armed || t != d.current {
		return false
	}
	d.armed = false
	return true
}

// Backoff returns the retry delay after the given number of consecutive
// failures: base doubled per failure beyond the first, capped at MaxBackoff.
func Backoff(failures int, base time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultInterval
	}
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= MaxBackoff {
			return MaxBackoff
		}
	}
	return delay
}
