package editor

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/five82/daybook/internal/days"
	"github.com/five82/daybook/internal/debounce"
	"github.com/five82/daybook/internal/notes"
)

// ErrNotHydrated is returned when selecting a day whose stored note has not
// been loaded yet. Opening it would show an empty editor that could later
// overwrite a real note.
var ErrNotHydrated = errors.New("day not loaded from storage")

// Source is the read side of the note cache.
type Source interface {
	Get(id days.ID) (notes.Record, bool)
	Known(id days.ID) bool
}

// Issuer stamps writes; *notes.Synchronizer implements it.
type Issuer interface {
	Issue(id days.ID, content string) notes.Write
}

// Alarm asks the caller to deliver Token back to Fire after the delay.
type Alarm struct {
	Token debounce.Token
	After time.Duration
}

// Retry asks the caller to call RetryBackground after the delay.
type Retry struct {
	Day   days.ID
	Seq   uint64
	After time.Duration
}

// Effects are the asynchronous actions an Editor call requests. The editor
// performs no I/O and starts no timers itself.
type Effects struct {
	Writes  []notes.Write
	Alarm   *Alarm
	Retries []Retry
}

// Empty reports whether there is nothing to do.
func (e Effects) Empty() bool {
	return len(e.Writes) == 0 && e.Alarm == nil && len(e.Retries) == 0
}

func (e *Effects) merge(other Effects) {
	e.Writes = append(e.Writes, other.Writes...)
	e.Retries = append(e.Retries, other.Retries...)
	if other.Alarm != nil {
		e.Alarm = other.Alarm
	}
}

// State is the observable editor state for rendering.
type State struct {
	Selected  bool
	Day       days.ID
	Content   string
	Status    Status
	LastSaved time.Time
	LastErr   error
	Failures  int
	// Unsynced lists days other than the selected one whose latest content
	// has not reached storage.
	Unsynced []days.ID
}

type pendingWrite struct {
	write    notes.Write
	failed   bool
	failures int
}

// Editor owns the active session and the debounce timer. All methods must be
// called from one goroutine (the Bubble Tea update loop).
type Editor struct {
	source  Source
	issuer  Issuer
	timer   *debounce.Debouncer
	logger  *slog.Logger
	session *Session

	// pending tracks, per day, the newest write that has not succeeded.
	pending map[days.ID]*pendingWrite
}

// Options configure an Editor.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// New returns an Editor with no day selected.
func New(source Source, issuer Issuer, opts Options) *Editor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		source:  source,
		issuer:  issuer,
		timer:   debounce.New(opts.Debounce),
		logger:  logger,
		pending: make(map[days.ID]*pendingWrite),
	}
}

// Session returns the active session, or nil before the first selection.
func (e *Editor) Session() *Session {
	return e.session
}

// SelectDay replaces the session with one for id. Unsaved edits of the
// outgoing session are written immediately rather than dropped.
func (e *Editor) SelectDay(id days.ID) (Effects, error) {
	if e.session != nil && e.session.day == id {
		return Effects{}, nil
	}
	if !e.source.Known(id) {
		return Effects{}, ErrNotHydrated
	}

	fx := e.Flush()
	e.timer.Cancel()

	rec, _ := e.source.Get(id)
	if rec.Day == "" {
		rec.Day = id
	}
	s := newSession(id, rec)
	if p, ok := e.pending[id]; ok {
		s.adopt(p.write, p.failed, p.failures)
		if p.failed {
			fx.Alarm = e.retryAlarm(p.failures)
		}
	}
	e.session = s

	e.logger.Debug("day selected",
		slog.String("day", id.String()),
		slog.String("status", s.status.String()),
		slog.Int("bytes", len(s.content)))
	return fx, nil
}

// UpdateContent applies a keystroke's resulting text.
func (e *Editor) UpdateContent(text string) Effects {
	if e.session == nil || text == e.session.content {
		return Effects{}
	}
	if !e.session.edit(text) {
		e.timer.Cancel()
		delete(e.pending, e.session.day)
		return Effects{}
	}
	return Effects{Alarm: &Alarm{Token: e.timer.Arm(), After: e.timer.Interval()}}
}

// Fire handles a debounce or retry alarm. Stale tokens are ignored.
func (e *Editor) Fire(tok debounce.Token) Effects {
	if !e.timer.Fire(tok) || e.session == nil || !e.session.needsWrite() {
		return Effects{}
	}
	return Effects{Writes: []notes.Write{e.issue()}}
}

// Flush writes the session content now if it has unsaved edits.
func (e *Editor) Flush() Effects {
	if e.session == nil || !e.session.needsWrite() {
		return Effects{}
	}
	e.timer.Cancel()
	return Effects{Writes: []notes.Write{e.issue()}}
}

func (e *Editor) issue() notes.Write {
	s := e.session
	w := e.issuer.Issue(s.day, s.content)
	s.issue(w)
	failures := 0
	if p, ok := e.pending[s.day]; ok {
		failures = p.failures
	}
	e.pending[s.day] = &pendingWrite{write: w, failures: failures}
	return w
}

// Resolve folds a completed write back into the editor. The cache has
// already been updated by the synchronizer; this only decides what the
// session status becomes and whether anything must be retried.
func (e *Editor) Resolve(res notes.Result) Effects {
	w := res.Write
	attrs := []any{
		slog.String("day", w.Day.String()),
		slog.Uint64("seq", w.Seq),
	}

	p := e.pending[w.Day]
	latest := p != nil && p.write.Seq == w.Seq
	switch {
	case res.Err != nil:
		e.logger.Warn("note save failed", append(attrs,
			slog.Bool("timeout", notes.IsTimeout(res.Err)),
			slog.String("error", res.Err.Error()))...)
		if latest {
			p.failed = true
			p.failures++
		}
	case res.Superseded:
		e.logger.Debug("note save superseded", attrs...)
	default:
		if latest {
			delete(e.pending, w.Day)
		}
	}

	s := e.session
	if s == nil || s.day != w.Day {
		if latest && p.failed {
			return Effects{Retries: []Retry{{
				Day:   w.Day,
				Seq:   w.Seq,
				After: debounce.Backoff(p.failures-1, e.timer.Interval()),
			}}}
		}
		return Effects{}
	}

	switch s.resolve(res) {
	case outcomeRearm:
		return Effects{Alarm: &Alarm{Token: e.timer.Arm(), After: e.timer.Interval()}}
	case outcomeRetry:
		return Effects{Alarm: e.retryAlarm(s.failures)}
	}
	if s.status.Clean() {
		e.timer.Cancel()
	}
	return Effects{}
}

func (e *Editor) retryAlarm(failures int) *Alarm {
	return &Alarm{
		Token: e.timer.Arm(),
		After: debounce.Backoff(failures-1, e.timer.Interval()),
	}
}

// RetryBackground re-issues a failed write for a day that is no longer
// selected. It is a no-op when the write was superseded or the day has been
// selected again (the session then owns the retry).
func (e *Editor) RetryBackground(id days.ID, seq uint64) Effects {
	p, ok := e.pending[id]
	if !ok || !p.failed || p.write.Seq != seq {
		return Effects{}
	}
	if e.session != nil && e.session.day == id {
		return Effects{}
	}
	w := e.issuer.Issue(id, p.write.Content)
	e.pending[id] = &pendingWrite{write: w, failures: p.failures}
	e.logger.Info("retrying note save", slog.String("day", id.String()), slog.Int("attempt", p.failures+1))
	return Effects{Writes: []notes.Write{w}}
}

// Drain issues a write for every day whose latest content is not confirmed
// in storage, including days with a write still in flight. Re-writing the
// same content is harmless and the newer issue wins. Call it once the update
// loop has stopped; after the writes resolve, Pending reports exactly what
// could not be saved.
func (e *Editor) Drain() Effects {
	var fx Effects
	if s := e.session; s != nil && !s.status.Clean() {
		e.timer.Cancel()
		fx.Writes = append(fx.Writes, e.issue())
	}
	ids := make([]days.ID, 0, len(e.pending))
	for id := range e.pending {
		if e.session == nil || e.session.day != id {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		p := e.pending[id]
		w := e.issuer.Issue(id, p.write.Content)
		e.pending[id] = &pendingWrite{write: w, failures: p.failures}
		fx.Writes = append(fx.Writes, w)
	}
	return fx
}

// Pending reports whether any content has not reached storage yet.
func (e *Editor) Pending() bool {
	if len(e.pending) > 0 {
		return true
	}
	return e.session != nil && !e.session.status.Clean()
}

// State returns the observable state.
func (e *Editor) State() State {
	var st State
	for id := range e.pending {
		if e.session == nil || id != e.session.day {
			st.Unsynced = append(st.Unsynced, id)
		}
	}
	slices.Sort(st.Unsynced)
	if e.session == nil {
		return st
	}
	s := e.session
	st.Selected = true
	st.Day = s.day
	st.Content = s.content
	st.Status = s.status
	st.LastSaved = s.lastSaved
	st.LastErr = s.lastErr
	st.Failures = s.failures
	return st
}
