package editor

import (
	"time"

	"github.com/five82/daybook/internal/days"
	"github.com/five82/daybook/internal/notes"
)

// Status is the save state of the active session.
type Status int

const (
	// StatusIdle means the content matches what was loaded.
	StatusIdle Status = iota
	// StatusDirty means there are edits that have not been written yet.
	StatusDirty
	// StatusSaving means a write for the current content is in flight.
	StatusSaving
	// StatusSaved means the last write succeeded and nothing changed since.
	StatusSaved
	// StatusFailed means the last write failed; the content is kept.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusDirty:
		return "dirty"
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Clean reports whether storage holds exactly the session content.
func (s Status) Clean() bool {
	return s == StatusIdle || s == StatusSaved
}

// Session is the edit state of the single selected day.
type Session struct {
	day      days.ID
	content  string
	baseline string
	status   Status

	issued   uint64 // seq of the newest write for this day
	settled  bool   // whether the newest write has resolved
	acked    uint64 // highest seq that reached storage
	failures int

	lastSaved time.Time
	lastErr   error
}

func newSession(day days.ID, rec notes.Record) *Session {
	return &Session{
		day:       day,
		content:   rec.Content,
		baseline:  rec.Content,
		status:    StatusIdle,
		settled:   true,
		lastSaved: rec.UpdatedAt,
	}
}

// Day returns the selected day.
func (s *Session) Day() days.ID { return s.day }

// Content returns the live editor content.
func (s *Session) Content() string { return s.content }

// Baseline returns the content as of the last successful save or load.
func (s *Session) Baseline() string { return s.baseline }

// Status returns the save state.
func (s *Session) Status() Status { return s.status }

func (s *Session) inflight() bool {
	return s.issued != 0 && !s.settled
}

// edit applies new content and reports whether a save is needed.
func (s *Session) edit(text string) bool {
	s.content = text
	if s.content != s.baseline || s.inflight() {
		s.status = StatusDirty
		return true
	}
	// Back to what storage holds: a failed write of other text is abandoned.
	s.status = StatusIdle
	s.failures = 0
	s.lastErr = nil
	return false
}

// needsWrite reports whether a debounce firing should issue a write.
func (s *Session) needsWrite() bool {
	return s.status == StatusDirty || s.status == StatusFailed
}

func (s *Session) issue(w notes.Write) {
	s.issued = w.Seq
	s.settled = false
	s.status = StatusSaving
}

// adopt takes over a write issued by an earlier session for the same day.
func (s *Session) adopt(w notes.Write, failed bool, failures int) {
	s.content = w.Content
	s.issued = w.Seq
	s.failures = failures
	if failed {
		s.settled = true
		s.status = StatusFailed
		return
	}
	s.settled = false
	s.status = StatusSaving
}

type outcome int

const (
	outcomeNone outcome = iota
	outcomeRearm
	outcomeRetry
)

// resolve folds a write result into the session. Status only follows the
// newest write; older results can advance the baseline but never mark the
// session clean.
func (s *Session) resolve(res notes.Result) outcome {
	newest := res.Write.Seq == s.issued
	if newest {
		s.settled = true
	}

	switch {
	case res.Superseded:
		return outcomeNone

	case res.Err != nil:
		if !newest {
			return outcomeNone
		}
		s.failures++
		s.lastErr = res.Err
		s.status = StatusFailed
		return outcomeRetry
	}

	if res.Write.Seq > s.acked {
		s.acked = res.Write.Seq
		s.baseline = res.Record.Content
		s.lastSaved = res.Record.UpdatedAt
	}
	if !newest {
		return outcomeNone
	}

	s.failures = 0
	s.lastErr = nil
	if s.content == s.baseline {
		s.status = StatusSaved
		return outcomeNone
	}
	s.status = StatusDirty
	return outcomeRearm
}
