package days

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical identifier format.
const Layout = "2006-01-02"

// DefaultWindow is the number of days shown when no size is configured.
const DefaultWindow = 7

// ID is a canonical day identifier (YYYY-MM-DD, local calendar).
type ID string

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Day is one entry of the visible window.
type Day struct {
	ID         ID
	Label      string
	DayOfMonth int
}

// FromTime normalizes t to its local calendar date.
func FromTime(t time.Time) ID {
	return ID(t.Local().Format(Layout))
}

// Today returns the identifier for the local date of now.
func Today(now time.Time) ID {
	return FromTime(now)
}

// Parse validates and canonicalizes a user-supplied identifier.
func Parse(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	t, err := time.ParseInLocation(Layout, trimmed, time.Local)
	if err != nil {
		return "", fmt.Errorf("parse day %q: want YYYY-MM-DD", value)
	}
	return ID(t.Format(Layout)), nil
}

// Window returns the trailing n days ending at the local date of now, most
// recent first. A non-positive n uses DefaultWindow.
func Window(now time.Time, n int) []Day {
	if n <= 0 {
		n = DefaultWindow
	}
	local := now.Local()
	// Anchor on noon so DST transitions never skip or repeat a date.
	anchor := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, time.Local)

	out := make([]Day, n)
	for i := 0; i < n; i++ {
		d := anchor.AddDate(0, 0, -i)
		out[i] = Day{
			ID:         ID(d.Format(Layout)),
			Label:      d.Format("Mon Jan 2"),
			DayOfMonth: d.Day(),
		}
	}
	return out
}

// IDs extracts the identifiers of a window in order.
func IDs(window []Day) []ID {
	ids := make([]ID, len(window))
	for i, d := range window {
		ids[i] = d.ID
	}
	return ids
}

// SameIDs reports whether two windows cover the same set of days.
func SameIDs(a, b []Day) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[ID]struct{}, len(a))
	for _, d := range a {
		seen[d.ID] = struct{}{}
	}
	for _, d := range b {
		if _, ok := seen[d.ID]; !ok {
			return false
		}
	}
	return true
}

// Index returns the position of id in window, or -1.
func Index(window []Day, id ID) int {
	for i, d := range window {
		if d.ID == id {
			return i
		}
	}
	return -1
}
