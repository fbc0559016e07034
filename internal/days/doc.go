// Package days produces the rolling window of calendar days Daybook shows.
//
// A day is identified by its local calendar date in YYYY-MM-DD form. The
// identifier is the only key used by the note cache, the storage backend and
// the UI selection.
//
// The window is a pure function of the wall clock. Nothing in this package
// caches "today": callers evaluate Window on every render tick and compare
// the result with SameIDs, so the window advances on the first tick after
// local midnight without any timer of its own.
//
//	window := days.Window(time.Now(), 7)
//	// window[0] is today, window[6] is six days ago
package days
