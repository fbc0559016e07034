// Package ui provides the Bubble Tea terminal interface for Daybook.
//
// # Layout
//
//	┌ header: app name, today, storage health, unsynced days ┐
//	│ day sidebar │ editor pane (textarea for the open day)   │
//	└ footer: save status, word and character counts, help   ┘
//
// # Message Flow
//
// The Model never blocks. Storage work runs in tea.Cmd goroutines and
// reports back as messages:
//
//   - tickMsg: re-evaluates the day window; a changed window (midnight) or
//     a due hydration retry starts a hydrateCmd
//   - hydratedMsg: result of notes.Cache.Hydrate; the first success opens
//     today
//   - debounceMsg / retryMsg: timer expiries requested by editor.Effects
//   - writeResultMsg: a notes.Synchronizer.Flush result, fed to
//     editor.Editor.Resolve
//
// Every editor call returns editor.Effects which apply() turns into
// flush, alarm and retry commands. Every write the editor issues is
// flushed by exactly one command.
//
// # Quitting
//
// q (from the day list) or ctrl+c flushes the open session and quits once nothing is pending.
// A second request quits immediately; internal/app then makes a final
// synchronous flush attempt.
//
// # Hydration Failures
//
// If the window read fails the header shows "Storage unavailable". Days
// that were never loaded cannot be opened and are marked "?" in the
// sidebar. The tick retries with backoff (2s doubling, capped at 30s); r
// retries at once.
//
// # Sidebar Markers
//
//   - "•" the day has a saved note
//   - "*" the day has text that has not reached storage
//   - "?" the day could not be loaded
//
// # Testing
//
// app_test.go drives Model.Update directly. A harness runs every returned
// tea.Cmd, feeds storage and timer messages back in, and ignores widget
// timers such as cursor blink. A 1ms debounce keeps the tests fast.
//
// # Preferences
//
// T cycles the theme (Nightfox, Kanagawa, Slate) and s toggles the footer
// statistics. Both are persisted through internal/prefs.
package ui
