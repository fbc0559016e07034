package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the sidebar shows
	// only the day of month.
	LayoutCompactWidth = 70

	// sidebarWidth is the full sidebar width including its border.
	sidebarWidth = 18

	// compactSidebarWidth is the sidebar width in compact mode.
	compactSidebarWidth = 8

	// helpModalWidth is the width of the keyboard help overlay.
	helpModalWidth = 54
)

// Timing constants.
const (
	// DefaultUIInterval is the default interval for re-evaluating the day window.
	DefaultUIInterval = time.Second

	// DefaultLoadTimeout bounds a single hydration read.
	DefaultLoadTimeout = 5 * time.Second

	// hydrationRetryBase is the first delay before re-trying a failed hydration.
	hydrationRetryBase = 2 * time.Second
)
