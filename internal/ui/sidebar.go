package ui

import (
	"slices"
	"strconv"
	"strings"

	"github.com/five82/daybook/internal/days"
)

// dayMarker summarizes what storage and the editor know about a day.
type dayMarker int

const (
	markerUnknown dayMarker = iota // not hydrated
	markerEmpty
	markerNote
	markerUnsynced
)

func (m Model) markerFor(id days.ID, unsynced []days.ID) dayMarker {
	st := m.editor.State()
	if st.Selected && st.Day == id && !st.Status.Clean() {
		return markerUnsynced
	}
	if slices.Contains(unsynced, id) {
		return markerUnsynced
	}
	if !m.cache.Known(id) {
		return markerUnknown
	}
	if rec, ok := m.cache.Get(id); ok && !rec.Empty() {
		return markerNote
	}
	return markerEmpty
}

func (d dayMarker) glyph() string {
	switch d {
	case markerNote:
		return "•"
	case markerUnsynced:
		return "*"
	case markerUnknown:
		return "?"
	default:
		return " "
	}
}

// renderSidebar renders the day window, most recent first.
func (m Model) renderSidebar(height int) string {
	styles := m.theme.Styles()
	width := m.sidebarWidth()
	inner := width - 2
	compact := m.width < LayoutCompactWidth

	selected := m.editor.State()
	unsynced := selected.Unsynced

	lines := make([]string, 0, len(m.window))
	for i, d := range m.window {
		label := d.Label
		if compact {
			label = strconv.Itoa(d.DayOfMonth)
		}
		marker := m.markerFor(d.ID, unsynced)
		text := padRight(truncate(label, inner-2), inner-2) + " " + marker.glyph()

		style := styles.Text
		switch {
		case i == m.cursor && m.focus == focusSidebar:
			style = styles.Selected
		case selected.Selected && d.ID == selected.Day:
			style = styles.AccentText
		case marker == markerUnknown:
			style = styles.FaintText
		}
		if marker == markerUnsynced && !(i == m.cursor && m.focus == focusSidebar) {
			style = styles.WarningText
		}
		lines = append(lines, style.Render(text))
	}

	pane := styles.Pane
	if m.focus == focusSidebar {
		pane = styles.FocusedPane
	}
	return pane.
		Width(inner).
		Height(maxInt(height-2, 1)).
		Render(strings.Join(lines, "\n"))
}

func (m Model) sidebarWidth() int {
	if m.width < LayoutCompactWidth {
		return compactSidebarWidth
	}
	return sidebarWidth
}
