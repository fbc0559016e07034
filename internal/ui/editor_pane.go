package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderEditor renders the note pane for the active session.
func (m Model) renderEditor(height int) string {
	styles := m.theme.Styles()
	width := maxInt(m.width-m.sidebarWidth(), 10)
	inner := width - 2

	pane := styles.Pane
	if m.focus == focusEditor {
		pane = styles.FocusedPane
	}
	pane = pane.Width(inner).Height(maxInt(height-2, 1))

	st := m.editor.State()
	if !st.Selected {
		msg := styles.MutedText.Render("Loading notes...")
		if m.cache.Status().LastError != nil {
			msg = styles.DangerText.Render("Notes could not be loaded.") + "\n" +
				styles.MutedText.Render("Press r to retry.")
		}
		return pane.Render(lipgloss.Place(inner, maxInt(height-2, 1), lipgloss.Center, lipgloss.Center, msg))
	}

	label := st.Day.String()
	if idx := m.selectedIndex(); idx >= 0 {
		label = m.window[idx].Label
	}
	title := styles.AccentText.Bold(true).Render(label)
	return pane.Render(title + "\n" + m.textarea.View())
}

// selectedIndex returns the window index of the active session's day, or -1.
func (m Model) selectedIndex() int {
	st := m.editor.State()
	if !st.Selected {
		return -1
	}
	for i, d := range m.window {
		if d.ID == st.Day {
			return i
		}
	}
	return -1
}

// editorInnerSize is the textarea size for a body of the given height.
func (m Model) editorInnerSize(bodyHeight int) (int, int) {
	width := maxInt(m.width-m.sidebarWidth()-2, 10)
	height := maxInt(bodyHeight-3, 1)
	return width, height
}
