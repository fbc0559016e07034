package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/daybook/internal/editor"
	"github.com/five82/daybook/internal/notes"
)

// renderFooter renders the save status and note statistics.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	st := m.editor.State()

	var parts []string
	if st.Selected {
		parts = append(parts, m.statusText(st, styles, bg))
		if !m.prefs.HideStats {
			parts = append(parts, bg.Render(
				fmt.Sprintf("%s words  %s chars",
					humanize.Comma(int64(wordCount(st.Content))),
					humanize.Comma(int64(charCount(st.Content)))),
				styles.MutedText))
		}
	}
	parts = append(parts, bg.Render("? help", styles.FaintText))

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Padding(0, 1).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

func (m Model) statusText(st editor.State, styles Styles, bg BgStyle) string {
	style := styles.StatusText(st.Status.String()).Background(bg.Color())
	switch st.Status {
	case editor.StatusDirty:
		return bg.Render("Unsaved changes", style)
	case editor.StatusSaving:
		return m.spinner.View() + bg.Space() + bg.Render("Saving...", style)
	case editor.StatusSaved:
		return bg.Render("Saved "+humanize.Time(st.LastSaved), style)
	case editor.StatusFailed:
		msg := "Save failed"
		if notes.IsTimeout(st.LastErr) {
			msg = "Save timed out"
		}
		if st.Failures > 1 {
			msg = fmt.Sprintf("%s (%d attempts)", msg, st.Failures)
		}
		return bg.Render(msg+", retrying", style.Bold(true))
	default:
		if !st.LastSaved.IsZero() {
			return bg.Render("Saved "+humanize.Time(st.LastSaved), style)
		}
		return bg.Render("No changes", style)
	}
}
