package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/daybook/internal/days"
)

// renderHeader renders the top bar: app name, today, storage health.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("daybook", styles.Logo),
		bg.Render(m.window[0].Label, styles.MutedText),
	}

	st := m.cache.Status()
	switch {
	case st.LastError != nil:
		msg := "Storage unavailable"
		if st.ConsecutiveFailures > 1 {
			msg = fmt.Sprintf("Storage unavailable (%d attempts)", st.ConsecutiveFailures)
		}
		parts = append(parts, bg.Render(msg, styles.DangerText))
		if m.hydrating {
			parts = append(parts, bg.Render("Retrying...", styles.WarningText))
		} else {
			parts = append(parts, bg.Render("r to retry", styles.FaintText))
		}
	case m.hydrating:
		parts = append(parts, bg.Render("Loading...", styles.WarningText))
	}

	if unsynced := m.editor.State().Unsynced; len(unsynced) > 0 {
		parts = append(parts,
			bg.Render("Unsynced:", styles.MutedText)+bg.Space()+
				bg.Render(joinIDs(unsynced), styles.WarningText))
	}

	if m.notice != "" {
		parts = append(parts, bg.Render(truncate(m.notice, maxInt(m.width/2, 20)), styles.InfoText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

func joinIDs(ids []days.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
