package wizard

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/appify/internal/session"
	"github.com/mark3labs/appify/internal/tui/theme"
)

// renderStepIndicator renders the numbered step row. Steps before current are
// marked done, current is highlighted and later steps are muted.
func renderStepIndicator(current session.Step, width int) string {
	t := theme.Current()
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success))
	active := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true)
	future := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface1)).Render(" ── ")

	var parts []string
	for _, st := range session.Steps {
		label := strconv.Itoa(int(st)+1) + " " + st.Title()
		switch {
		case st < current:
			parts = append(parts, done.Render("✓ "+st.Title()))
		case st == current:
			parts = append(parts, active.Render("● "+label))
		default:
			parts = append(parts, future.Render("○ "+label))
		}
	}
	row := strings.Join(parts, sep)
	if lipgloss.Width(row) > width {
		// Narrow terminals only get the current step.
		row = active.Render("Step " + strconv.Itoa(int(current)+1) + "/" + strconv.Itoa(len(session.Steps)) + ": " + current.Title())
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
}
