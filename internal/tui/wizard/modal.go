package wizard

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/mark3labs/appify/internal/session"
	"github.com/mark3labs/appify/internal/tui/theme"
)

// maxDiffLines bounds the diff preview inside the reset modal.
const maxDiffLines = 12

// ResetModal asks the user to confirm a wizard reset and shows what would be
// lost as a diff against the baseline configuration.
type ResetModal struct {
	visible bool
	diff    string
}

// NewResetModal creates a hidden reset modal.
func NewResetModal() *ResetModal {
	return &ResetModal{}
}

// Show opens the modal for cfg, diffed against base.
func (m *ResetModal) Show(cfg *appconfig.Configuration, base appconfig.Configuration) {
	diff, err := cfg.ChangesFrom(base)
	if err != nil {
		log.Warn("diffing configuration: %v", err)
		diff = ""
	}
	m.diff = diff
	m.visible = true
}

// Hide closes the modal.
func (m *ResetModal) Hide() {
	m.visible = false
	m.diff = ""
}

// IsVisible returns whether the modal is open.
func (m *ResetModal) IsVisible() bool { return m.visible }

// Render renders the modal box.
func (m *ResetModal) Render(maxWidth int) string {
	t := theme.Current()
	width := min(64, max(maxWidth-4, 20))

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Warning)).
		MarginBottom(1).
		Render("⚠ " + session.ResetTitle)

	message := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		MarginBottom(1).
		Render(ansi.Wrap(session.ResetMessage, width-6, ""))

	parts := []string{title, message}
	if m.diff == "" {
		parts = append(parts, styleHelp.Render("No changes from the defaults."))
	} else {
		parts = append(parts, styleSectionLabel.Render("Changes that will be lost:"), renderDiff(m.diff, width-6))
	}
	parts = append(parts, "", renderHintBar("y", "reset", "n/esc", "cancel"))

	return styleModalContainer.
		BorderForeground(lipgloss.Color(t.Warning)).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderDiff colors a unified diff, skipping file headers.
func renderDiff(diff string, width int) string {
	t := theme.Current()
	ins := lipgloss.NewStyle().Foreground(lipgloss.Color(t.DiffInsertFg))
	del := lipgloss.NewStyle().Foreground(lipgloss.Color(t.DiffDeleteFg))
	hunk := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))

	var out []string
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}
		line = ansi.Truncate(line, width, "…")
		switch {
		case strings.HasPrefix(line, "+"):
			out = append(out, ins.Render(line))
		case strings.HasPrefix(line, "-"):
			out = append(out, del.Render(line))
		default:
			out = append(out, hunk.Render(line))
		}
	}
	if len(out) > maxDiffLines {
		more := len(out) - maxDiffLines
		out = append(out[:maxDiffLines], hunk.Render("… "+strconv.Itoa(more)+" more"))
	}
	return strings.Join(out, "\n")
}
