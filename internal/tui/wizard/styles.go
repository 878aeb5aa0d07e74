package wizard

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/appify/internal/tui/theme"
)

// Modal styles
var (
	styleModalContainer lipgloss.Style
	styleModalTitle     lipgloss.Style
	styleSectionLabel   lipgloss.Style
	styleHelp           lipgloss.Style
	styleError          lipgloss.Style
	styleOK             lipgloss.Style
)

// Hint bar styles
var (
	styleHintKey       lipgloss.Style
	styleHintDesc      lipgloss.Style
	styleHintSeparator lipgloss.Style
)

func init() {
	buildStyles(theme.Current())
}

// buildStyles derives the package styles from t.
func buildStyles(t *theme.Theme) {
	styleModalContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Secondary)).
		Padding(1, 2)

	styleModalTitle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Primary)).
		Bold(true)

	styleSectionLabel = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Bold(true)

	styleHelp = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted))

	styleError = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Error))

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Success))

	styleHintKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgSubtle)).
		Bold(true)

	styleHintDesc = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted))

	styleHintSeparator = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.BgSurface1))
}

// newInput returns a text input styled like the rest of the wizard.
func newInput(placeholder string, width int) textinput.Model {
	t := theme.Current()
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgOverlay)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	in.SetWidth(width)
	return in
}

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("↑↓", "navigate", "enter", "select", "esc", "back")
// Returns: "↑↓ navigate • enter select • esc back"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + styleHintSeparator.Render("•") + " "
		}
		result += styleHintKey.Render(pairs[i]) + " " + styleHintDesc.Render(pairs[i+1])
	}

	return result
}

// field renders a labelled input row.
func field(label, input string, focused bool) string {
	marker := "  "
	if focused {
		marker = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary)).Render("▸ ")
	}
	return marker + styleSectionLabel.Render(label) + "\n  " + input
}
