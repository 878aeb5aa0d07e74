package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/appify/internal/appconfig"
)

// URLStep collects the website the app wraps.
type URLStep struct {
	cfg   *appconfig.Configuration
	input textinput.Model
	width int
}

// NewURLStep creates the URL step editing cfg.
func NewURLStep(cfg *appconfig.Configuration) *URLStep {
	in := newInput("https://example.com", 50)
	in.SetValue(cfg.TargetURL)
	return &URLStep{cfg: cfg, input: in, width: 60}
}

// Init returns the cursor blink command.
func (s *URLStep) Init() tea.Cmd {
	return textinput.Blink
}

// Focus focuses the URL input.
func (s *URLStep) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur removes focus from the URL input.
func (s *URLStep) Blur() {
	s.input.Blur()
}

// SetSize updates the available space.
func (s *URLStep) SetSize(width, height int) {
	s.width = width
	s.input.SetWidth(max(width-6, 10))
}

// Update handles typing and submission.
func (s *URLStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "enter" {
		return func() tea.Msg { return NextStepMsg{} }
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if v := s.input.Value(); v != s.cfg.TargetURL {
		s.cfg.SetTargetURL(strings.TrimSpace(v))
	}
	return cmd
}

// View renders the step.
func (s *URLStep) View() string {
	var b strings.Builder
	b.WriteString(styleHelp.Render("  Enter the address of the website to turn into an Android app."))
	b.WriteString("\n\n")
	b.WriteString(field("Website URL", s.input.View(), s.input.Focused()))
	b.WriteString("\n  ")
	switch {
	case s.cfg.TargetURL == "":
		b.WriteString(styleHelp.Render("Include the scheme, e.g. https://"))
	case s.cfg.URLValid:
		b.WriteString(styleOK.Render("✓ Valid URL"))
	default:
		b.WriteString(styleError.Render("✗ Not a valid http(s) URL"))
	}
	return b.String()
}

// Hints returns the key hints for the step.
func (s *URLStep) Hints() []string {
	return []string{"enter", "next", "ctrl+r", "reset", "ctrl+c", "quit"}
}
