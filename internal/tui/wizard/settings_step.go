package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/mark3labs/appify/internal/icon"
)

const (
	fieldName = iota
	fieldColor
	fieldIcon
	fieldCount
)

// SettingsStep edits the app name, brand color and icon.
type SettingsStep struct {
	cfg      *appconfig.Configuration
	inputs   [fieldCount]textinput.Model
	focus    int
	colorErr string
	iconErr  string
	preset   int // index into icon.Presets of the last picked preset, -1 if none
	width    int
}

// NewSettingsStep creates the settings step editing cfg.
func NewSettingsStep(cfg *appconfig.Configuration) *SettingsStep {
	s := &SettingsStep{cfg: cfg, preset: -1, width: 60}
	s.inputs[fieldName] = newInput(appconfig.DefaultDisplayName, 40)
	s.inputs[fieldName].CharLimit = 50
	s.inputs[fieldName].SetValue(cfg.AppName)

	s.inputs[fieldColor] = newInput(appconfig.DefaultPrimaryColor, 10)
	s.inputs[fieldColor].CharLimit = 7
	s.inputs[fieldColor].SetValue(cfg.PrimaryColor)

	s.inputs[fieldIcon] = newInput("URL, file path or preset-1..6", 40)
	if cfg.HasIcon() {
		s.inputs[fieldIcon].SetValue(icon.Label(cfg.IconRef))
	}
	return s
}

// Init returns the cursor blink command.
func (s *SettingsStep) Init() tea.Cmd {
	return textinput.Blink
}

// Focus focuses the current field.
func (s *SettingsStep) Focus() tea.Cmd {
	return s.inputs[s.focus].Focus()
}

// Blur blurs every field.
func (s *SettingsStep) Blur() {
	for i := range s.inputs {
		s.inputs[i].Blur()
	}
}

// SetSize updates the available space.
func (s *SettingsStep) SetSize(width, height int) {
	s.width = width
	s.inputs[fieldName].SetWidth(max(width-6, 10))
	s.inputs[fieldIcon].SetWidth(max(width-6, 10))
}

// Focused returns the focused field index.
func (s *SettingsStep) Focused() int { return s.focus }

func (s *SettingsStep) focusField(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = (i + fieldCount) % fieldCount
	return s.inputs[s.focus].Focus()
}

// Update handles field navigation and edits.
func (s *SettingsStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "tab", "down":
			return s.focusField(s.focus + 1)
		case "shift+tab", "up":
			return s.focusField(s.focus - 1)
		case "enter":
			if s.focus == fieldIcon {
				if !s.applyIcon() {
					return nil
				}
				return func() tea.Msg { return NextStepMsg{} }
			}
			return s.focusField(s.focus + 1)
		case "ctrl+p":
			if s.focus == fieldIcon {
				s.cyclePreset()
				return nil
			}
		case "ctrl+x":
			if s.focus == fieldIcon {
				s.cfg.IconRef = ""
				s.iconErr = ""
				s.preset = -1
				s.inputs[fieldIcon].SetValue("")
				return nil
			}
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	switch s.focus {
	case fieldName:
		s.cfg.AppName = s.inputs[fieldName].Value()
	case fieldColor:
		s.applyColor()
	}
	return cmd
}

// applyColor stores the color once it parses; partial input leaves the last
// valid color in place.
func (s *SettingsStep) applyColor() {
	raw := s.inputs[fieldColor].Value()
	if err := s.cfg.SetPrimaryColor(raw); err != nil {
		s.colorErr = "Use #rgb or #rrggbb"
		return
	}
	s.colorErr = ""
}

// applyIcon resolves the icon field. It reports false if the input could not
// be used.
func (s *SettingsStep) applyIcon() bool {
	raw := strings.TrimSpace(s.inputs[fieldIcon].Value())
	if raw == icon.Label(s.cfg.IconRef) && s.cfg.HasIcon() {
		return true
	}
	ref, err := icon.Resolve(raw)
	if err != nil {
		s.iconErr = err.Error()
		return false
	}
	s.cfg.IconRef = ref
	s.iconErr = ""
	if ref != "" {
		s.inputs[fieldIcon].SetValue(icon.Label(ref))
	}
	return true
}

func (s *SettingsStep) cyclePreset() {
	s.preset = (s.preset + 1) % len(icon.Presets)
	p := icon.Presets[s.preset]
	s.cfg.IconRef = p.Ref
	s.iconErr = ""
	s.inputs[fieldIcon].SetValue(p.Name)
	s.inputs[fieldIcon].CursorEnd()
}

// View renders the step.
func (s *SettingsStep) View() string {
	var b strings.Builder
	b.WriteString(field("App Name", s.inputs[fieldName].View(), s.focus == fieldName))
	b.WriteString("\n\n")

	swatch := lipgloss.NewStyle().Background(lipgloss.Color(s.cfg.PrimaryColor)).Render("    ")
	b.WriteString(field("Primary Color", swatch+"  "+s.inputs[fieldColor].View(), s.focus == fieldColor))
	if s.colorErr != "" {
		b.WriteString("\n  " + styleError.Render(s.colorErr))
	}
	b.WriteString("\n\n")

	b.WriteString(field("App Icon", s.inputs[fieldIcon].View(), s.focus == fieldIcon))
	b.WriteString("\n  ")
	switch {
	case s.iconErr != "":
		b.WriteString(styleError.Render(s.iconErr))
	default:
		b.WriteString(styleHelp.Render("Current: " + icon.Label(s.cfg.IconRef)))
	}
	return b.String()
}

// Hints returns the key hints for the step.
func (s *SettingsStep) Hints() []string {
	if s.focus == fieldIcon {
		return []string{"tab", "field", "ctrl+p", "preset", "ctrl+x", "remove", "enter", "apply", "esc", "back"}
	}
	return []string{"tab", "field", "ctrl+n", "next", "esc", "back", "ctrl+r", "reset"}
}
