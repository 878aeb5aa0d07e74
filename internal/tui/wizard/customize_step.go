package wizard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/mark3labs/appify/internal/tui/theme"
)

// Splash duration bounds and step, in milliseconds.
const (
	SplashMinMs  = 500
	SplashMaxMs  = 5000
	SplashStepMs = 250
)

type rowKind int

const (
	rowToggle rowKind = iota
	rowSplash
	rowCache
	rowScreen
)

type customizeRow struct {
	label    string
	kind     rowKind
	flag     func(*appconfig.Configuration) *bool
	advanced bool
}

var customizeRows = []customizeRow{
	{label: "Full Screen", flag: func(c *appconfig.Configuration) *bool { return &c.Features.FullScreen }},
	{label: "Offline Support", flag: func(c *appconfig.Configuration) *bool { return &c.Features.OfflineSupport }},
	{label: "Splash Screen", flag: func(c *appconfig.Configuration) *bool { return &c.Features.SplashScreen }},
	{label: "Push Notifications", flag: func(c *appconfig.Configuration) *bool { return &c.Features.PushNotifications }},
	{label: "Landscape Mode", flag: func(c *appconfig.Configuration) *bool { return &c.Features.Landscape }},
	{label: "Show Status Bar", flag: func(c *appconfig.Configuration) *bool { return &c.Features.ShowStatusBar }},
	{label: "Minify Code", advanced: true, flag: func(c *appconfig.Configuration) *bool { return &c.Advanced.MinifyCode }},
	{label: "Optimize Images", advanced: true, flag: func(c *appconfig.Configuration) *bool { return &c.Advanced.OptimizeImages }},
	{label: "Add Analytics", advanced: true, flag: func(c *appconfig.Configuration) *bool { return &c.Advanced.AddAnalytics }},
	{label: "Deep Links", advanced: true, flag: func(c *appconfig.Configuration) *bool { return &c.Advanced.DeepLinks }},
	{label: "Obfuscate Code", advanced: true, flag: func(c *appconfig.Configuration) *bool { return &c.Advanced.ObfuscateCode }},
	{label: "Auto Update", advanced: true, flag: func(c *appconfig.Configuration) *bool { return &c.Advanced.AutoUpdate }},
	{label: "Splash Duration", advanced: true, kind: rowSplash},
	{label: "Cache Strategy", advanced: true, kind: rowCache},
	{label: "Preview Size", kind: rowScreen},
}

// CustomizeStep toggles feature flags and advanced build settings.
type CustomizeStep struct {
	cfg    *appconfig.Configuration
	rows   []customizeRow
	cursor int
	width  int
}

// NewCustomizeStep creates the customization step editing cfg. Advanced rows
// are only listed in enterprise mode.
func NewCustomizeStep(cfg *appconfig.Configuration) *CustomizeStep {
	s := &CustomizeStep{cfg: cfg, width: 60}
	for _, r := range customizeRows {
		if r.advanced && !cfg.Enterprise {
			continue
		}
		s.rows = append(s.rows, r)
	}
	return s
}

// Init does nothing.
func (s *CustomizeStep) Init() tea.Cmd { return nil }

// Focus does nothing; the list is always active.
func (s *CustomizeStep) Focus() tea.Cmd { return nil }

// Blur does nothing.
func (s *CustomizeStep) Blur() {}

// SetSize updates the available space.
func (s *CustomizeStep) SetSize(width, height int) { s.width = width }

// Cursor returns the selected row index.
func (s *CustomizeStep) Cursor() int { return s.cursor }

// Update handles list navigation and edits.
func (s *CustomizeStep) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	row := s.rows[s.cursor]
	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
	case "space", " ", "x":
		s.activate(row, 1)
	case "right", "l", "+":
		s.activate(row, 1)
	case "left", "h", "-":
		s.activate(row, -1)
	case "enter":
		return func() tea.Msg { return NextStepMsg{} }
	}
	return nil
}

func (s *CustomizeStep) activate(row customizeRow, dir int) {
	switch row.kind {
	case rowToggle:
		p := row.flag(s.cfg)
		*p = !*p
	case rowSplash:
		d := s.cfg.Advanced.SplashDurationMs + dir*SplashStepMs
		s.cfg.Advanced.SplashDurationMs = min(max(d, SplashMinMs), SplashMaxMs)
	case rowCache:
		if dir > 0 {
			s.cfg.Advanced.CacheStrategy = s.cfg.Advanced.CacheStrategy.Next()
		} else {
			s.cfg.Advanced.CacheStrategy = prevCache(s.cfg.Advanced.CacheStrategy)
		}
	case rowScreen:
		if dir > 0 {
			s.cfg.ScreenSize = s.cfg.ScreenSize.Next()
		} else {
			s.cfg.ScreenSize = s.cfg.ScreenSize.Next().Next()
		}
	}
}

func prevCache(c appconfig.CacheStrategy) appconfig.CacheStrategy {
	for i, s := range appconfig.CacheStrategies {
		if s == c {
			n := len(appconfig.CacheStrategies)
			return appconfig.CacheStrategies[(i+n-1)%n]
		}
	}
	return appconfig.CacheNetworkFirst
}

func (s *CustomizeStep) value(row customizeRow) string {
	t := theme.Current()
	switch row.kind {
	case rowSplash:
		return fmt.Sprintf("‹ %d ms ›", s.cfg.Advanced.SplashDurationMs)
	case rowCache:
		return "‹ " + string(s.cfg.Advanced.CacheStrategy) + " ›"
	case rowScreen:
		return "‹ " + string(s.cfg.ScreenSize) + " ›"
	}
	if *row.flag(s.cfg) {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Render("[x]")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).Render("[ ]")
}

// View renders the step.
func (s *CustomizeStep) View() string {
	t := theme.Current()
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase))

	var b strings.Builder
	b.WriteString(styleSectionLabel.Render("  Features"))
	b.WriteString("\n")
	inAdvanced := false
	for i, row := range s.rows {
		if row.advanced && !inAdvanced {
			inAdvanced = true
			b.WriteString("\n")
			b.WriteString(styleSectionLabel.Render("  Advanced"))
			b.WriteString("\n")
		}
		if !row.advanced && inAdvanced {
			inAdvanced = false
			b.WriteString("\n")
		}
		marker := "  "
		label := labelStyle.Render(row.label)
		if i == s.cursor {
			marker = cursorStyle.Render("▸ ")
			label = cursorStyle.Render(row.label)
		}
		b.WriteString(marker + label + strings.Repeat(" ", max(22-lipgloss.Width(row.label), 1)) + s.value(row) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Hints returns the key hints for the step.
func (s *CustomizeStep) Hints() []string {
	return []string{"↑↓", "move", "space", "toggle", "←→", "change", "enter", "next", "esc", "back"}
}
