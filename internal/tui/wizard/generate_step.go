package wizard

import (
	"strings"

	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/appify/internal/preview"
	"github.com/mark3labs/appify/internal/qr"
	"github.com/mark3labs/appify/internal/session"
	"github.com/mark3labs/appify/internal/tui/theme"
)

// Tab identifies a pane of the generate step.
type Tab int

const (
	TabPreview Tab = iota
	TabDetails
	TabQR
	TabDownload
)

func (t Tab) String() string {
	switch t {
	case TabPreview:
		return "Preview"
	case TabDetails:
		return "Details"
	case TabQR:
		return "QR Code"
	case TabDownload:
		return "Download"
	default:
		return ""
	}
}

// GenerateStep runs the simulated build and hands the result off.
type GenerateStep struct {
	sess          *session.Session
	preview       *preview.Model
	qr            qr.Service
	baseURL       string
	packagePrefix string

	tab     Tab
	details viewport.Model
	bar     progress.Model
	width   int
	height  int
}

// NewGenerateStep creates the generate step for sess. The preview model is
// shared with the wizard.
func NewGenerateStep(sess *session.Session, pv *preview.Model, svc qr.Service, baseURL, packagePrefix string) *GenerateStep {
	s := &GenerateStep{
		sess:          sess,
		preview:       pv,
		qr:            svc,
		baseURL:       baseURL,
		packagePrefix: packagePrefix,
		details: viewport.New(
			viewport.WithWidth(60),
			viewport.WithHeight(10),
		),
		bar:    progress.New(progress.WithWidth(40)),
		width:  60,
		height: 20,
	}
	s.refreshDetails()
	return s
}

// Init does nothing.
func (s *GenerateStep) Init() tea.Cmd { return nil }

// Focus refreshes the details tab for the current configuration.
func (s *GenerateStep) Focus() tea.Cmd {
	s.refreshDetails()
	return nil
}

// Blur does nothing.
func (s *GenerateStep) Blur() {}

// SetSize updates the available space.
func (s *GenerateStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.details.SetWidth(width)
	s.details.SetHeight(max(height-6, 3))
	s.bar = progress.New(progress.WithWidth(max(min(width-12, 60), 10)))
	s.refreshDetails()
}

func (s *GenerateStep) refreshDetails() {
	s.details.SetContent(renderDetails(s.sess.Config(), s.packagePrefix, s.width))
	s.details.GotoTop()
}

// Tab returns the active tab.
func (s *GenerateStep) Tab() Tab { return s.tab }

// Tabs returns the tabs available in the current state.
func (s *GenerateStep) Tabs() []Tab {
	if s.sess.Complete() {
		return []Tab{TabPreview, TabDetails, TabQR, TabDownload}
	}
	return []Tab{TabPreview, TabDetails}
}

// ShowResult switches to the QR tab once generation completes.
func (s *GenerateStep) ShowResult() {
	s.tab = TabQR
}

// ShowProgress switches back to the preview when a run starts.
func (s *GenerateStep) ShowProgress() {
	s.tab = TabPreview
}

// tabIndex returns the position of the active tab in tabs, or -1.
func (s *GenerateStep) tabIndex(tabs []Tab) int {
	for i, t := range tabs {
		if t == s.tab {
			return i
		}
	}
	return -1
}

// clampTab falls back to the first tab when the active one is unavailable.
func (s *GenerateStep) clampTab() {
	tabs := s.Tabs()
	if s.tabIndex(tabs) < 0 {
		s.tab = tabs[0]
	}
}

func (s *GenerateStep) cycleTab(dir int) {
	tabs := s.Tabs()
	idx := s.tabIndex(tabs)
	if idx < 0 {
		s.tab = tabs[0]
		return
	}
	s.tab = tabs[(idx+dir+len(tabs))%len(tabs)]
}

// Update handles tab switching and the generate, save and download actions.
func (s *GenerateStep) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "tab", "right":
		s.cycleTab(1)
		return nil
	case "shift+tab", "left":
		s.cycleTab(-1)
		return nil
	case "enter":
		if s.sess.Complete() {
			return s.tabAction()
		}
		if !s.sess.Generating() {
			return func() tea.Msg { return StartGenerationMsg{} }
		}
		return nil
	case "g":
		if !s.sess.Generating() {
			return func() tea.Msg { return StartGenerationMsg{} }
		}
		return nil
	case "s":
		if s.sess.Complete() {
			return func() tea.Msg { return SaveQRMsg{} }
		}
		return nil
	case "d":
		if s.sess.Complete() {
			return func() tea.Msg { return DownloadMsg{} }
		}
		return nil
	}

	if s.tab == TabDetails {
		var cmd tea.Cmd
		s.details, cmd = s.details.Update(msg)
		return cmd
	}
	return nil
}

func (s *GenerateStep) tabAction() tea.Cmd {
	switch s.tab {
	case TabQR:
		return func() tea.Msg { return SaveQRMsg{} }
	case TabDownload:
		return func() tea.Msg { return DownloadMsg{} }
	}
	return nil
}

// View renders the step.
func (s *GenerateStep) View() string {
	s.clampTab()
	var b strings.Builder
	b.WriteString(s.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(s.renderTabs())
	b.WriteString("\n\n")
	switch s.tab {
	case TabPreview:
		b.WriteString(s.preview.View())
	case TabDetails:
		b.WriteString(s.details.View())
	case TabQR:
		b.WriteString(s.renderQR())
	case TabDownload:
		b.WriteString(s.renderDownload())
	}
	return b.String()
}

func (s *GenerateStep) renderStatus() string {
	name := s.sess.Config().DisplayName()
	switch {
	case s.sess.Generating():
		return styleSectionLabel.Render("  Generating "+name+"...") + "\n  " +
			s.bar.ViewAs(s.sess.Progress()/100)
	case s.sess.Complete():
		return styleOK.Render("  ✓ "+name+" is ready") + "\n  " +
			styleHelp.Render("App ID: "+s.sess.AppID())
	default:
		return styleSectionLabel.Render("  Ready to generate "+name) + "\n  " +
			styleHelp.Render("Press enter to build your Android app.")
	}
}

func (s *GenerateStep) renderTabs() string {
	t := theme.Current()
	active := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.Primary)).
		Bold(true).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).
		Padding(0, 1)

	var parts []string
	for _, tab := range s.Tabs() {
		if tab == s.tab {
			parts = append(parts, active.Render(tab.String()))
		} else {
			parts = append(parts, inactive.Render(tab.String()))
		}
	}
	return "  " + strings.Join(parts, " ")
}

func (s *GenerateStep) renderQR() string {
	published := s.sess.PublishedURL(s.baseURL)
	img := s.qr.ImageURL(published)
	w := max(s.width-4, 20)

	var b strings.Builder
	b.WriteString(styleSectionLabel.Render("  Scan to test on your device"))
	b.WriteString("\n\n")
	b.WriteString("  " + styleHelp.Render("App URL  ") + ansi.Truncate(published, w-9, "…") + "\n")
	b.WriteString("  " + styleHelp.Render("QR Image ") + ansi.Truncate(img, w-9, "…") + "\n\n")
	b.WriteString("  " + renderHintBar("s", "save QR code", "d", "download APK"))
	return b.String()
}

func (s *GenerateStep) renderDownload() string {
	var b strings.Builder
	b.WriteString(styleSectionLabel.Render("  Download APK"))
	b.WriteString("\n\n")
	b.WriteString("  " + styleHelp.Render("Package ") + s.sess.Config().PackageID(s.packagePrefix) + "\n\n")
	b.WriteString("  " + renderHintBar("enter", "download", "d", "download"))
	return b.String()
}

// Hints returns the key hints for the step.
func (s *GenerateStep) Hints() []string {
	switch {
	case s.sess.Generating():
		return []string{"tab", "switch tab", "ctrl+r", "reset", "ctrl+c", "quit"}
	case s.sess.Complete():
		return []string{"tab", "switch tab", "s", "save QR", "d", "download", "g", "regenerate", "esc", "back"}
	default:
		return []string{"enter", "generate", "tab", "switch tab", "esc", "back", "ctrl+r", "reset"}
	}
}
