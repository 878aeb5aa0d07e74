// Package preview renders a phone-shaped mock of the app being built: a device
// frame sized by the configured screen size, showing the target site under an
// app header in the brand color.
package preview

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/mark3labs/appify/internal/icon"
	"github.com/mark3labs/appify/internal/logger"
	"github.com/mark3labs/appify/internal/tui/theme"
)

var log = logger.Named("preview")

// DefaultTimeout bounds a single page load.
const DefaultTimeout = 10 * time.Second

// DefaultDebounce is how long the target URL must stay unchanged before its
// page is fetched.
const DefaultDebounce = 300 * time.Millisecond

// Fixed preview texts.
const (
	PromptText  = "Enter a website URL to see a preview"
	LoadingText = "Loading preview..."
	StatusTime  = "9:41"
)

// LoadedMsg reports that the page for URL finished loading.
type LoadedMsg struct {
	URL     string
	Content Content
}

// loadTimerMsg fires once the debounce for url has elapsed.
type loadTimerMsg struct {
	url string
}

// Model is the preview component. Rendering is a pure function of its state;
// only the transition to loaded happens asynchronously, via LoadedMsg.
type Model struct {
	cfg      appconfig.Configuration
	url      string
	valid    bool
	loaded   bool
	content  Content
	spinner  spinner.Model
	embedder Embedder
	timeout  time.Duration
	debounce time.Duration
}

// New returns a preview with nothing loaded. A nil embedder means offline.
func New(embedder Embedder, timeout time.Duration) *Model {
	if embedder == nil {
		embedder = StaticEmbedder{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := theme.Current()
	return &Model{
		cfg: appconfig.Default(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary))),
		),
		embedder: embedder,
		timeout:  timeout,
		debounce: DefaultDebounce,
	}
}

// SetDebounce changes the settle delay before a new URL is fetched. Zero
// fetches immediately.
func (m *Model) SetDebounce(d time.Duration) {
	m.debounce = d
}

// SetConfig copies the fields the preview reads. A changed target URL drops
// the loaded content and returns the command that loads the new page once the
// URL has been stable for the debounce delay.
func (m *Model) SetConfig(cfg appconfig.Configuration) tea.Cmd {
	m.cfg = cfg
	if cfg.TargetURL == m.url {
		return nil
	}
	m.url = cfg.TargetURL
	m.valid = appconfig.ValidateURL(m.url)
	m.loaded = false
	m.content = Content{}
	if !m.valid || m.debounce <= 0 {
		return m.Init()
	}
	target := m.url
	return tea.Batch(
		tea.Tick(m.debounce, func(time.Time) tea.Msg { return loadTimerMsg{url: target} }),
		m.spinner.Tick,
	)
}

// Init starts loading the current URL, if any.
func (m *Model) Init() tea.Cmd {
	load := m.LoadCmd()
	if load == nil {
		return nil
	}
	return tea.Batch(load, m.spinner.Tick)
}

// LoadCmd embeds the current URL off the event loop. It returns nil when the
// URL is empty or invalid.
func (m *Model) LoadCmd() tea.Cmd {
	if !m.valid {
		return nil
	}
	target, embedder, timeout := m.url, m.embedder, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return LoadedMsg{URL: target, Content: embedder.Embed(ctx, target)}
	}
}

// Update handles load completion and spinner ticks.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadTimerMsg:
		if msg.url != m.url || m.loaded {
			return nil
		}
		return m.LoadCmd()
	case LoadedMsg:
		if msg.URL != m.url {
			log.Debug("dropping stale preview load for %s", msg.URL)
			return nil
		}
		m.loaded = true
		m.content = msg.Content
		return nil
	case spinner.TickMsg:
		if m.loaded || !m.valid {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

// Loaded reports whether content for the current URL has arrived.
func (m *Model) Loaded() bool { return m.loaded }

// Content returns the loaded page, zero until Loaded.
func (m *Model) Content() Content { return m.content }

// Frame returns the device frame for the configured screen size.
func (m *Model) Frame() Frame { return FrameFor(m.cfg.ScreenSize) }

// View renders the device frame.
func (m *Model) View() string {
	f := m.Frame()
	w, h := f.Cols()-2, f.Rows()-2

	var body string
	switch {
	case !m.valid:
		body = m.renderPrompt(w, h)
	case !m.loaded:
		body = m.renderLoading(w, h)
	default:
		body = m.renderLoaded(w, h)
	}

	t := theme.Current()
	return t.S().Frame.Render(body)
}

func (m *Model) renderPrompt(w, h int) string {
	t := theme.Current()
	text := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).
		Width(w - 2).
		Align(lipgloss.Center).
		Render(PromptText)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, text)
}

func (m *Model) renderLoading(w, h int) string {
	t := theme.Current()
	color := m.cfg.PrimaryColor
	if color == "" {
		color = appconfig.DefaultPrimaryColor
	}

	glyph := "▣"
	if m.cfg.HasIcon() {
		glyph = "◈"
	}
	tile := lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color(theme.ContrastText(color))).
		Padding(1, 3).
		Render(glyph)

	var parts []string
	parts = append(parts, tile)
	if m.cfg.HasIcon() {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)).
			Render(ansi.Truncate(icon.Label(m.cfg.IconRef), w, "…")))
	}
	parts = append(parts, "",
		m.spinner.View(),
		lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Render(LoadingText),
	)

	center := lipgloss.JoinVertical(lipgloss.Center, parts...)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar(w),
		lipgloss.Place(w, h-1, lipgloss.Center, lipgloss.Center, center),
	)
}

func (m *Model) renderLoaded(w, h int) string {
	t := theme.Current()
	nav := m.bottomNav(w)
	contentHeight := h - 2 - lipgloss.Height(nav)
	if contentHeight < 1 {
		contentHeight = 1
	}

	var lines []string
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.FgBright))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase))
	if m.content.Failed {
		titleStyle = titleStyle.Foreground(lipgloss.Color(t.Error))
		textStyle = textStyle.Foreground(lipgloss.Color(t.FgMuted))
	}
	for _, l := range strings.Split(ansi.Wrap(m.content.Title, w, ""), "\n") {
		lines = append(lines, titleStyle.Render(l))
	}
	if m.content.Text != "" {
		lines = append(lines, "")
		for _, l := range strings.Split(ansi.Wrap(m.content.Text, w, ""), "\n") {
			lines = append(lines, textStyle.Render(l))
		}
	}
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}
	for len(lines) < contentHeight {
		lines = append(lines, "")
	}
	for i, l := range lines {
		lines[i] = pad(l, w)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar(w),
		m.header(w),
		strings.Join(lines, "\n"),
		nav,
	)
}

func (m *Model) statusBar(w int) string {
	t := theme.Current()
	left := StatusTime
	right := "▂▄▆ ●"
	gap := w - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := " " + left + strings.Repeat(" ", gap) + right + " "
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBright)).
		Background(lipgloss.Color(t.BgMantle)).
		Render(pad(line, w))
}

// header is the app bar: "‹ Back" on the left and the name centered.
func (m *Model) header(w int) string {
	color := m.cfg.PrimaryColor
	if color == "" {
		color = appconfig.DefaultPrimaryColor
	}
	back := " ‹ Back"
	name := ansi.Truncate(m.cfg.DisplayName(), w-lipgloss.Width(back)-2, "…")

	start := (w - lipgloss.Width(name)) / 2
	if minStart := lipgloss.Width(back) + 1; start < minStart {
		start = minStart
	}
	line := back + strings.Repeat(" ", start-lipgloss.Width(back)) + name

	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color(theme.ContrastText(color))).
		Bold(true).
		Render(pad(line, w))
}

func (m *Model) bottomNav(w int) string {
	t := theme.Current()
	items := []string{"Home", "Search", "Settings"}
	cell := w / len(items)

	var b strings.Builder
	for i, item := range items {
		style := lipgloss.NewStyle().Width(cell).Align(lipgloss.Center)
		if i == 0 {
			style = style.Foreground(lipgloss.Color(t.Primary)).Bold(true)
		} else {
			style = style.Foreground(lipgloss.Color(t.FgMuted))
		}
		b.WriteString(style.Render(item))
	}
	rule := lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface1)).Render(strings.Repeat("─", w))
	return rule + "\n" + pad(b.String(), w)
}

// pad truncates or right-pads a single line to exactly w cells.
func pad(s string, w int) string {
	s = ansi.Truncate(s, w, "")
	if n := ansi.StringWidth(s); n < w {
		s += strings.Repeat(" ", w-n)
	}
	return s
}
