// Package wizard is the terminal front end: a four-step flow that turns a
// website into a simulated Android app, with a live device preview beside it.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/mark3labs/appify/internal/config"
	"github.com/mark3labs/appify/internal/generate"
	"github.com/mark3labs/appify/internal/logger"
	"github.com/mark3labs/appify/internal/preview"
	"github.com/mark3labs/appify/internal/qr"
	"github.com/mark3labs/appify/internal/session"
)

var log = logger.Named("wizard")

// qrSaveTimeout bounds a QR save including retries.
const qrSaveTimeout = 30 * time.Second

// step is implemented by every wizard page.
type step interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	Focus() tea.Cmd
	Blur()
	Hints() []string
}

// Options configures a wizard.
type Options struct {
	Config   *config.Config
	Embedder preview.Embedder        // nil renders an offline preview
	QR       qr.Service              // nil uses the configured HTTP service
	Source   generate.ProgressSource // nil uses a random source bounded by Config.MaxIncrement
}

// Model is the main BubbleTea model for the app wizard.
type Model struct {
	cfg     *config.Config
	sess    *session.Session
	queue   *session.Queue
	qr      qr.Service
	keys    keyMap
	steps   [4]step
	preview *preview.Model
	buttons *ButtonBar
	modal   *ResetModal
	toasts  *Toasts

	width    int
	height   int
	quitting bool
}

// New builds a wizard from opts.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	size, err := appconfig.ParseScreenSize(cfg.ScreenSize)
	if err != nil {
		log.Warn("%v, using %s", err, size)
	}
	svc := opts.QR
	if svc == nil {
		svc = qr.NewHTTPService(cfg.QRServiceURL, cfg.QRSize)
	}
	src := opts.Source
	if src == nil {
		src = generate.NewRandomSource(cfg.MaxIncrement)
	}

	queue := &session.Queue{}
	notifier := session.NotifierFunc(func(n session.Notification) {
		session.LogNotifier.Notify(n)
		queue.Notify(n)
	})
	sess := session.New(*appconfig.New(size), generate.NewSimulator(src), notifier)

	m := &Model{
		cfg:     cfg,
		sess:    sess,
		queue:   queue,
		qr:      svc,
		keys:    defaultKeyMap(),
		preview: preview.New(opts.Embedder, cfg.PreviewTimeout),
		buttons: NewButtonBar(nil),
		modal:   NewResetModal(),
		toasts:  NewToasts(),
		width:   100,
		height:  40,
	}
	m.buildSteps()
	return m
}

// Run starts the wizard and blocks until the user quits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	m.sess.Discard()
	return nil
}

// Session exposes the wizard's session.
func (m *Model) Session() *session.Session { return m.sess }

// Toasts exposes the visible notifications.
func (m *Model) Toasts() *Toasts { return m.toasts }

// Preview exposes the device preview.
func (m *Model) Preview() *preview.Model { return m.preview }

// ModalVisible reports whether the reset confirmation is open.
func (m *Model) ModalVisible() bool { return m.modal.IsVisible() }

// Quitting reports whether the wizard has asked the program to exit.
func (m *Model) Quitting() bool { return m.quitting }

func (m *Model) buildSteps() {
	cfg := m.sess.Config()
	m.steps = [4]step{
		NewURLStep(cfg),
		NewSettingsStep(cfg),
		NewCustomizeStep(cfg),
		NewGenerateStep(m.sess, m.preview, m.qr, m.cfg.AppBaseURL, m.cfg.PackagePrefix),
	}
	m.layout()
}

func (m *Model) current() step { return m.steps[m.sess.Step()] }

// Init initializes the wizard model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.current().Init(),
		m.current().Focus(),
		m.preview.SetConfig(*m.sess.Config()),
	)
}

// Update handles messages for the wizard. After every message the preview is
// synced with the configuration and pending notifications become toasts.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.preview.SetConfig(*m.sess.Config()), m.flushNotifications())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		if m.modal.IsVisible() {
			return nil
		}
		return m.current().Update(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return nil

	case NextStepMsg:
		return m.advance()

	case StartGenerationMsg:
		h, ok := m.sess.StartGeneration()
		if !ok {
			return nil
		}
		if gen, ok := m.steps[session.StepGenerate].(*GenerateStep); ok {
			gen.ShowProgress()
		}
		return m.tickCmd(h)

	case tickMsg:
		res := m.sess.Tick(msg.handle)
		if !res.Applied {
			return nil
		}
		if res.Completed {
			if gen, ok := m.steps[session.StepGenerate].(*GenerateStep); ok {
				gen.ShowResult()
			}
			return nil
		}
		return m.tickCmd(msg.handle)

	case DownloadMsg:
		m.sess.Download()
		return nil

	case SaveQRMsg:
		return m.saveQR()

	case QRSavedMsg:
		if msg.Err == nil {
			log.Info("QR code saved to %s", msg.Path)
		}
		m.sess.ReportQRSave(msg.Err)
		return nil

	case toastDismissMsg:
		return m.toasts.Update(msg)
	}

	return tea.Batch(m.preview.Update(msg), m.current().Update(msg))
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.modal.IsVisible() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Confirm):
			m.modal.Hide()
			return m.reset()
		case key.Matches(msg, m.keys.Cancel):
			m.modal.Hide()
			log.Debug("reset cancelled")
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Reset):
		m.modal.Show(m.sess.Config(), m.sess.Baseline())
		return nil
	case key.Matches(msg, m.keys.Back):
		if m.sess.Step() == session.StepURL {
			return m.quit()
		}
		return m.retreat()
	case key.Matches(msg, m.keys.Next):
		return m.advance()
	}
	return m.current().Update(msg)
}

func (m *Model) quit() tea.Cmd {
	m.sess.Discard()
	m.quitting = true
	return tea.Quit
}

func (m *Model) advance() tea.Cmd {
	prev := m.current()
	if !m.sess.Advance() {
		return nil
	}
	prev.Blur()
	m.layout()
	return tea.Batch(m.current().Init(), m.current().Focus())
}

func (m *Model) retreat() tea.Cmd {
	prev := m.current()
	if !m.sess.Retreat() {
		return nil
	}
	prev.Blur()
	m.layout()
	return m.current().Focus()
}

// reset restores the baseline after the modal was confirmed. Steps are rebuilt
// so their inputs reflect the restored configuration.
func (m *Model) reset() tea.Cmd {
	if !m.sess.Reset(session.Answer(true)) {
		return nil
	}
	m.buildSteps()
	return tea.Batch(m.current().Init(), m.current().Focus())
}

func (m *Model) tickCmd(h generate.Handle) tea.Cmd {
	return tea.Tick(m.cfg.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{handle: h}
	})
}

func (m *Model) saveQR() tea.Cmd {
	published := m.sess.PublishedURL(m.cfg.AppBaseURL)
	if published == "" {
		return nil
	}
	svc, path := m.qr, qr.DefaultFilename(m.sess.AppID())
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), qrSaveTimeout)
		defer cancel()
		return QRSavedMsg{Path: path, Err: svc.Save(ctx, published, path)}
	}
}

func (m *Model) flushNotifications() tea.Cmd {
	notes := m.queue.Drain()
	if len(notes) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(notes))
	for _, n := range notes {
		cmds = append(cmds, m.toasts.Push(n))
	}
	return tea.Batch(cmds...)
}

// showSidePreview reports whether the preview is drawn beside the step. The
// generate step shows it in its own tab instead.
func (m *Model) showSidePreview() bool {
	if m.sess.Step() == session.StepGenerate {
		return false
	}
	return m.width >= 60+m.preview.Frame().Cols()+4
}

// stepWidth is the width available to the current step's content.
func (m *Model) stepWidth() int {
	w := m.width - 8
	if m.showSidePreview() {
		w -= m.preview.Frame().Cols() + 2
	}
	return max(min(w, 90), 30)
}

func (m *Model) layout() {
	w := m.stepWidth()
	h := max(m.height-10, 5)
	for _, s := range m.steps {
		if s != nil {
			s.SetSize(w, h)
		}
	}
	m.buttons.SetWidth(m.width)
}

func (m *Model) nextLabel() string {
	switch m.sess.Step() {
	case session.StepCustomize:
		return "Review →"
	case session.StepGenerate:
		if m.sess.Complete() {
			return "Regenerate"
		}
		return "Generate"
	default:
		return "Next →"
	}
}

func (m *Model) nextEnabled() bool {
	switch m.sess.Step() {
	case session.StepURL:
		return m.sess.Config().URLValid
	case session.StepGenerate:
		return !m.sess.Generating()
	default:
		return true
	}
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	width, height := max(m.width, 1), max(m.height, 1)
	canvas := uv.NewScreenBuffer(width, height)
	uv.NewStyledString(m.render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: width, Y: height},
	})

	if toasts := m.toasts.View(width - 2); toasts != "" {
		tw, th := lipgloss.Width(toasts), lipgloss.Height(toasts)
		x, y := max(width-tw-1, 0), max(height-th-2, 0)
		uv.NewStyledString(toasts).Draw(canvas, uv.Rectangle{
			Min: uv.Position{X: x, Y: y},
			Max: uv.Position{X: x + tw, Y: y + th},
		})
	}

	if m.modal.IsVisible() {
		box := m.modal.Render(width)
		bw, bh := lipgloss.Width(box), lipgloss.Height(box)
		x, y := max((width-bw)/2, 0), max((height-bh)/2, 0)
		uv.NewStyledString(box).Draw(canvas, uv.Rectangle{
			Min: uv.Position{X: x, Y: y},
			Max: uv.Position{X: x + bw, Y: y + bh},
		})
	}

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render lays out the header, the step (with the preview beside it when
// there is room) and the footer.
func (m *Model) render() string {
	cur := m.sess.Step()
	header := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center,
			styleModalTitle.Render("Appify")+styleHelp.Render("  turn any website into an Android app")),
		renderStepIndicator(cur, m.width),
	)

	title := styleModalTitle.Render(fmt.Sprintf("Step %d of %d: %s", int(cur)+1, len(session.Steps), cur.Title()))
	panel := styleModalContainer.Width(m.stepWidth() + 6).Render(title + "\n\n" + m.current().View())
	body := panel
	if m.showSidePreview() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, panel, "  ", m.preview.View())
	}
	body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)

	m.buttons.SetButtons(CreateBackNextButtons(m.sess.CanRetreat(), m.nextEnabled(), m.nextLabel()))
	footer := lipgloss.JoinVertical(lipgloss.Center,
		m.buttons.Render(),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, renderHintBar(m.current().Hints()...)),
	)

	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-2, 1)
	body = lipgloss.PlaceVertical(bodyHeight, lipgloss.Top, body)
	return strings.Join([]string{header, "", body, "", footer}, "\n")
}
