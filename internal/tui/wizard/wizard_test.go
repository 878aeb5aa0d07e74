package wizard

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/mark3labs/appify/internal/config"
	"github.com/mark3labs/appify/internal/generate"
	"github.com/mark3labs/appify/internal/preview"
	"github.com/mark3labs/appify/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.Writer.Profile = colorprofile.Ascii
}

const (
	testWidth  = 120
	testHeight = 40

	// cmdTimeout drops commands that only schedule far-off work, such as
	// cursor blinks and toast dismissals.
	cmdTimeout = 50 * time.Millisecond
)

var (
	enterKey = tea.KeyPressMsg{Code: tea.KeyEnter}
	escKey   = tea.KeyPressMsg{Code: tea.KeyEscape}
	tabKey   = tea.KeyPressMsg{Code: tea.KeyTab}
	downKey  = tea.KeyPressMsg{Code: tea.KeyDown}
	spaceKey = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	ctrlN    = tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	ctrlR    = tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	ctrlC    = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
)

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func plain(s string) string { return ansi.Strip(s) }

// fakeQR records saves without touching the network or disk.
type fakeQR struct {
	mu    sync.Mutex
	data  []string
	paths []string
	err   error
}

func (f *fakeQR) ImageURL(data string) string {
	return "https://qr.test/?data=" + url.QueryEscape(data)
}

func (f *fakeQR) Save(_ context.Context, data, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = append(f.data, data)
	f.paths = append(f.paths, path)
	return f.err
}

// harness feeds messages to a wizard and runs the resulting commands
// synchronously, looping wizard messages back into Update.
type harness struct {
	t  *testing.T
	m  *Model
	qr *fakeQR
}

func newHarness(t *testing.T, inc float64, tick time.Duration) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.TickInterval = tick
	fq := &fakeQR{}
	m := New(Options{
		Config:   cfg,
		Embedder: preview.StaticEmbedder{},
		QR:       fq,
		Source:   generate.SourceFunc(func() float64 { return inc }),
	})
	m.Preview().SetDebounce(0)
	h := &harness{t: t, m: m, qr: fq}
	h.run(m.Init(), 0)
	h.send(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	return h
}

func (h *harness) send(msgs ...tea.Msg) {
	h.t.Helper()
	for _, msg := range msgs {
		_, cmd := h.m.Update(msg)
		h.run(cmd, 0)
	}
}

func (h *harness) paste(s string) {
	h.send(tea.PasteMsg{Content: s})
}

func (h *harness) run(cmd tea.Cmd, depth int) {
	if cmd == nil || depth > 100 {
		return
	}
	switch msg := execCmd(cmd).(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c, depth+1)
		}
	case NextStepMsg, StartGenerationMsg, DownloadMsg, SaveQRMsg, QRSavedMsg, tickMsg, preview.LoadedMsg:
		_, next := h.m.Update(msg)
		h.run(next, depth+1)
	}
}

func execCmd(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

func (h *harness) toastTitles() []string {
	var titles []string
	for _, n := range h.m.Toasts().Notifications() {
		titles = append(titles, n.Title)
	}
	return titles
}

// toSettings enters a valid URL and moves to the settings step.
func (h *harness) toSettings(u string) {
	h.t.Helper()
	h.paste(u)
	h.send(enterKey)
	require.Equal(h.t, session.StepSettings, h.m.Session().Step())
}

func TestWizard_InvalidURLBlocksAdvance(t *testing.T) {
	h := newHarness(t, 50, time.Millisecond)

	h.send(enterKey)
	assert.Equal(t, session.StepURL, h.m.Session().Step())
	assert.Equal(t, []string{"Invalid URL"}, h.toastTitles())

	h.paste("not a url")
	h.send(ctrlN)
	assert.Equal(t, session.StepURL, h.m.Session().Step())
	assert.Len(t, h.toastTitles(), 2)
}

func TestWizard_URLStepUpdatesPreview(t *testing.T) {
	h := newHarness(t, 50, time.Millisecond)

	out := plain(h.m.render())
	assert.Contains(t, out, "Enter a website URL")
	assert.Contains(t, out, "Step 1 of 4: Website URL")

	h.paste("https://news.example")
	assert.True(t, h.m.Session().Config().URLValid)
	assert.True(t, h.m.Preview().Loaded(), "static embedder loads synchronously")
	assert.Contains(t, plain(h.m.render()), "✓ Valid URL")
}

func TestWizard_EndToEnd(t *testing.T) {
	h := newHarness(t, 50, time.Millisecond)
	h.toSettings("https://news.example")

	h.paste("NewsApp")
	h.send(tabKey)
	settings := h.m.steps[session.StepSettings].(*SettingsStep)
	settings.inputs[fieldColor].SetValue("")
	h.paste("#ff0000")
	h.send(ctrlN)
	require.Equal(t, session.StepCustomize, h.m.Session().Step())

	h.send(downKey, spaceKey)
	h.send(enterKey)
	require.Equal(t, session.StepGenerate, h.m.Session().Step())

	h.send(enterKey)
	sess := h.m.Session()
	require.Equal(t, generate.StateComplete, sess.GenerationState())
	assert.Equal(t, 100.0, sess.Progress())
	require.NotEmpty(t, sess.AppID())
	assert.Contains(t, h.toastTitles(), "Success!")

	cfg := sess.Config()
	assert.Equal(t, "NewsApp", cfg.DisplayName())
	assert.Equal(t, "#ff0000", cfg.PrimaryColor)
	assert.True(t, cfg.Features.OfflineSupport)

	gen := h.m.steps[session.StepGenerate].(*GenerateStep)
	assert.Equal(t, TabQR, gen.Tab())
	out := plain(h.m.render())
	assert.Contains(t, out, "Scan to test on your device")
	assert.Contains(t, out, sess.AppID())

	h.send(char('s'))
	require.Len(t, h.qr.data, 1)
	assert.Contains(t, h.qr.data[0], sess.AppID())
	assert.Equal(t, "app-"+sess.AppID()+"-qrcode.png", h.qr.paths[0])
	assert.Contains(t, h.toastTitles(), "QR Code Downloaded")

	h.send(char('d'))
	assert.Contains(t, h.toastTitles(), "Download Started")
}

func TestWizard_QRSaveFailure(t *testing.T) {
	h := newHarness(t, 100, time.Millisecond)
	h.qr.err = errors.New("service down")
	h.toSettings("https://example.com")
	h.send(ctrlN, ctrlN)
	h.send(enterKey)
	require.True(t, h.m.Session().Complete())

	h.send(char('s'))
	assert.Contains(t, h.toastTitles(), "Download Failed")
}

func TestWizard_RegenerateLeavesResultTabs(t *testing.T) {
	h := newHarness(t, 100, time.Millisecond)
	h.toSettings("https://example.com")
	h.send(ctrlN, ctrlN)
	h.send(enterKey)
	require.True(t, h.m.Session().Complete())
	gen := h.m.steps[session.StepGenerate].(*GenerateStep)
	require.Equal(t, TabQR, gen.Tab())

	h.m.cfg.TickInterval = time.Hour
	h.send(char('g'))
	require.True(t, h.m.Session().Generating())

	assert.Contains(t, gen.Tabs(), gen.Tab())
	assert.Equal(t, TabPreview, gen.Tab())
	out := plain(h.m.render())
	assert.NotContains(t, out, "Scan to test")
	assert.NotContains(t, out, "QR Image")

	status := plain(gen.renderStatus())
	assert.Equal(t, 1, strings.Count(status, "%"), "progress percentage printed once: %q", status)
}

func TestGenerateStep_CycleTabClampsMissingTab(t *testing.T) {
	h := newHarness(t, 10, time.Hour)
	h.toSettings("https://example.com")
	h.send(ctrlN, ctrlN)
	h.send(enterKey)
	require.True(t, h.m.Session().Generating())

	gen := h.m.steps[session.StepGenerate].(*GenerateStep)
	gen.tab = TabDownload
	h.send(tabKey)
	assert.Equal(t, TabPreview, gen.Tab())

	gen.tab = TabQR
	assert.NotContains(t, plain(gen.View()), "Scan to test")
	assert.Equal(t, TabPreview, gen.Tab())
}

func TestWizard_BackRefusedWhileGenerating(t *testing.T) {
	h := newHarness(t, 10, time.Hour)
	h.toSettings("https://example.com")
	h.send(ctrlN, ctrlN)
	h.send(enterKey)
	require.True(t, h.m.Session().Generating())

	h.send(escKey)
	assert.Equal(t, session.StepGenerate, h.m.Session().Step())
	assert.False(t, h.m.Quitting())

	buttons := h.m.buttons
	h.m.render()
	assert.False(t, buttons.Enabled(0), "back disabled while generating")
	assert.False(t, buttons.Enabled(1), "generate disabled while generating")
}

func TestWizard_ResetModal(t *testing.T) {
	h := newHarness(t, 10, time.Hour)
	h.toSettings("https://news.example")
	h.paste("NewsApp")

	h.send(ctrlR)
	require.True(t, h.m.ModalVisible())
	box := plain(h.m.modal.Render(testWidth))
	assert.Contains(t, box, session.ResetTitle)
	assert.Contains(t, box, "+app_name: NewsApp")

	h.send(char('n'))
	assert.False(t, h.m.ModalVisible())
	assert.Equal(t, "NewsApp", h.m.Session().Config().AppName)
	assert.Equal(t, session.StepSettings, h.m.Session().Step())

	h.send(ctrlN, ctrlN, enterKey)
	require.True(t, h.m.Session().Generating())

	h.send(ctrlR, char('y'))
	assert.False(t, h.m.ModalVisible())
	sess := h.m.Session()
	assert.Equal(t, session.StepURL, sess.Step())
	assert.Equal(t, generate.StateIdle, sess.GenerationState())
	assert.Equal(t, *appconfig.New(appconfig.ScreenMedium), *sess.Config())
	assert.Contains(t, h.toastTitles(), "Wizard Reset")
	assert.False(t, h.m.Preview().Loaded())

	url := h.m.steps[session.StepURL].(*URLStep)
	assert.Empty(t, url.input.Value(), "inputs are rebuilt from the restored configuration")
}

func TestWizard_ResetModalSwallowsKeys(t *testing.T) {
	h := newHarness(t, 10, time.Hour)
	h.send(ctrlR)
	require.True(t, h.m.ModalVisible())

	h.paste("https://example.com")
	h.send(char('x'))
	assert.True(t, h.m.ModalVisible())
	assert.Empty(t, h.m.Session().Config().TargetURL)

	h.send(escKey)
	assert.False(t, h.m.ModalVisible())
	assert.False(t, h.m.Quitting(), "esc closes the modal instead of quitting")
}

func TestWizard_EscOnFirstStepQuits(t *testing.T) {
	h := newHarness(t, 10, time.Hour)
	h.send(escKey)
	assert.True(t, h.m.Quitting())
}

func TestWizard_CtrlCCancelsRun(t *testing.T) {
	h := newHarness(t, 10, time.Hour)
	h.toSettings("https://example.com")
	h.send(ctrlN, ctrlN, enterKey)
	require.True(t, h.m.Session().Generating())

	h.send(ctrlC)
	assert.True(t, h.m.Quitting())
	assert.Equal(t, generate.StateIdle, h.m.Session().GenerationState())
}

func TestWizard_BackKeepsValues(t *testing.T) {
	h := newHarness(t, 10, time.Hour)
	h.toSettings("https://example.com")
	h.paste("Keep")

	h.send(escKey)
	assert.Equal(t, session.StepURL, h.m.Session().Step())
	h.send(ctrlN)
	assert.Equal(t, session.StepSettings, h.m.Session().Step())
	assert.Equal(t, "Keep", h.m.Session().Config().AppName)
}

func TestWizard_SidePreviewHiddenWhenNarrow(t *testing.T) {
	h := newHarness(t, 10, time.Hour)
	assert.True(t, h.m.showSidePreview())

	h.send(tea.WindowSizeMsg{Width: 70, Height: 30})
	assert.False(t, h.m.showSidePreview())
	assert.NotContains(t, plain(h.m.render()), "Enter a website URL")
}

func TestWizard_ViewIsAltScreen(t *testing.T) {
	h := newHarness(t, 10, time.Hour)
	v := h.m.View()
	assert.True(t, v.AltScreen)
	assert.NotNil(t, v.Content)
}

func TestStepIndicator(t *testing.T) {
	out := plain(renderStepIndicator(session.StepCustomize, testWidth))
	assert.Contains(t, out, "✓ Website URL")
	assert.Contains(t, out, "✓ App Settings")
	assert.Contains(t, out, "● 3 Customization")
	assert.Contains(t, out, "○ 4 Generate")

	narrow := plain(renderStepIndicator(session.StepSettings, 30))
	assert.Equal(t, "Step 2/4: App Settings", strings.TrimSpace(narrow))
}

func TestCreateBackNextButtons(t *testing.T) {
	buttons := CreateBackNextButtons(false, true, "Next →")
	require.Len(t, buttons, 2)
	assert.Equal(t, ButtonDisabled, buttons[0].State)
	assert.Equal(t, ButtonFocused, buttons[1].State)

	buttons = CreateBackNextButtons(true, false, "Generate")
	assert.Equal(t, ButtonNormal, buttons[0].State)
	assert.Equal(t, ButtonDisabled, buttons[1].State)

	bar := NewButtonBar(buttons)
	out := plain(bar.Render())
	assert.Contains(t, out, "← Back")
	assert.Contains(t, out, "Generate")
}

func TestRenderHintBar(t *testing.T) {
	assert.Equal(t, "enter next • esc back", plain(renderHintBar("enter", "next", "esc", "back")))
	assert.Empty(t, renderHintBar("odd"))
}
