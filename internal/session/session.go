// Package session owns a single wizard run: the configuration being edited,
// the current step and the generation simulator. All mutations go through
// Session so that step gating and notifications stay consistent.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/mark3labs/appify/internal/generate"
	"github.com/mark3labs/appify/internal/logger"
	"github.com/mark3labs/appify/internal/qr"
)

// Step is a position in the linear wizard.
type Step int

const (
	StepURL Step = iota
	StepSettings
	StepCustomize
	StepGenerate
)

// Steps lists every step in order.
var Steps = []Step{StepURL, StepSettings, StepCustomize, StepGenerate}

// LastStep is the final step index.
const LastStep = StepGenerate

// Title returns the step's display name.
func (s Step) Title() string {
	switch s {
	case StepURL:
		return "Website URL"
	case StepSettings:
		return "App Settings"
	case StepCustomize:
		return "Customization"
	case StepGenerate:
		return "Generate"
	default:
		return ""
	}
}

// Reset confirmation texts.
const (
	ResetTitle   = "Reset Wizard"
	ResetMessage = "This will clear every setting and return to the first step."
)

var log = logger.Named("session")

// ErrInvalidURL is returned by Run when the target URL does not validate.
var ErrInvalidURL = errors.New("invalid website URL")

// Session is one wizard run. It is not safe for concurrent use.
type Session struct {
	cfg      *appconfig.Configuration
	baseline appconfig.Configuration
	sim      *generate.Simulator
	notifier Notifier
	step     Step
}

// New starts a session whose configuration begins as (and resets to) baseline.
// A nil notifier discards notifications.
func New(baseline appconfig.Configuration, sim *generate.Simulator, notifier Notifier) *Session {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	cfg := baseline
	cfg.SetTargetURL(cfg.TargetURL)
	return &Session{
		cfg:      &cfg,
		baseline: baseline,
		sim:      sim,
		notifier: notifier,
	}
}

// Config returns the live configuration. Callers mutate it in place; the
// pointer stays valid across Reset.
func (s *Session) Config() *appconfig.Configuration { return s.cfg }

// Baseline returns the configuration Reset restores.
func (s *Session) Baseline() appconfig.Configuration { return s.baseline }

// Step returns the current step.
func (s *Session) Step() Step { return s.step }

// GenerationState returns the simulator's lifecycle state.
func (s *Session) GenerationState() generate.State { return s.sim.State() }

// Progress returns the generation progress in [0, 100].
func (s *Session) Progress() float64 { return s.sim.Progress() }

// AppID returns the generated app id, empty unless generation completed.
func (s *Session) AppID() string { return s.sim.AppID() }

// Generating reports whether a generation run is in progress.
func (s *Session) Generating() bool { return s.sim.State() == generate.StateInProgress }

// Complete reports whether the last run finished.
func (s *Session) Complete() bool { return s.sim.State() == generate.StateComplete }

// Advance moves to the next step. Leaving the first step requires a valid URL;
// a refusal emits exactly one "Invalid URL" notification.
func (s *Session) Advance() bool {
	if s.step == StepURL && !s.cfg.URLValid {
		log.Debug("advance refused: invalid url %q", s.cfg.TargetURL)
		s.notifier.Notify(notifyInvalidURL)
		return false
	}
	if s.step >= LastStep {
		return false
	}
	s.step++
	log.Debug("advanced to step %d (%s)", s.step, s.step.Title())
	return true
}

// CanRetreat reports whether Retreat would move.
func (s *Session) CanRetreat() bool {
	return s.step > StepURL && !s.Generating()
}

// Retreat moves to the previous step. It is a no-op on the first step and
// while generation is running.
func (s *Session) Retreat() bool {
	if !s.CanRetreat() {
		return false
	}
	s.step--
	log.Debug("retreated to step %d (%s)", s.step, s.step.Title())
	return true
}

// StartGeneration begins a run. It is refused away from the last step and while
// a run is already in progress.
func (s *Session) StartGeneration() (generate.Handle, bool) {
	if s.step != LastStep {
		return generate.Handle{}, false
	}
	h, ok := s.sim.Start()
	if ok {
		log.Info("generation started for %s", s.cfg.TargetURL)
	}
	return h, ok
}

// Tick applies one simulator tick and announces completion.
func (s *Session) Tick(h generate.Handle) generate.TickResult {
	res := s.sim.Tick(h)
	if res.Completed {
		log.Info("generation complete: app id %s", res.AppID)
		s.notifier.Notify(notifyGenerated)
	}
	return res
}

// Download announces the download of a completed app. Nothing is transferred.
func (s *Session) Download() bool {
	if !s.Complete() {
		return false
	}
	s.notifier.Notify(notifyDownload)
	return true
}

// PublishedURL is where the generated app lives, empty until complete.
func (s *Session) PublishedURL(base string) string {
	if !s.Complete() {
		return ""
	}
	return qr.PublishedURL(base, s.AppID())
}

// ReportQRSave announces the outcome of saving the QR image.
func (s *Session) ReportQRSave(err error) {
	if err != nil {
		log.Error("QR save failed: %v", err)
		s.notifier.Notify(notifyQRFailed)
		return
	}
	s.notifier.Notify(notifyQRSaved)
}

// Run walks the session through every remaining step and drives generation
// to completion without a UI, ticking every interval. It returns the app id.
func (s *Session) Run(ctx context.Context, interval time.Duration, onTick func(generate.TickResult)) (string, error) {
	for s.step < LastStep {
		if !s.Advance() {
			return "", ErrInvalidURL
		}
	}
	log.Info("headless generation started for %s", s.cfg.TargetURL)
	id, err := generate.Drive(ctx, s.sim, interval, onTick)
	if err != nil {
		return "", err
	}
	log.Info("generation complete: app id %s", id)
	s.notifier.Notify(notifyGenerated)
	return id, nil
}

// Reset asks c for confirmation and, on yes, cancels any run, restores the
// baseline configuration and returns to the first step.
func (s *Session) Reset(c Confirmer) bool {
	if !c.Confirm(ResetTitle, ResetMessage) {
		log.Debug("reset declined")
		return false
	}
	s.sim.Reset()
	*s.cfg = s.baseline
	s.cfg.SetTargetURL(s.cfg.TargetURL)
	s.step = StepURL
	log.Info("wizard reset")
	s.notifier.Notify(notifyReset)
	return true
}

// Discard cancels any outstanding run. Called when the wizard is torn down.
func (s *Session) Discard() {
	s.sim.Cancel()
}
