// Package generate simulates the app build: a bounded progress counter
// advanced by timer ticks until it reaches 100%.
package generate

import (
	"github.com/google/uuid"
)

// State is the lifecycle of a generation run.
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in-progress"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Handle identifies one run. Ticks carrying a handle from an earlier run, or
// from a run that was cancelled, are ignored.
type Handle struct {
	run uint64
}

// Valid reports whether the handle came from a successful Start.
func (h Handle) Valid() bool { return h.run != 0 }

// TickResult describes the effect of a single tick.
type TickResult struct {
	Applied   bool    // false for stale or out-of-state ticks
	Progress  float64 // progress after the tick
	Completed bool    // this tick finished the run
	AppID     string  // set when Completed
}

// Simulator holds the progress state of the current (or last) run. It is not
// safe for concurrent use; callers serialize access the way the Bubbletea
// loop does.
type Simulator struct {
	source   ProgressSource
	newID    func() string
	state    State
	progress float64
	appID    string
	run      uint64
}

// newAppID returns a time-ordered UUIDv7, falling back to a random v4.
func newAppID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithIDGenerator replaces the default UUIDv7 app id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Simulator) { s.newID = fn }
}

// NewSimulator returns an idle simulator drawing increments from source.
func NewSimulator(source ProgressSource, opts ...Option) *Simulator {
	s := &Simulator{
		source: source,
		newID:  newAppID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) State() State      { return s.state }
func (s *Simulator) Progress() float64 { return s.progress }
func (s *Simulator) AppID() string     { return s.appID }

// Start begins a new run. It is refused while a run is in progress.
func (s *Simulator) Start() (Handle, bool) {
	if s.state == StateInProgress {
		return Handle{}, false
	}
	s.run++
	s.state = StateInProgress
	s.progress = 0
	s.appID = ""
	return Handle{run: s.run}, true
}

// Tick advances the run identified by h.
func (s *Simulator) Tick(h Handle) TickResult {
	if !h.Valid() || h.run != s.run || s.state != StateInProgress {
		return TickResult{Progress: s.progress}
	}

	inc := s.source.Next()
	if inc < 0 {
		inc = 0
	}
	s.progress += inc

	if s.progress < 100 {
		return TickResult{Applied: true, Progress: s.progress}
	}

	s.progress = 100
	s.state = StateComplete
	s.appID = s.newID()
	return TickResult{Applied: true, Progress: 100, Completed: true, AppID: s.appID}
}

// Cancel abandons an in-progress run. Outstanding handles become stale. A
// completed run is left untouched.
func (s *Simulator) Cancel() {
	s.run++
	if s.state == StateInProgress {
		s.state = StateIdle
	}
}

// Reset invalidates every handle and returns to the initial state.
func (s *Simulator) Reset() {
	s.run++
	s.state = StateIdle
	s.progress = 0
	s.appID = ""
}
