package generate

import (
	"math/rand/v2"
	"sync"
)

// ProgressSource reports how far a build advanced since the previous tick, in
// percentage points. A real build poller can stand in for RandomSource.
type ProgressSource interface {
	Next() float64
}

// SourceFunc adapts a function to ProgressSource.
type SourceFunc func() float64

func (f SourceFunc) Next() float64 { return f() }

// RandomSource draws increments uniformly from [0, Max).
type RandomSource struct {
	Max float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a source seeded from the runtime's random state.
func NewRandomSource(max float64) *RandomSource {
	return &RandomSource{
		Max: max,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeededSource returns a deterministic source, used by tests and replays.
func NewSeededSource(max float64, seed uint64) *RandomSource {
	return &RandomSource{
		Max: max,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *RandomSource) Next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * s.Max
}
