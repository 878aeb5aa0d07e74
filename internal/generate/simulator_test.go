package generate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steps returns a source that replays the given increments, then repeats the last one.
func steps(incs ...float64) ProgressSource {
	i := 0
	return SourceFunc(func() float64 {
		v := incs[i]
		if i < len(incs)-1 {
			i++
		}
		return v
	})
}

func fixedID(id string) Option {
	return WithIDGenerator(func() string { return id })
}

func TestSimulator_StartsIdle(t *testing.T) {
	sim := NewSimulator(steps(10))

	assert.Equal(t, StateIdle, sim.State())
	assert.Zero(t, sim.Progress())
	assert.Empty(t, sim.AppID())
}

func TestSimulator_RunToCompletion(t *testing.T) {
	sim := NewSimulator(steps(40, 40, 40), fixedID("app-1"))

	h, ok := sim.Start()
	require.True(t, ok)
	assert.Equal(t, StateInProgress, sim.State())

	res := sim.Tick(h)
	assert.True(t, res.Applied)
	assert.Equal(t, 40.0, res.Progress)
	assert.False(t, res.Completed)
	assert.Empty(t, sim.AppID(), "no id before completion")

	sim.Tick(h)
	res = sim.Tick(h)
	assert.True(t, res.Completed)
	assert.Equal(t, 100.0, res.Progress, "progress is clamped to exactly 100")
	assert.Equal(t, "app-1", res.AppID)
	assert.Equal(t, StateComplete, sim.State())
	assert.Equal(t, "app-1", sim.AppID())
}

func TestSimulator_ProgressNonDecreasing(t *testing.T) {
	sim := NewSimulator(NewSeededSource(15, 42))
	h, ok := sim.Start()
	require.True(t, ok)

	last := 0.0
	for i := 0; i < 1000 && sim.State() == StateInProgress; i++ {
		res := sim.Tick(h)
		require.True(t, res.Applied)
		assert.GreaterOrEqual(t, res.Progress, last)
		assert.LessOrEqual(t, res.Progress, 100.0)
		last = res.Progress
	}

	assert.Equal(t, StateComplete, sim.State())
	assert.Equal(t, 100.0, sim.Progress())
	assert.NotEmpty(t, sim.AppID())
}

func TestSimulator_NegativeIncrementIgnored(t *testing.T) {
	sim := NewSimulator(steps(20, -50, 10))
	h, _ := sim.Start()

	sim.Tick(h)
	res := sim.Tick(h)
	assert.Equal(t, 20.0, res.Progress)
}

func TestSimulator_StartRefusedWhileInProgress(t *testing.T) {
	sim := NewSimulator(steps(30))
	h, ok := sim.Start()
	require.True(t, ok)
	sim.Tick(h)

	h2, ok := sim.Start()
	assert.False(t, ok)
	assert.False(t, h2.Valid())
	assert.Equal(t, 30.0, sim.Progress(), "second start must not reset progress")

	res := sim.Tick(h)
	assert.True(t, res.Applied, "first run keeps going")
	assert.Equal(t, 60.0, res.Progress)
}

func TestSimulator_RestartAfterCompleteResetsProgress(t *testing.T) {
	sim := NewSimulator(steps(100, 5))
	h, _ := sim.Start()
	sim.Tick(h)
	require.Equal(t, StateComplete, sim.State())

	h2, ok := sim.Start()
	require.True(t, ok)
	assert.Zero(t, sim.Progress())
	assert.Empty(t, sim.AppID(), "app id only exists while complete")

	stale := sim.Tick(h)
	assert.False(t, stale.Applied, "handle from the previous run is stale")

	res := sim.Tick(h2)
	assert.True(t, res.Applied)
	assert.Equal(t, 5.0, res.Progress)
}

func TestSimulator_CancelInvalidatesHandle(t *testing.T) {
	sim := NewSimulator(steps(10))
	h, _ := sim.Start()

	sim.Cancel()
	assert.Equal(t, StateIdle, sim.State())

	res := sim.Tick(h)
	assert.False(t, res.Applied)
}

func TestSimulator_ResetRestoresInitialState(t *testing.T) {
	sim := NewSimulator(steps(100), fixedID("done"))
	h, _ := sim.Start()
	sim.Tick(h)
	require.Equal(t, StateComplete, sim.State())

	sim.Reset()
	assert.Equal(t, StateIdle, sim.State())
	assert.Zero(t, sim.Progress())
	assert.Empty(t, sim.AppID())
	assert.False(t, sim.Tick(h).Applied)
}

func TestSimulator_ZeroHandleIgnored(t *testing.T) {
	sim := NewSimulator(steps(10))
	sim.Start()

	res := sim.Tick(Handle{})
	assert.False(t, res.Applied)
	assert.Zero(t, sim.Progress())
}

func TestRandomSource_Bounds(t *testing.T) {
	src := NewSeededSource(15, 7)
	for i := 0; i < 10000; i++ {
		v := src.Next()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 15.0)
	}
}

func TestRandomSource_SeedIsDeterministic(t *testing.T) {
	a := NewSeededSource(15, 99)
	b := NewSeededSource(15, 99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "in-progress", StateInProgress.String())
	assert.Equal(t, "complete", StateComplete.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestDrive_Completes(t *testing.T) {
	sim := NewSimulator(steps(50), fixedID("driven"))

	var seen []float64
	id, err := Drive(context.Background(), sim, time.Millisecond, func(r TickResult) {
		seen = append(seen, r.Progress)
	})

	require.NoError(t, err)
	assert.Equal(t, "driven", id)
	assert.Equal(t, []float64{50, 100}, seen)
	assert.Equal(t, StateComplete, sim.State())
}

func TestDrive_ContextCancelStopsRun(t *testing.T) {
	sim := NewSimulator(steps(0))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Drive(ctx, sim, time.Millisecond, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateIdle, sim.State())
}

func TestDrive_BusySimulator(t *testing.T) {
	sim := NewSimulator(steps(1))
	sim.Start()

	_, err := Drive(context.Background(), sim, time.Millisecond, nil)
	assert.ErrorIs(t, err, ErrBusy)
}
