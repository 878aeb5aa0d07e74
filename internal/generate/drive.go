package generate

import (
	"context"
	"errors"
	"time"
)

// ErrBusy is returned by Drive when the simulator already has a run going.
var ErrBusy = errors.New("generation already in progress")

// Drive runs a full generation on sim outside of a UI loop, ticking every
// interval. onTick, if non-nil, sees every applied tick. It returns the app id
// on completion, or the context error after cancelling the run.
func Drive(ctx context.Context, sim *Simulator, interval time.Duration, onTick func(TickResult)) (string, error) {
	h, ok := sim.Start()
	if !ok {
		return "", ErrBusy
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sim.Cancel()
			return "", ctx.Err()
		case <-ticker.C:
			res := sim.Tick(h)
			if !res.Applied {
				// Someone else reset the simulator under us.
				return "", context.Canceled
			}
			if onTick != nil {
				onTick(res)
			}
			if res.Completed {
				return res.AppID, nil
			}
		}
	}
}
