package engine

import (
	"math"
	"time"
)

// MultiplierAt returns the public multiplier value for a round at the given
// elapsed time. The curve grows linearly from 1.0 to the crash point over the
// crash duration and is clamped at the crash point afterwards, so the value
// is monotonic non-decreasing within a round.
func MultiplierAt(crashPoint float64, crashDuration, elapsed time.Duration) float64 {
	if crashDuration <= 0 || elapsed >= crashDuration {
		return crashPoint
	}
	progress := float64(elapsed) / float64(crashDuration)
	m := 1.0 + (crashPoint-1.0)*progress
	return math.Round(m*100) / 100
}

// runMultiplier drives one round's tick sequence on a fixed cadence. Each
// tick is enqueued as a command stamped with the round epoch; the game loop
// drops ticks from retired epochs. The terminal tick carries the crash point
// exactly, and nothing is emitted after it.
func (e *Engine) runMultiplier(epoch uint64, crashPoint float64, crashDuration time.Duration, startTime time.Time, stop <-chan struct{}) {
	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			elapsed := time.Since(startTime)
			if elapsed >= crashDuration {
				e.enqueue(tickCmd{epoch: epoch, multiplier: crashPoint, terminal: true, elapsed: elapsed})
				return
			}
			e.enqueue(tickCmd{epoch: epoch, multiplier: MultiplierAt(crashPoint, crashDuration, elapsed), elapsed: elapsed})
		}
	}
}
