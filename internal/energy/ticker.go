package energy

import (
	"context"
	"time"
)

// DefaultTickInterval is the background regeneration cadence.
const DefaultTickInterval = time.Second

// Ticker drives Engine.Tick on a fixed cadence until the context is
// cancelled at process shutdown.
type Ticker struct {
	Engine   *Engine
	Interval time.Duration
}

func (t *Ticker) Run(ctx context.Context) {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Engine.Tick()
		}
	}
}
