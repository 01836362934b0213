// Package worker provides the fixed-cadence drivers for the engine: one
// scheduler paces game ticks across every room, another paces lobby
// countdowns. A scheduler fires once per period until cancelled, so a
// room deleted between fires is simply never visited again and no timer
// can leak.
package worker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Scheduler fires a callback once per period. There is no backpressure:
// if a fire overruns the period the next one is delayed for everyone,
// never run concurrently.
type Scheduler struct {
	Name   string
	Period time.Duration
}

// Run invokes fn once per period until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, fn func(now time.Time)) {
	log.WithFields(log.Fields{
		"Scheduler": s.Name,
		"Period":    s.Period,
	}).Info("scheduler running")

	ticker := time.NewTicker(s.Period)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			fn(now)
		case <-ctx.Done():
			log.WithField("Scheduler", s.Name).Info("scheduler stopped")
			return
		}
	}
}
