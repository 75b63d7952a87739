// Package rollover starts the new budget periods of envelopes in the background.
package rollover

import (
	"context"
	"time"

	"github.com/coincraft/backend/internal/ledger"
	"github.com/rs/zerolog/log"
)

// Worker rolls over the envelopes of all owners in a fixed interval.
type Worker struct {
	Interval time.Duration
	Now      func() time.Time // Defaults to time.Now
}

// New returns a worker that runs every interval.
func New(interval time.Duration) *Worker {
	return &Worker{
		Interval: interval,
		Now:      time.Now,
	}
}

// Once rolls over all due envelopes and returns how many were rolled over.
func (w *Worker) Once(ctx context.Context) (int, error) {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	results, err := ledger.Rollover(ctx, "", now())
	return len(results), err
}

// Run rolls over the due envelopes on start and then every interval until
// ctx is cancelled. Failed runs are logged and retried on the next tick.
//
// A worker with an interval of zero returns immediately.
func (w *Worker) Run(ctx context.Context) error {
	if w.Interval <= 0 {
		log.Info().Msg("rollover worker disabled")
		return nil
	}

	log.Info().Dur("interval", w.Interval).Msg("rollover worker started")

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		w.run(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("rollover worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Worker) run(ctx context.Context) {
	start := time.Now()

	count, err := w.Once(ctx)
	if err != nil {
		// A run interrupted by shutdown is not a failure
		if ctx.Err() != nil {
			return
		}

		log.Error().Err(err).Int("envelopes", count).Msg("rollover failed")
		return
	}

	log.Info().Int("envelopes", count).Dur("duration", time.Since(start)).Msg("rollover complete")
}
