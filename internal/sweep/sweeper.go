// Package sweep reclaims abandoned pending reservations on a timer.
package sweep

import (
	"context"
	"log"
	"time"

	"rental-booking-backend/config"
	"rental-booking-backend/internal/booking"
)

// Runner periodically cancels pending reservations that have outlived
// the configured timeout.
type Runner struct {
	cfg *config.BookingConfig
	svc booking.Service
}

// NewRunner creates a new sweep runner.
func NewRunner(cfg *config.BookingConfig, svc booking.Service) *Runner {
	return &Runner{cfg: cfg, svc: svc}
}

// Run starts the sweep loop. A failed sweep is logged and simply
// retried on the next tick; the predicate is re-evaluated every run,
// so nothing is lost.
func (r *Runner) Run(ctx context.Context) {
	if !r.cfg.SweepEnabled {
		log.Println("Expiration sweeper is disabled. Not starting.")
		return
	}
	log.Println("Starting expiration sweeper...")

	r.SweepOnce(ctx)

	timer := time.NewTimer(r.cfg.SweepInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Expiration sweeper shutting down.")
			return
		case <-timer.C:
			r.SweepOnce(ctx)
			timer.Reset(r.cfg.SweepInterval)
		}
	}
}

// SweepOnce performs a single sweep pass.
func (r *Runner) SweepOnce(ctx context.Context) {
	swept, err := r.svc.SweepExpired(ctx, r.cfg.PendingTimeout)
	if err != nil {
		log.Printf("Sweep pass failed: %v", err)
		return
	}
	if swept > 0 {
		log.Printf("Sweep pass cancelled %d expired pending reservations", swept)
	}
}
