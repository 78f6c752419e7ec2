package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/LucasNeuro/fta-form-sub000/internal/service/billing"
)

// ReconcileWorker runs the billing reconciliation on a fixed interval. The
// same engine also backs the manual trigger endpoint; the service-level lock
// keeps the two from overlapping.
type ReconcileWorker struct {
	billing  *billing.Service
	interval time.Duration
	log      zerolog.Logger
}

func NewReconcileWorker(billingService *billing.Service, interval time.Duration, log zerolog.Logger) *ReconcileWorker {
	return &ReconcileWorker{
		billing:  billingService,
		interval: interval,
		log:      log.With().Str("component", "reconcile_worker").Logger(),
	}
}

// Start blocks until ctx is cancelled; run it in its own goroutine.
func (w *ReconcileWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("reconcile worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("reconcile worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *ReconcileWorker) run(ctx context.Context) {
	summary, err := w.billing.Reconcile(ctx)
	if errors.Is(err, billing.ErrReconcileRunning) {
		w.log.Warn().Msg("skipping tick, reconciliation already running")
		return
	}
	if err != nil {
		w.log.Error().Err(err).Msg("scheduled reconciliation failed")
		return
	}
	w.log.Info().
		Int("expired", summary.Expired).
		Int("updated", summary.Updated).
		Int("errors", summary.Errors).
		Msg("scheduled reconciliation finished")
}
