package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LucasNeuro/fta-form-sub000/internal/cora"
	"github.com/LucasNeuro/fta-form-sub000/internal/model"
)

// ErrReconcileRunning is returned when a reconciliation is already in flight.
var ErrReconcileRunning = errors.New("reconciliation already running")

// syncWorkers bounds the provider queries issued concurrently during the
// sync phase.
const syncWorkers = 4

// Reconcile brings the ledger in line with provider truth in two ordered
// phases: first expire paid rows whose validity window has lapsed, then sync
// outstanding rows against the provider. The run is best-effort — a failing
// invoice never aborts the batch — and reports counts instead of failing.
func (s *Service) Reconcile(ctx context.Context) (*model.ReconcileSummary, error) {
	if !s.recMu.TryLock() {
		return nil, ErrReconcileRunning
	}
	defer s.recMu.Unlock()

	summary := &model.ReconcileSummary{}
	now := time.Now()

	s.expirePhase(ctx, now, summary)
	s.syncPhase(ctx, summary)

	s.log.Info().
		Int("expired", summary.Expired).
		Int("updated", summary.Updated).
		Int("errors", summary.Errors).
		Msg("reconciliation finished")
	return summary, nil
}

// expirePhase flips pago rows older than the validity window back to
// pendente. data_pagamento stays: expiry renews the obligation, it does not
// erase payment history.
func (s *Service) expirePhase(ctx context.Context, now time.Time, summary *model.ReconcileSummary) {
	paid, err := s.invoices.ListPaid(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("expiry phase: failed to list paid invoices")
		summary.Errors++
		return
	}

	for _, inv := range paid {
		if inv.DataPagamento == nil || IsPaymentValid(*inv.DataPagamento, now) {
			continue
		}
		if err := s.invoices.UpdateStatus(ctx, inv.ID, model.InvoiceStatusPendente, nil); err != nil {
			s.log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("expiry phase: failed to expire invoice")
			summary.Errors++
			continue
		}
		summary.Expired++
		if err := s.teams.SetBilling(ctx, inv.EquipeID, inv.Valor, false); err != nil {
			s.log.Warn().Err(err).Str("equipe_id", inv.EquipeID.String()).Msg("failed to sync legacy billing columns")
		}
	}
}

// syncPhase queries the provider for every outstanding invoice through a
// bounded worker pool. Failures are isolated per invoice; a provider-side 404
// (the charge vanished) is ignored rather than counted.
func (s *Service) syncPhase(ctx context.Context, summary *model.ReconcileSummary) {
	outstanding, err := s.invoices.ListForSync(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("sync phase: failed to list outstanding invoices")
		summary.Errors++
		return
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, syncWorkers)
	)

	for _, inv := range outstanding {
		wg.Add(1)
		sem <- struct{}{}
		go func(inv *model.Invoice) {
			defer wg.Done()
			defer func() { <-sem }()

			updated, err := s.syncOne(ctx, inv)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Errors++
			} else if updated {
				summary.Updated++
			}
		}(inv)
	}
	wg.Wait()
}

func (s *Service) syncOne(ctx context.Context, inv *model.Invoice) (bool, error) {
	prov, err := s.provider.GetInvoice(ctx, *inv.CoraInvoiceID)
	if err != nil {
		if cora.IsNotFound(err) {
			s.log.Warn().Str("invoice_id", inv.ID.String()).Msg("invoice no longer exists at provider, skipping")
			return false, nil
		}
		s.log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("sync phase: provider query failed")
		return false, err
	}

	status, ok := MapProviderStatus(prov.Status)
	if !ok || status == inv.Status {
		// OPEN and IN_PAYMENT leave the local row alone.
		if prov.Status == cora.StatusInPayment {
			s.log.Info().Str("invoice_id", inv.ID.String()).Msg("pix charge settling, leaving pending")
		}
		return false, nil
	}

	var paidAt *time.Time
	if status == model.InvoiceStatusPago {
		t := parseOccurrence(prov.OccurrenceDate, time.Now())
		paidAt = &t
	}

	if err := s.invoices.UpdateStatus(ctx, inv.ID, status, paidAt); err != nil {
		s.log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("sync phase: failed to update status")
		return false, err
	}

	if status == model.InvoiceStatusPago {
		s.onInvoicePaid(ctx, inv, *paidAt)
	}

	return true, nil
}

// onInvoicePaid handles the side effects of a newly-settled invoice: legacy
// team columns and the confirmation email. Both are best-effort.
func (s *Service) onInvoicePaid(ctx context.Context, inv *model.Invoice, paidAt time.Time) {
	if err := s.teams.SetBilling(ctx, inv.EquipeID, inv.Valor, true); err != nil {
		s.log.Warn().Err(err).Str("equipe_id", inv.EquipeID.String()).Msg("failed to sync legacy billing columns")
	}

	team, err := s.teams.Get(ctx, inv.EquipeID)
	if err != nil {
		s.log.Warn().Err(err).Str("equipe_id", inv.EquipeID.String()).Msg("failed to load team for payment email")
		return
	}
	if err := s.mailer.SendPaymentConfirmation(ctx, team.Email, team.Nome, inv.Valor, paidAt); err != nil {
		s.log.Warn().Err(err).Str("equipe_id", inv.EquipeID.String()).Msg("failed to send payment confirmation email")
	}
}

// MapProviderStatus translates a provider-reported status into the local
// enum. The second return is false for transient states that must not touch
// the local row.
func MapProviderStatus(status string) (model.InvoiceStatus, bool) {
	switch status {
	case cora.StatusPaid:
		return model.InvoiceStatusPago, true
	case cora.StatusLate:
		return model.InvoiceStatusVencido, true
	case cora.StatusCancelled:
		return model.InvoiceStatusCancelado, true
	default: // OPEN, IN_PAYMENT
		return "", false
	}
}
