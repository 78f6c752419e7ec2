package billing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LucasNeuro/fta-form-sub000/internal/cora"
	"github.com/LucasNeuro/fta-form-sub000/internal/email"
	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
)

// ProviderClient is the slice of the Cora client the billing service needs.
type ProviderClient interface {
	CreateInvoice(ctx context.Context, req cora.InvoiceRequest) (*cora.Invoice, error)
	GetInvoice(ctx context.Context, providerID string) (*cora.Invoice, error)
	CancelInvoice(ctx context.Context, providerID string) error
}

type Service struct {
	invoices repository.InvoiceRepository
	teams    repository.TeamRepository
	plans    repository.PlanRepository
	provider ProviderClient
	mailer   email.Mailer
	log      zerolog.Logger

	// recMu serializes reconciliation runs; a second trigger while one is
	// in flight is refused instead of queued.
	recMu sync.Mutex
}

func NewService(
	invoices repository.InvoiceRepository,
	teams repository.TeamRepository,
	plans repository.PlanRepository,
	provider ProviderClient,
	mailer email.Mailer,
	log zerolog.Logger,
) *Service {
	return &Service{
		invoices: invoices,
		teams:    teams,
		plans:    plans,
		provider: provider,
		mailer:   mailer,
		log:      log.With().Str("component", "billing").Logger(),
	}
}

// CreateInvoice issues a charge with the provider and, only on acceptance,
// records it in the ledger. A provider failure leaves no local row behind.
func (s *Service) CreateInvoice(ctx context.Context, req *model.CreateInvoiceRequest, createdBy string) (*model.Invoice, error) {
	teamID, err := uuid.Parse(req.EquipeID)
	if err != nil {
		return nil, apperrors.BadRequest("equipe_id inválido", err)
	}

	team, err := s.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("equipe", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var planID *uuid.UUID
	serviceName := "Inscrição FTA Brasil"
	if req.PlanoID != nil && *req.PlanoID != "" {
		id, err := uuid.Parse(*req.PlanoID)
		if err != nil {
			return nil, apperrors.BadRequest("plano_id inválido", err)
		}
		plan, err := s.plans.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("plano", err)
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		planID = &plan.ID
		serviceName = plan.Nome
	}

	dueDate, err := time.Parse("2006-01-02", req.Vencimento)
	if err != nil {
		return nil, apperrors.BadRequest("vencimento inválido, use YYYY-MM-DD", err)
	}

	description := req.Observacoes
	if description == "" {
		description = fmt.Sprintf("Cobrança %s - %s", serviceName, team.Nome)
	}

	prov, err := s.provider.CreateInvoice(ctx, cora.InvoiceRequest{
		TeamID:       team.ID,
		CustomerName: team.Capitao,
		Email:        team.Email,
		Document:     team.Documento,
		Address: cora.Address{
			Street:     team.Logradouro,
			Number:     team.Numero,
			District:   team.Bairro,
			City:       team.Cidade,
			State:      team.Estado,
			Complement: team.Complemento,
			ZipCode:    team.CEP,
		},
		ServiceName: serviceName,
		Description: description,
		Amount:      req.Valor,
		DueDate:     dueDate,
		Pix:         req.FormaPag == string(model.PaymentMethodPix),
		Recurring:   req.Tipo == string(model.InvoiceTypeRecorrente),
	})
	if err != nil {
		return nil, mapProviderError(err)
	}

	inv := &model.Invoice{
		EquipeID:      team.ID,
		PlanoID:       planID,
		CoraInvoiceID: &prov.ID,
		Valor:         req.Valor,
		Vencimento:    dueDate,
		Tipo:          model.InvoiceType(req.Tipo),
		FormaPag:      model.PaymentMethod(req.FormaPag),
		Status:        model.InvoiceStatusPendente,
		Observacoes:   req.Observacoes,
		CriadoPor:     createdBy,
	}

	// Pix charges can settle immediately; honor a PAID response at creation.
	if prov.Status == cora.StatusPaid {
		paidAt := parseOccurrence(prov.OccurrenceDate, time.Now())
		inv.Status = model.InvoiceStatusPago
		inv.DataPagamento = &paidAt
	}

	if prov.PDFURL != "" {
		inv.PdfURL = &prov.PDFURL
	}
	if prov.Pix != nil {
		if prov.Pix.QRCodeURL != "" {
			inv.PixQrCode = &prov.Pix.QRCodeURL
		}
		if prov.Pix.EMV != "" {
			inv.PixCopyPaste = &prov.Pix.EMV
		}
		if prov.Pix.PaymentURL != "" {
			inv.PixPaymentURL = &prov.Pix.PaymentURL
		}
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		// The provider accepted the charge but we failed to record it.
		// Surface loudly; the next reconciliation cannot recover a row
		// that was never written.
		s.log.Error().Err(err).Str("cora_invoice_id", prov.ID).Msg("invoice accepted by provider but not persisted")
		return nil, apperrors.Internal(err)
	}

	if err := s.teams.SetBilling(ctx, team.ID, inv.Valor, inv.Status == model.InvoiceStatusPago); err != nil {
		s.log.Warn().Err(err).Str("equipe_id", team.ID.String()).Msg("failed to sync legacy billing columns")
	}

	return inv, nil
}

// CancelInvoice cancels with the provider first; the local row is only
// touched after the provider confirmed. Cancelling an already-cancelled
// invoice is a no-op.
func (s *Service) CancelInvoice(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoices.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("boleto", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}

	if inv.Status == model.InvoiceStatusCancelado {
		return nil
	}

	if inv.CoraInvoiceID != nil {
		if err := s.provider.CancelInvoice(ctx, *inv.CoraInvoiceID); err != nil {
			return mapProviderError(err)
		}
	}

	err = s.invoices.UpdateStatus(ctx, id, model.InvoiceStatusCancelado, nil)
	if errors.Is(err, repository.ErrTerminalStatus) {
		return nil
	}
	if err != nil {
		return apperrors.Internal(err)
	}

	s.log.Info().Str("invoice_id", id.String()).Msg("invoice cancelled")
	return nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("boleto", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	invoices, err := s.invoices.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return invoices, nil
}

func (s *Service) Totals(ctx context.Context) (*model.BillingTotals, error) {
	totals, err := s.invoices.Totals(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return totals, nil
}

// mapProviderError converts structured provider errors into the application
// taxonomy, keeping the provider's validation detail reachable via Unwrap.
func mapProviderError(err error) error {
	var ce *cora.Error
	if !errors.As(err, &ce) {
		return apperrors.Internal(err)
	}
	switch ce.Kind {
	case cora.KindValidation:
		return apperrors.BadRequest(ce.Message, ce)
	case cora.KindAuth:
		return apperrors.Unauthorized("token do provedor inválido ou expirado", ce)
	case cora.KindNotFound:
		return apperrors.NotFound("cobrança no provedor", ce)
	case cora.KindTransport:
		return apperrors.Unavailable("falha de comunicação com o provedor de pagamento", ce)
	default:
		return apperrors.Internal(ce)
	}
}

// parseOccurrence accepts the provider's occurrence date in either timestamp
// or date-only form, falling back to the given instant.
func parseOccurrence(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	return fallback
}
