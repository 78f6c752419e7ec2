package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/billing"
)

// Denial reasons. The gate distinguishes them internally so the dashboard can
// tell the captain what to fix, but an invalid link and a disabled link look
// the same from the outside.
var (
	ErrLinkInvalid = errors.New("access link is invalid or disabled")
	ErrNoPayment   = errors.New("team has no paid invoice")
)

// ExpiredError carries the day the last payment stopped counting.
type ExpiredError struct {
	ValidUntil time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("payment validity expired on %s", e.ValidUntil.Format("2006-01-02"))
}

type Service struct {
	links       repository.AccessLinkRepository
	invoices    repository.InvoiceRepository
	teams       repository.TeamRepository
	operators   repository.OperatorRepository
	annotations repository.AnnotationRepository
	log         zerolog.Logger
}

func NewService(
	links repository.AccessLinkRepository,
	invoices repository.InvoiceRepository,
	teams repository.TeamRepository,
	operators repository.OperatorRepository,
	annotations repository.AnnotationRepository,
	log zerolog.Logger,
) *Service {
	return &Service{
		links:       links,
		invoices:    invoices,
		teams:       teams,
		operators:   operators,
		annotations: annotations,
		log:         log.With().Str("component", "access").Logger(),
	}
}

// Check is the access gate: token must resolve to an active link, the linked
// team must have a paid invoice, and that payment must still be inside the
// validity window. The window rule is the same one the reconciliation engine
// applies, so a team the gate admits is exactly a team reconciliation would
// not expire.
func (s *Service) Check(ctx context.Context, token string) (*model.TeamDashboard, error) {
	link, err := s.links.GetActiveByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLinkInvalid
	}
	if err != nil {
		return nil, err
	}

	paid, err := s.invoices.LatestPaid(ctx, link.EquipeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoPayment
	}
	if err != nil {
		return nil, err
	}
	if paid.DataPagamento == nil {
		return nil, ErrNoPayment
	}

	validUntil := billing.ValidUntil(*paid.DataPagamento)
	if !billing.IsPaymentValid(*paid.DataPagamento, time.Now()) {
		return nil, &ExpiredError{ValidUntil: validUntil}
	}

	team, err := s.teams.Get(ctx, link.EquipeID)
	if err != nil {
		return nil, err
	}
	operators, err := s.operators.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	annotations, err := s.annotations.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	if err := s.links.TouchAccess(ctx, link.ID, time.Now()); err != nil {
		s.log.Warn().Err(err).Str("link_id", link.ID.String()).Msg("failed to stamp link access")
	}

	return &model.TeamDashboard{
		Equipe:     team,
		Operadores: operators,
		Anotacoes:  annotations,
		ValidUntil: validUntil,
	}, nil
}
