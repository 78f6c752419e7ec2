package plan

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
)

type Service struct {
	plans repository.PlanRepository
	log   zerolog.Logger
}

func NewService(plans repository.PlanRepository, log zerolog.Logger) *Service {
	return &Service{
		plans: plans,
		log:   log.With().Str("component", "plan").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePlanRequest) (*model.Plan, error) {
	plan := &model.Plan{
		Nome:  req.Nome,
		Valor: req.Valor,
		Ativo: true,
	}
	if req.Ativo != nil {
		plan.Ativo = *req.Ativo
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, apperrors.Internal(err)
	}
	return plan, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	plan, err := s.plans.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("plano", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return plan, nil
}

// Update changes the plan going forward only; invoices already issued keep
// the valor they were created with.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePlanRequest) (*model.Plan, error) {
	plan, err := s.plans.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("plano", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if req.Nome != nil {
		plan.Nome = *req.Nome
	}
	if req.Valor != nil {
		if *req.Valor <= 0 {
			return nil, apperrors.BadRequest("valor deve ser maior que zero", nil)
		}
		plan.Valor = *req.Valor
	}
	if req.Ativo != nil {
		plan.Ativo = *req.Ativo
	}

	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, apperrors.Internal(err)
	}
	return plan, nil
}

// Delete removes the plan; referencing teams and invoices lose the link but
// keep their copied valor.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.plans.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("plano", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	s.log.Info().Str("plano_id", id.String()).Msg("plan deleted")
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Plan, error) {
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return plans, nil
}
