package operator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
)

// Service manages team rosters: operators plus the disciplinary annotations
// filed against them.
type Service struct {
	operators   repository.OperatorRepository
	annotations repository.AnnotationRepository
	teams       repository.TeamRepository
	log         zerolog.Logger
}

func NewService(
	operators repository.OperatorRepository,
	annotations repository.AnnotationRepository,
	teams repository.TeamRepository,
	log zerolog.Logger,
) *Service {
	return &Service{
		operators:   operators,
		annotations: annotations,
		teams:       teams,
		log:         log.With().Str("component", "operator").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateOperatorRequest) (*model.Operator, error) {
	teamID, err := uuid.Parse(req.EquipeID)
	if err != nil {
		return nil, apperrors.BadRequest("equipe_id inválido", err)
	}
	if _, err := s.teams.Get(ctx, teamID); errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("equipe", err)
	} else if err != nil {
		return nil, apperrors.Internal(err)
	}

	op := &model.Operator{
		EquipeID:  teamID,
		Nome:      req.Nome,
		Documento: req.Documento,
		Funcao:    req.Funcao,
		Email:     req.Email,
		Telefone:  req.Telefone,
	}
	if err := s.operators.Create(ctx, op); err != nil {
		return nil, apperrors.Internal(err)
	}
	return op, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Operator, error) {
	op, err := s.operators.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("operador", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return op, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateOperatorRequest) (*model.Operator, error) {
	op, err := s.operators.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("operador", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if req.Nome != nil {
		op.Nome = *req.Nome
	}
	if req.Documento != nil {
		op.Documento = *req.Documento
	}
	if req.Funcao != nil {
		op.Funcao = *req.Funcao
	}
	if req.Email != nil {
		op.Email = *req.Email
	}
	if req.Telefone != nil {
		op.Telefone = *req.Telefone
	}

	if err := s.operators.Update(ctx, op); err != nil {
		return nil, apperrors.Internal(err)
	}
	return op, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.operators.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("operador", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*model.Operator, error) {
	ops, err := s.operators.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return ops, nil
}

func (s *Service) CreateAnnotation(ctx context.Context, req *model.CreateAnnotationRequest, createdBy string) (*model.Annotation, error) {
	teamID, err := uuid.Parse(req.EquipeID)
	if err != nil {
		return nil, apperrors.BadRequest("equipe_id inválido", err)
	}
	if _, err := s.teams.Get(ctx, teamID); errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("equipe", err)
	} else if err != nil {
		return nil, apperrors.Internal(err)
	}

	var operatorID *uuid.UUID
	if req.OperadorID != nil && *req.OperadorID != "" {
		id, err := uuid.Parse(*req.OperadorID)
		if err != nil {
			return nil, apperrors.BadRequest("operador_id inválido", err)
		}
		op, err := s.operators.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("operador", err)
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if op.EquipeID != teamID {
			return nil, apperrors.BadRequest("operador não pertence à equipe informada", nil)
		}
		operatorID = &op.ID
	}

	date, err := time.Parse("2006-01-02", req.Data)
	if err != nil {
		return nil, apperrors.BadRequest("data inválida, use YYYY-MM-DD", err)
	}

	a := &model.Annotation{
		EquipeID:   teamID,
		OperadorID: operatorID,
		Tipo:       req.Tipo,
		Descricao:  req.Descricao,
		Data:       date,
		CriadoPor:  createdBy,
	}
	if err := s.annotations.Create(ctx, a); err != nil {
		return nil, apperrors.Internal(err)
	}
	return a, nil
}

func (s *Service) DeleteAnnotation(ctx context.Context, id uuid.UUID) error {
	err := s.annotations.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("anotação", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListAnnotations(ctx context.Context, teamID uuid.UUID) ([]*model.Annotation, error) {
	annotations, err := s.annotations.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return annotations, nil
}
