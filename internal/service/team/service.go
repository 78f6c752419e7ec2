package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
	"github.com/LucasNeuro/fta-form-sub000/pkg/validator"
)

type Service struct {
	teams repository.TeamRepository
	plans repository.PlanRepository
	log   zerolog.Logger
}

func NewService(teams repository.TeamRepository, plans repository.PlanRepository, log zerolog.Logger) *Service {
	return &Service{
		teams: teams,
		plans: plans,
		log:   log.With().Str("component", "team").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateTeamRequest) (*model.Team, error) {
	if !validator.IsCPFCNPJ(req.Documento) {
		return nil, apperrors.BadRequest("documento inválido: informe um CPF ou CNPJ", nil)
	}

	var planID *uuid.UUID
	if req.PlanoID != nil && *req.PlanoID != "" {
		id, err := uuid.Parse(*req.PlanoID)
		if err != nil {
			return nil, apperrors.BadRequest("plano_id inválido", err)
		}
		if _, err := s.plans.Get(ctx, id); errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("plano", err)
		} else if err != nil {
			return nil, apperrors.Internal(err)
		}
		planID = &id
	}

	team := &model.Team{
		Nome:          req.Nome,
		Capitao:       req.Capitao,
		Email:         req.Email,
		Documento:     req.Documento,
		Telefone:      req.Telefone,
		Logradouro:    req.Logradouro,
		Numero:        req.Numero,
		Bairro:        req.Bairro,
		Cidade:        req.Cidade,
		Estado:        req.Estado,
		CEP:           req.CEP,
		Complemento:   req.Complemento,
		QtdAtletas:    req.QtdAtletas,
		QtdOperadores: req.QtdOperadores,
		PlanoID:       planID,
	}
	err := s.teams.Create(ctx, team)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.Conflict("equipe já cadastrada com este documento", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info().Str("equipe_id", team.ID.String()).Str("nome", team.Nome).Msg("team created")
	return team, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	team, err := s.teams.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("equipe", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return team, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTeamRequest) (*model.Team, error) {
	team, err := s.teams.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("equipe", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	applyTeamUpdate(team, req)

	if req.Documento != nil && !validator.IsCPFCNPJ(team.Documento) {
		return nil, apperrors.BadRequest("documento inválido: informe um CPF ou CNPJ", nil)
	}
	if req.PlanoID != nil {
		if *req.PlanoID == "" {
			team.PlanoID = nil
		} else {
			planID, err := uuid.Parse(*req.PlanoID)
			if err != nil {
				return nil, apperrors.BadRequest("plano_id inválido", err)
			}
			if _, err := s.plans.Get(ctx, planID); errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("plano", err)
			} else if err != nil {
				return nil, apperrors.Internal(err)
			}
			team.PlanoID = &planID
		}
	}

	if err := s.teams.Update(ctx, team); err != nil {
		return nil, apperrors.Internal(err)
	}
	return team, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.teams.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("equipe", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	s.log.Info().Str("equipe_id", id.String()).Msg("team deleted")
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return teams, nil
}

func applyTeamUpdate(team *model.Team, req *model.UpdateTeamRequest) {
	if req.Nome != nil {
		team.Nome = *req.Nome
	}
	if req.Capitao != nil {
		team.Capitao = *req.Capitao
	}
	if req.Email != nil {
		team.Email = *req.Email
	}
	if req.Documento != nil {
		team.Documento = *req.Documento
	}
	if req.Telefone != nil {
		team.Telefone = *req.Telefone
	}
	if req.Logradouro != nil {
		team.Logradouro = *req.Logradouro
	}
	if req.Numero != nil {
		team.Numero = *req.Numero
	}
	if req.Bairro != nil {
		team.Bairro = *req.Bairro
	}
	if req.Cidade != nil {
		team.Cidade = *req.Cidade
	}
	if req.Estado != nil {
		team.Estado = *req.Estado
	}
	if req.CEP != nil {
		team.CEP = *req.CEP
	}
	if req.Complemento != nil {
		team.Complemento = *req.Complemento
	}
	if req.QtdAtletas != nil {
		team.QtdAtletas = *req.QtdAtletas
	}
	if req.QtdOperadores != nil {
		team.QtdOperadores = *req.QtdOperadores
	}
}
