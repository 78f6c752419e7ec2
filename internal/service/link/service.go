package link

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/team"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
)

const tokenBytes = 24

// Service manages the two kinds of shareable links: access links that open a
// team dashboard and registration links that let teams self-register.
type Service struct {
	accessLinks       repository.AccessLinkRepository
	registrationLinks repository.RegistrationLinkRepository
	teams             *team.Service
	log               zerolog.Logger
}

func NewService(
	accessLinks repository.AccessLinkRepository,
	registrationLinks repository.RegistrationLinkRepository,
	teams *team.Service,
	log zerolog.Logger,
) *Service {
	return &Service{
		accessLinks:       accessLinks,
		registrationLinks: registrationLinks,
		teams:             teams,
		log:               log.With().Str("component", "link").Logger(),
	}
}

func (s *Service) CreateAccessLink(ctx context.Context, req *model.CreateAccessLinkRequest, createdBy string) (*model.AccessLink, error) {
	teamID, err := uuid.Parse(req.EquipeID)
	if err != nil {
		return nil, apperrors.BadRequest("equipe_id inválido", err)
	}
	if _, err := s.teams.Get(ctx, teamID); err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	link := &model.AccessLink{
		Token:     token,
		EquipeID:  teamID,
		Nome:      req.Nome,
		Ativo:     true,
		CriadoPor: createdBy,
	}
	if err := s.accessLinks.Create(ctx, link); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info().Str("equipe_id", teamID.String()).Str("link_id", link.ID.String()).Msg("access link created")
	return link, nil
}

func (s *Service) SetAccessLinkActive(ctx context.Context, id uuid.UUID, active bool) error {
	err := s.accessLinks.SetActive(ctx, id, active)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("link de acesso", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListAccessLinks(ctx context.Context) ([]*model.AccessLink, error) {
	links, err := s.accessLinks.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return links, nil
}

func (s *Service) ListAccessLinksByTeam(ctx context.Context, teamID uuid.UUID) ([]*model.AccessLink, error) {
	links, err := s.accessLinks.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return links, nil
}

func (s *Service) CreateRegistrationLink(ctx context.Context, req *model.CreateRegistrationLinkRequest, createdBy string) (*model.RegistrationLink, error) {
	token, err := newToken()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	link := &model.RegistrationLink{
		Token:     token,
		Nome:      req.Nome,
		Ativo:     true,
		CriadoPor: createdBy,
	}
	if err := s.registrationLinks.Create(ctx, link); err != nil {
		return nil, apperrors.Internal(err)
	}
	return link, nil
}

func (s *Service) SetRegistrationLinkActive(ctx context.Context, id uuid.UUID, active bool) error {
	err := s.registrationLinks.SetActive(ctx, id, active)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("link de cadastro", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListRegistrationLinks(ctx context.Context) ([]*model.RegistrationLink, error) {
	links, err := s.registrationLinks.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return links, nil
}

// RegisterTeam is the public self-registration flow: a valid registration
// token admits the team, and the use counter goes up on success.
func (s *Service) RegisterTeam(ctx context.Context, token string, req *model.CreateTeamRequest) (*model.Team, error) {
	link, err := s.registrationLinks.GetActiveByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Forbidden("link de cadastro inválido ou desativado", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	created, err := s.teams.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.registrationLinks.IncrementUses(ctx, link.ID); err != nil {
		s.log.Warn().Err(err).Str("link_id", link.ID.String()).Msg("failed to increment registration link uses")
	}

	s.log.Info().Str("equipe_id", created.ID.String()).Str("link_id", link.ID.String()).Msg("team self-registered")
	return created, nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
