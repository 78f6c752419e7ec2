package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
)

func (r *accessLinkRepository) Create(ctx context.Context, link *model.AccessLink) error {
	query := `
		INSERT INTO links_acesso_equipes (
			id, token, equipe_id, nome, ativo, ultimo_acesso, criado_por, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	link.ID = uuid.New()
	link.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		link.ID, link.Token, link.EquipeID, link.Nome, link.Ativo,
		link.UltimoAcesso, link.CriadoPor, link.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create access link: %w", err)
	}
	return nil
}

func (r *accessLinkRepository) Get(ctx context.Context, id uuid.UUID) (*model.AccessLink, error) {
	query := `
		SELECT id, token, equipe_id, nome, ativo, ultimo_acesso, criado_por, created_at
		FROM links_acesso_equipes WHERE id = $1
	`
	var link model.AccessLink
	err := r.db.GetContext(ctx, &link, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get access link: %w", err)
	}
	return &link, nil
}

// GetActiveByToken deliberately does not distinguish an unknown token from a
// disabled one; callers get the same denial either way.
func (r *accessLinkRepository) GetActiveByToken(ctx context.Context, token string) (*model.AccessLink, error) {
	query := `
		SELECT id, token, equipe_id, nome, ativo, ultimo_acesso, criado_por, created_at
		FROM links_acesso_equipes
		WHERE token = $1 AND ativo = true
	`
	var link model.AccessLink
	err := r.db.GetContext(ctx, &link, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get access link by token: %w", err)
	}
	return &link, nil
}

func (r *accessLinkRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE links_acesso_equipes SET ativo = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to toggle access link: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *accessLinkRepository) TouchAccess(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE links_acesso_equipes SET ultimo_acesso = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to stamp link access: %w", err)
	}
	return nil
}

func (r *accessLinkRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*model.AccessLink, error) {
	query := `
		SELECT id, token, equipe_id, nome, ativo, ultimo_acesso, criado_por, created_at
		FROM links_acesso_equipes
		WHERE equipe_id = $1
		ORDER BY created_at DESC
	`
	var links []*model.AccessLink
	if err := r.db.SelectContext(ctx, &links, query, teamID); err != nil {
		return nil, fmt.Errorf("failed to list access links: %w", err)
	}
	return links, nil
}

func (r *accessLinkRepository) List(ctx context.Context) ([]*model.AccessLink, error) {
	query := `
		SELECT id, token, equipe_id, nome, ativo, ultimo_acesso, criado_por, created_at
		FROM links_acesso_equipes
		ORDER BY created_at DESC
	`
	var links []*model.AccessLink
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("failed to list access links: %w", err)
	}
	return links, nil
}

func (r *registrationLinkRepository) Create(ctx context.Context, link *model.RegistrationLink) error {
	query := `
		INSERT INTO links_cadastro (id, token, nome, ativo, usos, criado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	link.ID = uuid.New()
	link.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		link.ID, link.Token, link.Nome, link.Ativo, link.Usos,
		link.CriadoPor, link.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create registration link: %w", err)
	}
	return nil
}

func (r *registrationLinkRepository) GetActiveByToken(ctx context.Context, token string) (*model.RegistrationLink, error) {
	query := `
		SELECT id, token, nome, ativo, usos, criado_por, created_at
		FROM links_cadastro
		WHERE token = $1 AND ativo = true
	`
	var link model.RegistrationLink
	err := r.db.GetContext(ctx, &link, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration link: %w", err)
	}
	return &link, nil
}

func (r *registrationLinkRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE links_cadastro SET ativo = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to toggle registration link: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *registrationLinkRepository) IncrementUses(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE links_cadastro SET usos = usos + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment link uses: %w", err)
	}
	return nil
}

func (r *registrationLinkRepository) List(ctx context.Context) ([]*model.RegistrationLink, error) {
	query := `
		SELECT id, token, nome, ativo, usos, criado_por, created_at
		FROM links_cadastro
		ORDER BY created_at DESC
	`
	var links []*model.RegistrationLink
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("failed to list registration links: %w", err)
	}
	return links, nil
}
