package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
)

func (r *operatorRepository) Create(ctx context.Context, op *model.Operator) error {
	query := `
		INSERT INTO operadores (
			id, equipe_id, nome, documento, funcao, email, telefone,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	op.ID = uuid.New()
	op.CreatedAt = time.Now()
	op.UpdatedAt = op.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		op.ID, op.EquipeID, op.Nome, op.Documento, op.Funcao, op.Email,
		op.Telefone, op.CreatedAt, op.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create operator: %w", err)
	}
	return nil
}

func (r *operatorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Operator, error) {
	query := `
		SELECT id, equipe_id, nome, documento, funcao, email, telefone,
		       created_at, updated_at
		FROM operadores WHERE id = $1
	`
	var op model.Operator
	err := r.db.GetContext(ctx, &op, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	return &op, nil
}

func (r *operatorRepository) Update(ctx context.Context, op *model.Operator) error {
	query := `
		UPDATE operadores
		SET nome = $2, documento = $3, funcao = $4, email = $5, telefone = $6,
		    updated_at = $7
		WHERE id = $1
	`
	op.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		op.ID, op.Nome, op.Documento, op.Funcao, op.Email, op.Telefone, op.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update operator: %w", err)
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

func (r *operatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM operadores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete operator: %w", err)
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

func (r *operatorRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*model.Operator, error) {
	query := `
		SELECT id, equipe_id, nome, documento, funcao, email, telefone,
		       created_at, updated_at
		FROM operadores
		WHERE equipe_id = $1
		ORDER BY nome ASC
	`
	var ops []*model.Operator
	if err := r.db.SelectContext(ctx, &ops, query, teamID); err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	return ops, nil
}
