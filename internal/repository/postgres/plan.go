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

func (r *planRepository) Create(ctx context.Context, plan *model.Plan) error {
	query := `
		INSERT INTO planos (id, nome, valor, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		plan.ID, plan.Nome, plan.Valor, plan.Ativo, plan.CreatedAt, plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	query := `SELECT id, nome, valor, ativo, created_at, updated_at FROM planos WHERE id = $1`

	var plan model.Plan
	err := r.db.GetContext(ctx, &plan, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &plan, nil
}

func (r *planRepository) Update(ctx context.Context, plan *model.Plan) error {
	query := `
		UPDATE planos
		SET nome = $2, valor = $3, ativo = $4, updated_at = $5
		WHERE id = $1
	`
	plan.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		plan.ID, plan.Nome, plan.Valor, plan.Ativo, plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
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

// Delete removes the plan and nulls the weak references on teams and
// invoices. Historical valor copies on those rows are left alone.
func (r *planRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE equipes SET plano_id = NULL WHERE plano_id = $1`, id); err != nil {
		return fmt.Errorf("failed to detach plan from teams: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE boletos SET plano_id = NULL WHERE plano_id = $1`, id); err != nil {
		return fmt.Errorf("failed to detach plan from invoices: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM planos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return tx.Commit()
}

func (r *planRepository) List(ctx context.Context) ([]*model.Plan, error) {
	query := `SELECT id, nome, valor, ativo, created_at, updated_at FROM planos ORDER BY nome ASC`

	var plans []*model.Plan
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}
