package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
)

func (r *annotationRepository) Create(ctx context.Context, a *model.Annotation) error {
	query := `
		INSERT INTO anotacoes (
			id, equipe_id, operador_id, tipo, descricao, data, criado_por, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	a.ID = uuid.New()
	a.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.EquipeID, a.OperadorID, a.Tipo, a.Descricao, a.Data,
		a.CriadoPor, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create annotation: %w", err)
	}
	return nil
}

func (r *annotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM anotacoes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
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

func (r *annotationRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*model.Annotation, error) {
	query := `
		SELECT id, equipe_id, operador_id, tipo, descricao, data, criado_por, created_at
		FROM anotacoes
		WHERE equipe_id = $1
		ORDER BY data DESC
	`
	var annotations []*model.Annotation
	if err := r.db.SelectContext(ctx, &annotations, query, teamID); err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}
	return annotations, nil
}
