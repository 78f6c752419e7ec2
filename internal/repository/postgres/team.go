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

const teamColumns = `
	id, nome, capitao, email, documento, telefone, logradouro, numero, bairro,
	cidade, estado, cep, complemento, qtd_atletas, qtd_operadores, plano_id,
	pagamento_efetuado, valor_cobrado, created_at, updated_at`

func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	query := `
		INSERT INTO equipes (
			id, nome, capitao, email, documento, telefone, logradouro, numero,
			bairro, cidade, estado, cep, complemento, qtd_atletas,
			qtd_operadores, plano_id, pagamento_efetuado, valor_cobrado,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	team.ID = uuid.New()
	team.CreatedAt = time.Now()
	team.UpdatedAt = team.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		team.ID, team.Nome, team.Capitao, team.Email, team.Documento,
		team.Telefone, team.Logradouro, team.Numero, team.Bairro, team.Cidade,
		team.Estado, team.CEP, team.Complemento, team.QtdAtletas,
		team.QtdOperadores, team.PlanoID, team.PagamentoEfetuado,
		team.ValorCobrado, team.CreatedAt, team.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *teamRepository) Get(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM equipes WHERE id = $1`

	var team model.Team
	err := r.db.GetContext(ctx, &team, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

func (r *teamRepository) Update(ctx context.Context, team *model.Team) error {
	query := `
		UPDATE equipes
		SET nome = $2, capitao = $3, email = $4, documento = $5, telefone = $6,
		    logradouro = $7, numero = $8, bairro = $9, cidade = $10,
		    estado = $11, cep = $12, complemento = $13, qtd_atletas = $14,
		    qtd_operadores = $15, plano_id = $16, updated_at = $17
		WHERE id = $1
	`
	team.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		team.ID, team.Nome, team.Capitao, team.Email, team.Documento,
		team.Telefone, team.Logradouro, team.Numero, team.Bairro, team.Cidade,
		team.Estado, team.CEP, team.Complemento, team.QtdAtletas,
		team.QtdOperadores, team.PlanoID, team.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
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

func (r *teamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM equipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
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

func (r *teamRepository) List(ctx context.Context) ([]*model.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM equipes ORDER BY nome ASC`

	var teams []*model.Team
	if err := r.db.SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (r *teamRepository) SetBilling(ctx context.Context, id uuid.UUID, valorCobrado float64, pagamentoEfetuado bool) error {
	query := `
		UPDATE equipes
		SET valor_cobrado = $2, pagamento_efetuado = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, valorCobrado, pagamentoEfetuado, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update team billing: %w", err)
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
