package model

import (
	"time"

	"github.com/google/uuid"
)

// Team is an "equipe" registered with the federation. Column names follow the
// legacy schema, which is in Portuguese.
type Team struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Nome          string     `db:"nome" json:"nome"`
	Capitao       string     `db:"capitao" json:"capitao"`
	Email         string     `db:"email" json:"email"`
	Documento     string     `db:"documento" json:"documento"`
	Telefone      string     `db:"telefone" json:"telefone"`
	Logradouro    string     `db:"logradouro" json:"logradouro"`
	Numero        string     `db:"numero" json:"numero"`
	Bairro        string     `db:"bairro" json:"bairro"`
	Cidade        string     `db:"cidade" json:"cidade"`
	Estado        string     `db:"estado" json:"estado"`
	CEP           string     `db:"cep" json:"cep"`
	Complemento   string     `db:"complemento" json:"complemento"`
	QtdAtletas    int        `db:"qtd_atletas" json:"qtd_atletas"`
	QtdOperadores int        `db:"qtd_operadores" json:"qtd_operadores"`
	PlanoID       *uuid.UUID `db:"plano_id" json:"plano_id,omitempty"`

	// PagamentoEfetuado is the legacy paid flag. The invoice ledger is the
	// source of truth; this is only kept in sync for old reports.
	PagamentoEfetuado bool    `db:"pagamento_efetuado" json:"pagamento_efetuado"`
	ValorCobrado      float64 `db:"valor_cobrado" json:"valor_cobrado"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateTeamRequest struct {
	Nome          string  `json:"nome" binding:"required,max=120"`
	Capitao       string  `json:"capitao" binding:"required,max=120"`
	Email         string  `json:"email" binding:"required,email"`
	Documento     string  `json:"documento" binding:"required"`
	Telefone      string  `json:"telefone"`
	Logradouro    string  `json:"logradouro"`
	Numero        string  `json:"numero"`
	Bairro        string  `json:"bairro"`
	Cidade        string  `json:"cidade" binding:"required"`
	Estado        string  `json:"estado" binding:"required,len=2"`
	CEP           string  `json:"cep"`
	Complemento   string  `json:"complemento"`
	QtdAtletas    int     `json:"qtd_atletas" binding:"min=0"`
	QtdOperadores int     `json:"qtd_operadores" binding:"min=0"`
	PlanoID       *string `json:"plano_id"`
}

type UpdateTeamRequest struct {
	Nome          *string `json:"nome"`
	Capitao       *string `json:"capitao"`
	Email         *string `json:"email"`
	Documento     *string `json:"documento"`
	Telefone      *string `json:"telefone"`
	Logradouro    *string `json:"logradouro"`
	Numero        *string `json:"numero"`
	Bairro        *string `json:"bairro"`
	Cidade        *string `json:"cidade"`
	Estado        *string `json:"estado"`
	CEP           *string `json:"cep"`
	Complemento   *string `json:"complemento"`
	QtdAtletas    *int    `json:"qtd_atletas"`
	QtdOperadores *int    `json:"qtd_operadores"`
	PlanoID       *string `json:"plano_id"`
}
