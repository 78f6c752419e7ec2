package model

import (
	"time"

	"github.com/google/uuid"
)

// Operator is a team member ("operador") listed on the team roster.
type Operator struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EquipeID  uuid.UUID `db:"equipe_id" json:"equipe_id"`
	Nome      string    `db:"nome" json:"nome"`
	Documento string    `db:"documento" json:"documento"`
	Funcao    string    `db:"funcao" json:"funcao"`
	Email     string    `db:"email" json:"email"`
	Telefone  string    `db:"telefone" json:"telefone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateOperatorRequest struct {
	EquipeID  string `json:"equipe_id" binding:"required,uuid"`
	Nome      string `json:"nome" binding:"required,max=120"`
	Documento string `json:"documento"`
	Funcao    string `json:"funcao"`
	Email     string `json:"email" binding:"omitempty,email"`
	Telefone  string `json:"telefone"`
}

type UpdateOperatorRequest struct {
	Nome      *string `json:"nome"`
	Documento *string `json:"documento"`
	Funcao    *string `json:"funcao"`
	Email     *string `json:"email"`
	Telefone  *string `json:"telefone"`
}
