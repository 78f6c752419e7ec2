package model

import (
	"time"

	"github.com/google/uuid"
)

// Annotation is a disciplinary record ("anotação") against a team or one of
// its operators.
type Annotation struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	EquipeID   uuid.UUID  `db:"equipe_id" json:"equipe_id"`
	OperadorID *uuid.UUID `db:"operador_id" json:"operador_id,omitempty"`
	Tipo       string     `db:"tipo" json:"tipo"`
	Descricao  string     `db:"descricao" json:"descricao"`
	Data       time.Time  `db:"data" json:"data"`
	CriadoPor  string     `db:"criado_por" json:"criado_por"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

type CreateAnnotationRequest struct {
	EquipeID   string  `json:"equipe_id" binding:"required,uuid"`
	OperadorID *string `json:"operador_id"`
	Tipo       string  `json:"tipo" binding:"required,max=60"`
	Descricao  string  `json:"descricao" binding:"required,max=1000"`
	Data       string  `json:"data" binding:"required,datetime=2006-01-02"`
}
