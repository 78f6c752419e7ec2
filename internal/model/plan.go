package model

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a billing plan ("plano"). Teams and invoices keep a weak reference:
// deleting a plan nulls plano_id on both but historical valor copies stay.
type Plan struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Nome      string    `db:"nome" json:"nome"`
	Valor     float64   `db:"valor" json:"valor"`
	Ativo     bool      `db:"ativo" json:"ativo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreatePlanRequest struct {
	Nome  string  `json:"nome" binding:"required,max=120"`
	Valor float64 `json:"valor" binding:"required,gt=0"`
	Ativo *bool   `json:"ativo"`
}

type UpdatePlanRequest struct {
	Nome  *string  `json:"nome"`
	Valor *float64 `json:"valor"`
	Ativo *bool    `json:"ativo"`
}
