package model

import (
	"time"

	"github.com/google/uuid"
)

// AccessLink grants read-only dashboard access to whoever holds its token.
// The link itself never expires; access is gated by the team's payment
// validity. Many links may point at one team, only active ones are honored.
type AccessLink struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Token        string     `db:"token" json:"token"`
	EquipeID     uuid.UUID  `db:"equipe_id" json:"equipe_id"`
	Nome         string     `db:"nome" json:"nome"`
	Ativo        bool       `db:"ativo" json:"ativo"`
	UltimoAcesso *time.Time `db:"ultimo_acesso" json:"ultimo_acesso,omitempty"`
	CriadoPor    string     `db:"criado_por" json:"criado_por"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// RegistrationLink is a shareable token that lets a team self-register.
type RegistrationLink struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Token     string    `db:"token" json:"token"`
	Nome      string    `db:"nome" json:"nome"`
	Ativo     bool      `db:"ativo" json:"ativo"`
	Usos      int       `db:"usos" json:"usos"`
	CriadoPor string    `db:"criado_por" json:"criado_por"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateAccessLinkRequest struct {
	EquipeID string `json:"equipe_id" binding:"required,uuid"`
	Nome     string `json:"nome" binding:"required,max=120"`
}

type CreateRegistrationLinkRequest struct {
	Nome string `json:"nome" binding:"required,max=120"`
}

// TeamDashboard is the read-only view served behind an access link.
type TeamDashboard struct {
	Equipe     *Team         `json:"equipe"`
	Operadores []*Operator   `json:"operadores"`
	Anotacoes  []*Annotation `json:"anotacoes"`
	ValidUntil time.Time     `json:"valido_ate"`
}
