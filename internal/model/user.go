package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin operator of the management UI.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Nome         string    `db:"nome" json:"nome"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// TokenClaims is what the auth middleware places in the request context after
// validating a bearer token against the session store.
type TokenClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
}
