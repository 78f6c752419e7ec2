package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LucasNeuro/fta-form-sub000/internal/config"
	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
	"github.com/LucasNeuro/fta-form-sub000/internal/session"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
	"github.com/LucasNeuro/fta-form-sub000/pkg/security"
)

type claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

type Service struct {
	users    repository.UserRepository
	sessions session.Store
	cfg      config.JWTConfig
	log      zerolog.Logger
}

func NewService(users repository.UserRepository, sessions session.Store, cfg config.JWTConfig, log zerolog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

// Login checks the credentials, opens a server-side session and returns a JWT
// bound to it. Unknown email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("credenciais inválidas", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := security.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("credenciais inválidas", err)
	}

	ttl := time.Duration(s.cfg.ExpiryHours) * time.Hour
	sess := &session.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Set(ctx, sess, ttl); err != nil {
		return nil, apperrors.Internal(err)
	}

	expiresAt := time.Now().Add(ttl)
	token, err := s.issueToken(user, sess.ID, expiresAt)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout kills the server-side session; the JWT becomes useless immediately.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ValidateToken verifies the JWT signature and checks that its session is
// still alive.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*model.TokenClaims, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("token inválido ou expirado", err)
	}

	if _, err := s.sessions.Get(ctx, c.SessionID); err != nil {
		return nil, apperrors.Unauthorized("sessão encerrada", err)
	}

	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("token inválido", err)
	}

	return &model.TokenClaims{UserID: userID, Email: c.Email, SessionID: c.SessionID}, nil
}

// CreateUser registers a new admin user with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, nome, email, password, role string) (*model.User, error) {
	if len(password) < security.MinPasswordLen {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("senha deve ter no mínimo %d caracteres", security.MinPasswordLen), nil)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{Nome: nome, Email: email, PasswordHash: hash, Role: role}
	err = s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.Conflict("email já cadastrado", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) issueToken(user *model.User, sessionID string, expiresAt time.Time) (string, error) {
	c := claims{
		UserID:    user.ID.String(),
		Email:     user.Email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(s.cfg.Secret))
}
