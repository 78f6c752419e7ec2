package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasNeuro/fta-form-sub000/internal/config"
	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
	"github.com/LucasNeuro/fta-form-sub000/internal/session"
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
	"github.com/LucasNeuro/fta-form-sub000/pkg/security"
)

type fakeUsers struct {
	byEmail map[string]*model.User
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.ID = uuid.New()
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memStore struct {
	sessions map[string]*session.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*session.Session)}
}

func (m *memStore) Set(_ context.Context, s *session.Session, _ time.Duration) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return s, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func newTestAuth(t *testing.T) (*Service, *fakeUsers, *memStore) {
	t.Helper()
	hash, err := security.HashPassword("s3nha-forte")
	require.NoError(t, err)

	users := &fakeUsers{byEmail: map[string]*model.User{
		"admin@fta.com": {ID: uuid.New(), Nome: "Admin", Email: "admin@fta.com", PasswordHash: hash, Role: "admin"},
	}}
	store := newMemStore()
	svc := NewService(users, store, config.JWTConfig{Secret: "test-secret", ExpiryHours: 1}, zerolog.Nop())
	return svc, users, store
}

func TestLoginAndValidate(t *testing.T) {
	svc, _, store := newTestAuth(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{Email: "admin@fta.com", Password: "s3nha-forte"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Len(t, store.sessions, 1)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@fta.com", claims.Email)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "admin@fta.com", Password: "errada"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	_, errUnknown := svc.Login(context.Background(), &model.LoginRequest{Email: "nao@existe.com", Password: "x"})
	_, errWrongPw := svc.Login(context.Background(), &model.LoginRequest{Email: "admin@fta.com", Password: "x"})

	a, _ := apperrors.AsAppError(errUnknown)
	b, _ := apperrors.AsAppError(errWrongPw)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, a.Message, b.Message)
}

func TestLogoutKillsToken(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{Email: "admin@fta.com", Password: "s3nha-forte"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.SessionID))

	_, err = svc.ValidateToken(context.Background(), resp.Token)
	assert.Error(t, err)
}

func TestValidateRejectsForgedToken(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	other := NewService(nil, newMemStore(), config.JWTConfig{Secret: "another-secret", ExpiryHours: 1}, zerolog.Nop())
	forged, err := other.issueToken(&model.User{ID: uuid.New(), Email: "x@y.com"}, uuid.NewString(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), forged)
	assert.Error(t, err)
}

func TestCreateUserRejectsShortPassword(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	_, err := svc.CreateUser(context.Background(), "Novo", "novo@fta.com", "curta", "admin")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	_, err := svc.CreateUser(context.Background(), "Outro", "admin@fta.com", "s3nha-forte", "admin")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}
