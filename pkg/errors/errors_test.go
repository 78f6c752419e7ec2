package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NotFound("equipe", nil), http.StatusNotFound},
		{BadRequest("bad", nil), http.StatusBadRequest},
		{Unauthorized("", nil), http.StatusUnauthorized},
		{Forbidden("no", nil), http.StatusForbidden},
		{Conflict("dup", nil), http.StatusConflict},
		{Unavailable("down", nil), http.StatusServiceUnavailable},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode())
	}
}

func TestAsAppErrorUnwrapsChain(t *testing.T) {
	inner := NotFound("boleto", nil)
	wrapped := fmt.Errorf("handling request: %w", inner)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrNotFound, appErr.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("row missing")
	appErr := NotFound("equipe", cause)
	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "equipe not found")
}
