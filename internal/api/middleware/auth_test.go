package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/service/auth"
	"github.com/taskhive/taskhive/internal/store"
)

// stubVerifier returns a fixed result for every token.
type stubVerifier struct {
	userID uuid.UUID
	err    error
}

func (v *stubVerifier) VerifyToken(ctx context.Context, token string) (uuid.UUID, error) {
	return v.userID, v.err
}

func runAuthenticated(t *testing.T, verifier TokenVerifier, header string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	t.Helper()

	var gotID uuid.UUID
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	NewAuthMiddleware(verifier).Authenticate(next).ServeHTTP(rec, req)
	return rec, gotID, gotOK
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token reaches the handler", func(t *testing.T) {
		rec, gotID, gotOK := runAuthenticated(t, &stubVerifier{userID: userID}, "Bearer good")
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, gotOK)
		assert.Equal(t, userID, gotID)
	})

	t.Run("missing header", func(t *testing.T) {
		rec, _, gotOK := runAuthenticated(t, &stubVerifier{userID: userID}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, gotOK)
		assert.Contains(t, rec.Body.String(), "Authorization header required")
	})

	t.Run("malformed header", func(t *testing.T) {
		rec, _, _ := runAuthenticated(t, &stubVerifier{userID: userID}, "Basic abc123")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid authorization format")
	})

	t.Run("expired token", func(t *testing.T) {
		rec, _, _ := runAuthenticated(t, &stubVerifier{err: auth.ErrExpiredToken}, "Bearer old")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token expired")
	})

	t.Run("invalid token", func(t *testing.T) {
		rec, _, _ := runAuthenticated(t, &stubVerifier{err: auth.ErrInvalidToken}, "Bearer bad")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid token")
	})

	t.Run("token for deleted user", func(t *testing.T) {
		rec, _, _ := runAuthenticated(t, &stubVerifier{err: store.ErrUserNotFound}, "Bearer ghost")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "User no longer exists")
	})

	t.Run("verifier failure is a server error", func(t *testing.T) {
		rec, _, _ := runAuthenticated(t, &stubVerifier{err: errors.New("db down")}, "Bearer any")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		// The raw error never reaches the client.
		assert.NotContains(t, rec.Body.String(), "db down")
	})
}

func TestGetUserIDWithoutAuthentication(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserID(req)
	assert.False(t, ok)
}
