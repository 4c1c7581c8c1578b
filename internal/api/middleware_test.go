package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inboxpilot-backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func protectedHandler(t *testing.T, gotClientID *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := auth.GetClientIDFromContext(r.Context())
		require.True(t, ok)
		*gotClientID = clientID
		w.WriteHeader(http.StatusOK)
	})
}

func TestJwtAuthMiddlewareAllowsValidToken(t *testing.T) {
	token, err := auth.NewAccessToken("client-42", testSecret, time.Hour)
	require.NoError(t, err)

	var gotClientID string
	handler := JwtAuthMiddleware(testSecret)(protectedHandler(t, &gotClientID))

	req := httptest.NewRequest(http.MethodGet, "/v1/chat", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "client-42", gotClientID)
}

func TestJwtAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	handler := JwtAuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/chat", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Authorization header required")
}

func TestJwtAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	handler := JwtAuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/chat", nil)
	req.Header.Set("Authorization", "Token abc123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJwtAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewAccessToken("client-42", "other-secret", time.Hour)
	require.NoError(t, err)

	handler := JwtAuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/chat", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJwtAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	token, err := auth.NewAccessToken("client-42", testSecret, -time.Hour)
	require.NoError(t, err)

	handler := JwtAuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/chat", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "expired")
}
