package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, Init())
}

func TestInit_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Error(t, Init())
}

func TestGenerateAndParseToken(t *testing.T) {
	initTestSecret(t)

	token, err := GenerateToken("user-1", "marie@clinique.fr", "Marie", "admin")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "marie@clinique.fr", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseToken_Garbage(t *testing.T) {
	initTestSecret(t)

	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	initTestSecret(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := GetClaimsFromContext(r.Context())
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		w.WriteHeader(http.StatusOK)
	})
	protected := JWTMiddleware(next)

	// No token
	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, httptest.NewRequest("GET", "/api/documents", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Health stays open
	open := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr = httptest.NewRecorder()
	open.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	// Valid token
	token, err := GenerateToken("user-1", "marie@clinique.fr", "Marie", "admin")
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
