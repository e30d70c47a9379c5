package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithToken(t *testing.T, userID int, role string) *http.Request {
	t.Helper()
	token, err := GenerateToken(userID, role)
	require.NoError(t, err)
	r := httptest.NewRequest("POST", "/api/test-data", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	called := false
	handler := RequireRole(RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	handler(w, requestWithToken(t, 1, RoleDonor))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called)

	w = httptest.NewRecorder()
	handler(w, requestWithToken(t, 1, RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestRequireRoleWithoutToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	handler := RequireRole(RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("POST", "/api/test-data", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	AuthMiddleware(next).ServeHTTP(w, httptest.NewRequest("GET", "/api/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	AuthMiddleware(next).ServeHTTP(w, requestWithToken(t, 3, RoleDonor))
	assert.Equal(t, http.StatusOK, w.Code)
}
