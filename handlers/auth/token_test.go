package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	token, err := GenerateToken(42, RoleDonor)
	require.NoError(t, err)

	userID, role, err := IdentityFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
	assert.Equal(t, RoleDonor, role)
}

func TestIdentityFromTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "first-secret")
	token, err := GenerateToken(7, RoleHospital)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET_KEY", "other-secret")
	_, _, err = IdentityFromToken(token)
	assert.Error(t, err)
}

func TestIdentityFromRequest(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	token, err := GenerateToken(9, RoleAdmin)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/api/notifications", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	userID, role, err := IdentityFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, 9, userID)
	assert.Equal(t, RoleAdmin, role)

	r.Header.Del("Authorization")
	_, _, err = IdentityFromRequest(r)
	assert.Error(t, err)
}
