package hospital

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blood4life/backend/handlers/auth"
)

func hospitalRequest(t *testing.T, role, method, target, body string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken(1, role)
	require.NoError(t, err)
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestHospitalEndpointsRejectOtherRoles(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	endpoints := map[string]http.HandlerFunc{
		"profile":         GetProfileHandler(nil),
		"update profile":  UpdateProfileHandler(nil),
		"change password": ChangePasswordHandler(nil),
		"today":           GetTodayAppointmentsHandler(nil),
		"monthly":         GetMonthlyDonationsHandler(nil),
		"stats":           GetStatsHandler(nil),
	}

	for name, handler := range endpoints {
		w := httptest.NewRecorder()
		handler(w, hospitalRequest(t, auth.RoleDonor, "GET", "/api/hospital/me", ""))
		assert.Equal(t, http.StatusForbidden, w.Code, "%s as donor", name)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	w := httptest.NewRecorder()
	UpdateProfileHandler(nil)(w, hospitalRequest(t, auth.RoleHospital, "PUT", "/api/hospital/me",
		`{"name":"General Hospital"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
