package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blood4life/backend/handlers/auth"
)

func adminRequest(t *testing.T, role, method, target string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken(1, role)
	require.NoError(t, err)
	r := httptest.NewRequest(method, target, nil)
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestAdminEndpointsRejectOtherRoles(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	endpoints := map[string]http.HandlerFunc{
		"profile":            GetProfileHandler(nil),
		"donors":             GetDonorsHandler(nil),
		"hospitals":          GetHospitalsHandler(nil),
		"appointments":       GetAppointmentsHandler(nil),
		"delete donor":       DeleteDonorHandler(nil),
		"delete hospital":    DeleteHospitalHandler(nil),
		"delete appointment": DeleteAppointmentHandler(nil),
	}

	for _, role := range []string{auth.RoleDonor, auth.RoleHospital} {
		for name, handler := range endpoints {
			w := httptest.NewRecorder()
			handler(w, adminRequest(t, role, "GET", "/api/admin/me"))
			assert.Equal(t, http.StatusForbidden, w.Code, "%s as %s", name, role)
		}
	}
}

func TestAdminEndpointsRejectMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	w := httptest.NewRecorder()
	GetProfileHandler(nil)(w, httptest.NewRequest("GET", "/api/admin/me", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
