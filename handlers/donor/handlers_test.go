package donor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blood4life/backend/handlers/auth"
)

func donorRequest(t *testing.T, role, method, target, body string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken(1, role)
	require.NoError(t, err)
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestDonorEndpointsRejectOtherRoles(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	endpoints := map[string]http.HandlerFunc{
		"profile":         GetProfileHandler(nil),
		"update profile":  UpdateProfileHandler(nil),
		"change password": ChangePasswordHandler(nil),
		"eligibility":     GetEligibilityHandler(nil),
		"campaigns":       GetCampaignsHandler(nil),
		"calendar":        GetCalendarHandler(nil),
		"upcoming":        GetUpcomingAppointmentsHandler(nil),
	}

	for name, handler := range endpoints {
		w := httptest.NewRecorder()
		handler(w, donorRequest(t, auth.RoleHospital, "GET", "/api/donor/me", ""))
		assert.Equal(t, http.StatusForbidden, w.Code, "%s as hospital", name)
	}
}

func TestUpdateProfileRejectsInvalidBody(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	w := httptest.NewRecorder()
	UpdateProfileHandler(nil)(w, donorRequest(t, auth.RoleDonor, "PUT", "/api/donor/me", "not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing required fields fails validation before any database work.
	w = httptest.NewRecorder()
	UpdateProfileHandler(nil)(w, donorRequest(t, auth.RoleDonor, "PUT", "/api/donor/me", `{"firstName":"Ana"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed date of birth is rejected too.
	w = httptest.NewRecorder()
	UpdateProfileHandler(nil)(w, donorRequest(t, auth.RoleDonor, "PUT", "/api/donor/me",
		`{"firstName":"Ana","lastName":"García","email":"ana@example.com","dateOfBirth":"01/02/1990"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
