// Package admin is the platform administration surface: the admin's own
// account plus oversight over donors, hospitals and appointments.
package admin

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"blood4life/backend/handlers/auth"
	"blood4life/backend/models"
)

var validate = validator.New()

type profileUpdateRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

type accountUpdateRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
}

type hospitalUpdateRequest struct {
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
}

func adminIdentity(w http.ResponseWriter, r *http.Request) (int, bool) {
	adminID, role, err := auth.IdentityFromRequest(r)
	if err != nil || role != auth.RoleAdmin {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "Admin access required"})
		return 0, false
	}
	return adminID, true
}

// GetProfileHandler returns the authenticated admin's account.
// Used by: GET /api/admin/me
func GetProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		adminID, ok := adminIdentity(w, r)
		if !ok {
			return
		}

		var a models.Admin
		err := db.QueryRow(selectAdminByIDQuery, adminID).Scan(
			&a.ID, &a.FirstName, &a.LastName, &a.Email,
		)
		if err != nil {
			log.Printf("Error querying admin %d: %v", adminID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(a)
	}
}

// UpdateProfileHandler updates the authenticated admin's account.
// Used by: PUT /api/admin/me
func UpdateProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		adminID, ok := adminIdentity(w, r)
		if !ok {
			return
		}

		var req profileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
			return
		}
		if err := validate.Struct(req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Validation failed: " + err.Error()})
			return
		}

		if _, err := db.Exec(updateAdminQuery, req.FirstName, req.LastName, req.Email, adminID); err != nil {
			if strings.Contains(err.Error(), "unique constraint") {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "Email already registered"})
				return
			}
			log.Printf("Error updating admin %d: %v", adminID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error updating account"})
			return
		}

		json.NewEncoder(w).Encode(models.Admin{
			ID: adminID, FirstName: req.FirstName, LastName: req.LastName, Email: req.Email,
		})
	}
}

// ChangePasswordHandler changes the admin's password after verifying the
// current one.
// Used by: PUT /api/admin/password
func ChangePasswordHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		adminID, ok := adminIdentity(w, r)
		if !ok {
			return
		}

		auth.HandlePasswordChange(w, r, db, selectAdminPasswordQuery, updateAdminPasswordQuery, adminID)
	}
}

// GetDonorsHandler lists every registered donor.
// Used by: GET /api/admin/donors
func GetDonorsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if _, ok := adminIdentity(w, r); !ok {
			return
		}

		rows, err := db.Query(selectAllDonorsQuery)
		if err != nil {
			log.Printf("Error querying donors: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		defer rows.Close()

		donors := []models.BloodDonor{}
		for rows.Next() {
			var d models.BloodDonor
			err := rows.Scan(
				&d.ID, &d.DNI, &d.FirstName, &d.LastName, &d.Gender, &d.BloodType,
				&d.Email, &d.PhoneNumber, &d.DateOfBirth, &d.ImageURL,
			)
			if err != nil {
				log.Printf("Error scanning donor: %v", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
				return
			}
			donors = append(donors, d)
		}
		json.NewEncoder(w).Encode(donors)
	}
}

// UpdateDonorHandler edits a donor's contact details.
// Used by: PUT /api/admin/donors/{id}
func UpdateDonorHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if _, ok := adminIdentity(w, r); !ok {
			return
		}

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid donor ID"})
			return
		}

		var req accountUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
			return
		}
		if err := validate.Struct(req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Validation failed: " + err.Error()})
			return
		}

		result, err := db.Exec(updateDonorQuery, req.FirstName, req.LastName, req.Email, req.PhoneNumber, id)
		if err != nil {
			if strings.Contains(err.Error(), "unique constraint") {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "Email already registered"})
				return
			}
			log.Printf("Error updating donor %d: %v", id, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error updating donor"})
			return
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Donor not found"})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"message": "Donor updated"})
	}
}

// DeleteDonorHandler removes a donor account and its appointments, then
// pushes the new donor total.
// Used by: DELETE /api/admin/donors/{id}
func DeleteDonorHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := adminIdentity(w, r); !ok {
			return
		}

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid donor ID", http.StatusBadRequest)
			return
		}

		result, err := db.Exec(deleteDonorQuery, id)
		if err != nil {
			log.Printf("Error deleting donor %d: %v", id, err)
			http.Error(w, "Error deleting donor", http.StatusInternalServerError)
			return
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			http.Error(w, "Donor not found", http.StatusNotFound)
			return
		}

		go auth.BroadcastTotalDonors(db)

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetHospitalsHandler lists every registered hospital.
// Used by: GET /api/admin/hospitals
func GetHospitalsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if _, ok := adminIdentity(w, r); !ok {
			return
		}

		rows, err := db.Query(selectAllHospitalsQuery)
		if err != nil {
			log.Printf("Error querying hospitals: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		defer rows.Close()

		hospitals := []models.Hospital{}
		for rows.Next() {
			var h models.Hospital
			err := rows.Scan(&h.ID, &h.CIF, &h.Name, &h.Address, &h.Email, &h.PhoneNumber, &h.ImageURL)
			if err != nil {
				log.Printf("Error scanning hospital: %v", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
				return
			}
			hospitals = append(hospitals, h)
		}
		json.NewEncoder(w).Encode(hospitals)
	}
}

// UpdateHospitalHandler edits a hospital's contact details.
// Used by: PUT /api/admin/hospitals/{id}
func UpdateHospitalHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if _, ok := adminIdentity(w, r); !ok {
			return
		}

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid hospital ID"})
			return
		}

		var req hospitalUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
			return
		}
		if err := validate.Struct(req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Validation failed: " + err.Error()})
			return
		}

		result, err := db.Exec(updateHospitalQuery, req.Name, req.Address, req.Email, req.PhoneNumber, id)
		if err != nil {
			if strings.Contains(err.Error(), "unique constraint") {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "Email already registered"})
				return
			}
			log.Printf("Error updating hospital %d: %v", id, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error updating hospital"})
			return
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Hospital not found"})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"message": "Hospital updated"})
	}
}

// DeleteHospitalHandler removes a hospital and, via cascade, its campaigns
// and their appointments.
// Used by: DELETE /api/admin/hospitals/{id}
func DeleteHospitalHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := adminIdentity(w, r); !ok {
			return
		}

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid hospital ID", http.StatusBadRequest)
			return
		}

		result, err := db.Exec(deleteHospitalQuery, id)
		if err != nil {
			log.Printf("Error deleting hospital %d: %v", id, err)
			http.Error(w, "Error deleting hospital", http.StatusInternalServerError)
			return
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			http.Error(w, "Hospital not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetAppointmentsHandler lists every appointment on the platform, newest
// first.
// Used by: GET /api/admin/appointments
func GetAppointmentsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if _, ok := adminIdentity(w, r); !ok {
			return
		}

		rows, err := db.Query(selectAllAppointmentsQuery)
		if err != nil {
			log.Printf("Error querying appointments: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		defer rows.Close()

		appointments := []models.Appointment{}
		for rows.Next() {
			var a models.Appointment
			err := rows.Scan(
				&a.ID, &a.AppointmentStatus.ID, &a.AppointmentStatus.Name,
				&a.CampaignID, &a.BloodDonorID, &a.HospitalComment,
				&a.DateAppointment, &a.HourAppointment,
			)
			if err != nil {
				log.Printf("Error scanning appointment: %v", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
				return
			}
			appointments = append(appointments, a)
		}
		json.NewEncoder(w).Encode(appointments)
	}
}

// DeleteAppointmentHandler removes an appointment outright. Status
// transitions stay with the owning hospital; this is the admin escape hatch.
// Used by: DELETE /api/admin/appointments/{id}
func DeleteAppointmentHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := adminIdentity(w, r); !ok {
			return
		}

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
			return
		}

		result, err := db.Exec(deleteAppointmentQuery, id)
		if err != nil {
			log.Printf("Error deleting appointment %d: %v", id, err)
			http.Error(w, "Error deleting appointment", http.StatusInternalServerError)
			return
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			http.Error(w, "Appointment not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
