package hospital

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"blood4life/backend/handlers/auth"
	"blood4life/backend/models"
)

var validate = validator.New()

const (
	selectHospitalByIDQuery = `
		SELECT id, cif, name, address, email, phone_number, image_url
		FROM hospital
		WHERE id = $1
	`

	updateHospitalProfileQuery = `
		UPDATE hospital
		SET name = $1, address = $2, email = $3, phone_number = $4
		WHERE id = $5
	`

	selectHospitalPasswordQuery = `SELECT password_hash FROM hospital WHERE id = $1`
	updateHospitalPasswordQuery = `UPDATE hospital SET password_hash = $1 WHERE id = $2`

	selectTodayAppointmentsQuery = `
		SELECT a.id, a.appointment_status_id, s.name,
			a.campaign_id, a.blood_donor_id, COALESCE(a.hospital_comment, ''),
			to_char(a.date_appointment, 'YYYY-MM-DD'),
			to_char(a.hour_appointment, 'HH24:MI'),
			d.first_name, d.last_name, d.blood_type, c.name
		FROM appointment a
		JOIN appointment_status s ON s.id = a.appointment_status_id
		JOIN blood_donor d ON d.id = a.blood_donor_id
		JOIN campaign c ON c.id = a.campaign_id
		WHERE c.hospital_id = $1
			AND a.date_appointment = CURRENT_DATE
			AND a.appointment_status_id != 4
		ORDER BY a.hour_appointment ASC
	`

	// One row per month with completed donations, newest first, last year.
	selectMonthlyDonationsQuery = `
		SELECT to_char(date_trunc('month', a.date_appointment), 'YYYY-MM') AS month,
			COUNT(*) AS donations
		FROM appointment a
		JOIN campaign c ON c.id = a.campaign_id
		WHERE c.hospital_id = $1
			AND a.appointment_status_id = 3
			AND a.date_appointment >= CURRENT_DATE - INTERVAL '1 year'
		GROUP BY date_trunc('month', a.date_appointment)
		ORDER BY month DESC
	`

	selectHospitalStatsQuery = `
		SELECT
			(SELECT COUNT(*) FROM campaign c WHERE c.hospital_id = $1),
			(SELECT COUNT(*) FROM campaign c
				WHERE c.hospital_id = $1
					AND c.start_date <= CURRENT_DATE AND c.end_date >= CURRENT_DATE),
			(SELECT COUNT(*) FROM appointment a
				JOIN campaign c ON c.id = a.campaign_id
				WHERE c.hospital_id = $1 AND a.appointment_status_id = 3),
			(SELECT COUNT(DISTINCT a.blood_donor_id) FROM appointment a
				JOIN campaign c ON c.id = a.campaign_id
				WHERE c.hospital_id = $1 AND a.appointment_status_id != 4)
	`
)

// todayAppointment carries the donor context the check-in desk needs.
type todayAppointment struct {
	models.Appointment
	DonorFirstName string `json:"donorFirstName"`
	DonorLastName  string `json:"donorLastName"`
	DonorBloodType string `json:"donorBloodType"`
	CampaignName   string `json:"campaignName"`
}

type monthlyDonations struct {
	Month     string `json:"month"`
	Donations int    `json:"donations"`
}

type hospitalStats struct {
	TotalCampaigns     int `json:"totalCampaigns"`
	ActiveCampaigns    int `json:"activeCampaigns"`
	CompletedDonations int `json:"completedDonations"`
	DistinctDonors     int `json:"distinctDonors"`
}

func hospitalIdentity(w http.ResponseWriter, r *http.Request) (int, bool) {
	hospitalID, role, err := auth.IdentityFromRequest(r)
	if err != nil || role != auth.RoleHospital {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "Hospital access required"})
		return 0, false
	}
	return hospitalID, true
}

// GetProfileHandler returns the authenticated hospital's profile.
// Used by: GET /api/hospital/me
func GetProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, ok := hospitalIdentity(w, r)
		if !ok {
			return
		}

		var h models.Hospital
		err := db.QueryRow(selectHospitalByIDQuery, hospitalID).Scan(
			&h.ID, &h.CIF, &h.Name, &h.Address, &h.Email, &h.PhoneNumber, &h.ImageURL,
		)
		if err != nil {
			log.Printf("Error querying hospital %d: %v", hospitalID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(h)
	}
}

// profileUpdateRequest covers the fields a hospital may edit. The CIF is
// fixed at registration.
type profileUpdateRequest struct {
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateProfileHandler updates the hospital's contact details.
// Used by: PUT /api/hospital/me
func UpdateProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, ok := hospitalIdentity(w, r)
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

		_, err := db.Exec(updateHospitalProfileQuery,
			req.Name, req.Address, req.Email, req.PhoneNumber, hospitalID)
		if err != nil {
			if strings.Contains(err.Error(), "unique constraint") {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "Email already registered"})
				return
			}
			log.Printf("Error updating hospital %d: %v", hospitalID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error updating profile"})
			return
		}

		var h models.Hospital
		err = db.QueryRow(selectHospitalByIDQuery, hospitalID).Scan(
			&h.ID, &h.CIF, &h.Name, &h.Address, &h.Email, &h.PhoneNumber, &h.ImageURL,
		)
		if err != nil {
			log.Printf("Error reading back hospital %d: %v", hospitalID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(h)
	}
}

// ChangePasswordHandler changes the hospital's password after verifying the
// current one.
// Used by: PUT /api/hospital/password
func ChangePasswordHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, ok := hospitalIdentity(w, r)
		if !ok {
			return
		}

		auth.HandlePasswordChange(w, r, db, selectHospitalPasswordQuery, updateHospitalPasswordQuery, hospitalID)
	}
}

// GetTodayAppointmentsHandler lists today's active appointments across the
// hospital's campaigns, ordered by hour.
// Used by: GET /api/hospital/appointments/today
func GetTodayAppointmentsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, ok := hospitalIdentity(w, r)
		if !ok {
			return
		}

		rows, err := db.Query(selectTodayAppointmentsQuery, hospitalID)
		if err != nil {
			log.Printf("Error querying today's appointments: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		defer rows.Close()

		appointments := []todayAppointment{}
		for rows.Next() {
			var a todayAppointment
			err := rows.Scan(
				&a.ID, &a.AppointmentStatus.ID, &a.AppointmentStatus.Name,
				&a.CampaignID, &a.BloodDonorID, &a.HospitalComment,
				&a.DateAppointment, &a.HourAppointment,
				&a.DonorFirstName, &a.DonorLastName, &a.DonorBloodType, &a.CampaignName,
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

// GetMonthlyDonationsHandler returns per-month completed donation counts for
// the last year.
// Used by: GET /api/hospital/donations/monthly
func GetMonthlyDonationsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, ok := hospitalIdentity(w, r)
		if !ok {
			return
		}

		rows, err := db.Query(selectMonthlyDonationsQuery, hospitalID)
		if err != nil {
			log.Printf("Error querying monthly donations: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		defer rows.Close()

		months := []monthlyDonations{}
		for rows.Next() {
			var m monthlyDonations
			if err := rows.Scan(&m.Month, &m.Donations); err != nil {
				log.Printf("Error scanning monthly donations: %v", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
				return
			}
			months = append(months, m)
		}
		json.NewEncoder(w).Encode(months)
	}
}

// GetStatsHandler returns the hospital's campaign and donation totals.
// Used by: GET /api/hospital/stats
func GetStatsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, ok := hospitalIdentity(w, r)
		if !ok {
			return
		}

		var stats hospitalStats
		err := db.QueryRow(selectHospitalStatsQuery, hospitalID).Scan(
			&stats.TotalCampaigns, &stats.ActiveCampaigns,
			&stats.CompletedDonations, &stats.DistinctDonors,
		)
		if err != nil {
			log.Printf("Error querying hospital stats: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(stats)
	}
}
