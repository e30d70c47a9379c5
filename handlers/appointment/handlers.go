package appointment

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"blood4life/backend/handlers/auth"
	"blood4life/backend/handlers/campaign"
	"blood4life/backend/handlers/notifications"
	"blood4life/backend/models"
	"blood4life/backend/services/eligibility"
	"blood4life/backend/services/live"
)

var validate = validator.New()

func scanAppointment(row interface{ Scan(...interface{}) error }) (models.Appointment, error) {
	var a models.Appointment
	err := row.Scan(
		&a.ID, &a.AppointmentStatus.ID, &a.AppointmentStatus.Name,
		&a.CampaignID, &a.BloodDonorID, &a.HospitalComment,
		&a.DateAppointment, &a.HourAppointment,
	)
	return a, err
}

func queryAppointments(db *sql.DB, query string, args ...interface{}) ([]models.Appointment, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

// FetchDonationHistory returns the donor's completed donations in date order.
// Shared with the donor dashboard handlers, which feed it to the eligibility
// computation.
func FetchDonationHistory(db *sql.DB, donorID int) ([]eligibility.DonationRecord, error) {
	rows, err := db.Query(SelectDonationHistoryQuery, donorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []eligibility.DonationRecord{}
	for rows.Next() {
		var rec eligibility.DonationRecord
		if err := rows.Scan(&rec.DonorID, &rec.Date); err != nil {
			return nil, err
		}
		history = append(history, rec)
	}
	return history, rows.Err()
}

// GetAppointmentsByDonorHandler lists the authenticated donor's appointments.
// Used by: GET /api/appointments/donor
func GetAppointmentsByDonorHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		donorID, role, err := auth.IdentityFromRequest(r)
		if err != nil || role != auth.RoleDonor {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Donor access required"})
			return
		}

		appointments, err := queryAppointments(db, SelectAppointmentsByDonorQuery, donorID)
		if err != nil {
			log.Printf("Error querying donor appointments: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(appointments)
	}
}

// GetAppointmentsByCampaignHandler lists a campaign's appointments for the
// hospital that owns it.
// Used by: GET /api/appointments/campaign/{campaignId}
func GetAppointmentsByCampaignHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, role, err := auth.IdentityFromRequest(r)
		if err != nil || role != auth.RoleHospital {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Hospital access required"})
			return
		}

		campaignID, err := strconv.Atoi(mux.Vars(r)["campaignId"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid campaign ID"})
			return
		}

		c, err := campaign.FetchByID(db, campaignID)
		if err == sql.ErrNoRows || (err == nil && c.HospitalID != hospitalID) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Campaign not found"})
			return
		}
		if err != nil {
			log.Printf("Error querying campaign %d: %v", campaignID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		appointments, err := queryAppointments(db, SelectAppointmentsByCampaignQuery, campaignID)
		if err != nil {
			log.Printf("Error querying campaign appointments: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(appointments)
	}
}

// CreateAppointmentHandler enrolls the authenticated donor in a campaign.
// Enrollment is refused when the date falls outside the campaign window, the
// campaign is full, the donor's blood type is not among the required ones, or
// the donor is still inside the post-donation waiting period.
// Used by: POST /api/appointments
func CreateAppointmentHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		donorID, role, err := auth.IdentityFromRequest(r)
		if err != nil || role != auth.RoleDonor {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Donor access required"})
			return
		}

		var req AppointmentRequest
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

		c, err := campaign.FetchByID(db, req.CampaignID)
		if err == sql.ErrNoRows {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Campaign not found"})
			return
		}
		if err != nil {
			log.Printf("Error querying campaign %d: %v", req.CampaignID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		if req.DateAppointment < c.StartDate || req.DateAppointment > c.EndDate {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Appointment date is outside the campaign dates"})
			return
		}

		if c.CurrentDonorCount >= c.RequiredDonorQuantity {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "Campaign is already full"})
			return
		}

		var existing int
		if err := db.QueryRow(selectDuplicateEnrollmentQuery, req.CampaignID, donorID).Scan(&existing); err != nil {
			log.Printf("Error checking existing enrollment: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		if existing > 0 {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "You already have an appointment for this campaign"})
			return
		}

		var gender, bloodType string
		if err := db.QueryRow(selectDonorGatingDataQuery, donorID).Scan(&gender, &bloodType); err != nil {
			log.Printf("Error querying donor %d: %v", donorID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		if !eligibility.IsCompatible(bloodType, eligibility.ParseBloodTypes(c.RequiredBloodType)) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "Your blood type is not required by this campaign"})
			return
		}

		history, err := FetchDonationHistory(db, donorID)
		if err != nil {
			log.Printf("Error querying donation history: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		elig := eligibility.ComputeEligibility(history, eligibility.Gender(gender), time.Now())
		if req.DateAppointment < elig.NextAvailableDate.Format(eligibility.DayFormat) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{
				"error":             "You are still in the waiting period after your last donation",
				"nextAvailableDate": elig.NextAvailableDate.Format(eligibility.DayFormat),
			})
			return
		}

		var appointmentID int
		err = db.QueryRow(InsertAppointmentQuery,
			models.StatusScheduled, req.CampaignID, donorID,
			req.DateAppointment, req.HourAppointment,
		).Scan(&appointmentID)
		if err != nil {
			log.Printf("Error creating appointment: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error creating appointment"})
			return
		}

		created, err := scanAppointment(db.QueryRow(SelectAppointmentByIDQuery, appointmentID))
		if err != nil {
			log.Printf("Error reading back appointment %d: %v", appointmentID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		live.Publish(live.TopicAppointments, live.Event{Type: live.EventAppointmentCreated, Payload: created})
		if refreshed, err := campaign.FetchByID(db, c.ID); err == nil {
			live.Publish(live.TopicCampaigns, live.Event{Type: live.EventCampaignUpdated, Payload: refreshed})
		}
		go notifications.Create(db, auth.RoleHospital, c.HospitalID,
			fmt.Sprintf("A donor booked an appointment for %s on %s at %s", c.Name, created.DateAppointment, created.HourAppointment))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

// UpdateAppointmentStatusHandler lets the owning hospital confirm, complete or
// cancel an appointment. The donor is notified of the change.
// Used by: PUT /api/appointments/{id}/status
func UpdateAppointmentStatusHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, role, err := auth.IdentityFromRequest(r)
		if err != nil || role != auth.RoleHospital {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Hospital access required"})
			return
		}

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid appointment ID"})
			return
		}

		var req StatusUpdateRequest
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

		appt, err := scanAppointment(db.QueryRow(SelectAppointmentByIDQuery, id))
		if err == sql.ErrNoRows {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Appointment not found"})
			return
		}
		if err != nil {
			log.Printf("Error querying appointment %d: %v", id, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		c, err := campaign.FetchByID(db, appt.CampaignID)
		if err != nil || c.HospitalID != hospitalID {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Appointment not found"})
			return
		}

		if _, err := db.Exec(UpdateAppointmentStatusQuery, req.StatusID, req.HospitalComment, id); err != nil {
			log.Printf("Error updating appointment %d: %v", id, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error updating appointment"})
			return
		}

		updated, err := scanAppointment(db.QueryRow(SelectAppointmentByIDQuery, id))
		if err != nil {
			log.Printf("Error reading back appointment %d: %v", id, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		live.Publish(live.TopicAppointments, live.Event{Type: live.EventAppointmentUpdated, Payload: updated})
		go notifications.Create(db, auth.RoleDonor, updated.BloodDonorID, statusMessage(c, updated))

		json.NewEncoder(w).Encode(updated)
	}
}

// CancelAppointmentHandler lets the donor cancel their own scheduled or
// confirmed appointment.
// Used by: PUT /api/appointments/{id}/cancel
func CancelAppointmentHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		donorID, role, err := auth.IdentityFromRequest(r)
		if err != nil || role != auth.RoleDonor {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Donor access required"})
			return
		}

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid appointment ID"})
			return
		}

		result, err := db.Exec(CancelOwnAppointmentQuery, id, donorID)
		if err != nil {
			log.Printf("Error cancelling appointment %d: %v", id, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error cancelling appointment"})
			return
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Appointment not found or already finished"})
			return
		}

		cancelled, err := scanAppointment(db.QueryRow(SelectAppointmentByIDQuery, id))
		if err != nil {
			log.Printf("Error reading back appointment %d: %v", id, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		live.Publish(live.TopicAppointments, live.Event{Type: live.EventAppointmentUpdated, Payload: cancelled})
		if c, err := campaign.FetchByID(db, cancelled.CampaignID); err == nil {
			go notifications.Create(db, auth.RoleHospital, c.HospitalID,
				fmt.Sprintf("A donor cancelled their appointment for %s on %s", c.Name, cancelled.DateAppointment))
		}

		json.NewEncoder(w).Encode(cancelled)
	}
}

func statusMessage(c models.Campaign, a models.Appointment) string {
	var msg string
	switch a.AppointmentStatus.ID {
	case models.StatusConfirmed:
		msg = fmt.Sprintf("Your appointment for %s on %s has been confirmed", c.Name, a.DateAppointment)
	case models.StatusCompleted:
		msg = fmt.Sprintf("Your donation at %s is complete. Thank you for donating!", c.Name)
	case models.StatusCancelled:
		msg = fmt.Sprintf("Your appointment for %s on %s has been cancelled by the hospital", c.Name, a.DateAppointment)
	default:
		msg = fmt.Sprintf("Your appointment for %s has been updated", c.Name)
	}
	if a.HospitalComment != "" {
		msg += ": " + a.HospitalComment
	}
	return msg
}
