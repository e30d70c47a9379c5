package donor

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"blood4life/backend/handlers/appointment"
	"blood4life/backend/handlers/auth"
	"blood4life/backend/handlers/campaign"
	"blood4life/backend/models"
	"blood4life/backend/services/eligibility"
)

var validate = validator.New()

// dashboardCampaign is a campaign plus the per-donor joinability flag.
type dashboardCampaign struct {
	models.Campaign
	CanJoin bool `json:"canJoin"`
}

// upcomingAppointment is an appointment enriched with campaign context for
// the dashboard's "next appointments" card.
type upcomingAppointment struct {
	models.Appointment
	CampaignName string `json:"campaignName"`
	HospitalName string `json:"hospitalName"`
	Location     string `json:"location"`
}

func donorIdentity(w http.ResponseWriter, r *http.Request) (int, bool) {
	donorID, role, err := auth.IdentityFromRequest(r)
	if err != nil || role != auth.RoleDonor {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "Donor access required"})
		return 0, false
	}
	return donorID, true
}

func fetchProfile(db *sql.DB, donorID int) (models.BloodDonor, error) {
	var d models.BloodDonor
	err := db.QueryRow(selectDonorByIDQuery, donorID).Scan(
		&d.ID, &d.DNI, &d.FirstName, &d.LastName, &d.Gender, &d.BloodType,
		&d.Email, &d.PhoneNumber, &d.DateOfBirth, &d.ImageURL,
	)
	return d, err
}

// GetProfileHandler returns the authenticated donor's profile.
// Used by: GET /api/donor/me
func GetProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		donorID, ok := donorIdentity(w, r)
		if !ok {
			return
		}

		d, err := fetchProfile(db, donorID)
		if err != nil {
			log.Printf("Error querying donor %d: %v", donorID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(d)
	}
}

// profileUpdateRequest covers the fields a donor may edit. DNI, gender and
// blood type are fixed at registration.
type profileUpdateRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateProfileHandler updates the donor's contact details.
// Used by: PUT /api/donor/me
func UpdateProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		donorID, ok := donorIdentity(w, r)
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

		var dateOfBirth *string
		if req.DateOfBirth != "" {
			dateOfBirth = &req.DateOfBirth
		}

		_, err := db.Exec(updateDonorProfileQuery,
			req.FirstName, req.LastName, req.Email, req.PhoneNumber, dateOfBirth, donorID)
		if err != nil {
			if strings.Contains(err.Error(), "unique constraint") {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "Email already registered"})
				return
			}
			log.Printf("Error updating donor %d: %v", donorID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error updating profile"})
			return
		}

		d, err := fetchProfile(db, donorID)
		if err != nil {
			log.Printf("Error reading back donor %d: %v", donorID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(d)
	}
}

// ChangePasswordHandler changes the donor's password after verifying the
// current one.
// Used by: PUT /api/donor/password
func ChangePasswordHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		donorID, ok := donorIdentity(w, r)
		if !ok {
			return
		}

		auth.HandlePasswordChange(w, r, db, selectDonorPasswordQuery, updateDonorPasswordQuery, donorID)
	}
}

// GetEligibilityHandler returns when the donor may next donate, derived from
// their completed donation history.
// Used by: GET /api/donor/eligibility
func GetEligibilityHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		donorID, ok := donorIdentity(w, r)
		if !ok {
			return
		}

		d, err := fetchProfile(db, donorID)
		if err != nil {
			log.Printf("Error querying donor %d: %v", donorID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		history, err := appointment.FetchDonationHistory(db, donorID)
		if err != nil {
			log.Printf("Error querying donation history: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		elig := eligibility.ComputeEligibility(history, eligibility.Gender(d.Gender), time.Now())
		json.NewEncoder(w).Encode(elig)
	}
}

// GetCampaignsHandler lists campaigns through the dashboard filter pipeline
// and flags each one with whether the donor can join it.
//
// Query parameters: onlyCompatible=true|false, q=<text search>,
// date=YYYY-MM-DD (selects one calendar day; overrides compatibility and
// search).
// Used by: GET /api/donor/campaigns
func GetCampaignsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		donorID, ok := donorIdentity(w, r)
		if !ok {
			return
		}

		d, err := fetchProfile(db, donorID)
		if err != nil {
			log.Printf("Error querying donor %d: %v", donorID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		all, err := campaign.FetchAll(db)
		if err != nil {
			log.Printf("Error querying campaigns: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		now := time.Now()
		q := r.URL.Query()
		opts := eligibility.FilterOptions{
			OnlyCompatible: q.Get("onlyCompatible") == "true",
			SearchQuery:    q.Get("q"),
		}
		if date := q.Get("date"); date != "" {
			if !eligibility.IsDayString(date) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "Invalid date, expected YYYY-MM-DD"})
				return
			}
			opts.SelectedDate = date
			opts.FilteredByDate = eligibility.ClassifyDay(date, all, now).Campaigns
		}

		filtered := eligibility.FilterCampaigns(all, d.BloodType, opts, now)

		history, err := appointment.FetchDonationHistory(db, donorID)
		if err != nil {
			log.Printf("Error querying donation history: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		elig := eligibility.ComputeEligibility(history, eligibility.Gender(d.Gender), now)

		result := make([]dashboardCampaign, 0, len(filtered))
		for _, c := range filtered {
			result = append(result, dashboardCampaign{
				Campaign: c,
				CanJoin:  eligibility.CanJoinCampaign(c, elig),
			})
		}
		json.NewEncoder(w).Encode(result)
	}
}

// GetCalendarHandler classifies every day of the requested month against the
// campaign collection. Days with no campaigns are omitted from the response.
//
// Query parameters: year=YYYY, month=1-12 (defaults to the current month).
// Used by: GET /api/donor/calendar
func GetCalendarHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if _, ok := donorIdentity(w, r); !ok {
			return
		}

		now := time.Now()
		year, month := now.Year(), int(now.Month())
		q := r.URL.Query()
		if raw := q.Get("year"); raw != "" {
			if year, _ = strconv.Atoi(raw); year < 1900 || year > 2200 {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "Invalid year"})
				return
			}
		}
		if raw := q.Get("month"); raw != "" {
			if month, _ = strconv.Atoi(raw); month < 1 || month > 12 {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "Invalid month"})
				return
			}
		}

		all, err := campaign.FetchAll(db)
		if err != nil {
			log.Printf("Error querying campaigns: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		days := map[string]eligibility.DayClassification{}
		first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		for d := first; int(d.Month()) == month; d = d.AddDate(0, 0, 1) {
			dateStr := d.Format(eligibility.DayFormat)
			if c := eligibility.ClassifyDay(dateStr, all, now); c.Status != eligibility.DayNone {
				days[dateStr] = c
			}
		}
		json.NewEncoder(w).Encode(days)
	}
}

// GetUpcomingAppointmentsHandler returns the donor's next scheduled or
// confirmed appointments, soonest first.
// Used by: GET /api/donor/appointments/upcoming
func GetUpcomingAppointmentsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		donorID, ok := donorIdentity(w, r)
		if !ok {
			return
		}

		rows, err := db.Query(selectUpcomingAppointmentsQuery, donorID)
		if err != nil {
			log.Printf("Error querying upcoming appointments: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		defer rows.Close()

		upcoming := []upcomingAppointment{}
		for rows.Next() {
			var a upcomingAppointment
			err := rows.Scan(
				&a.ID, &a.AppointmentStatus.ID, &a.AppointmentStatus.Name,
				&a.CampaignID, &a.BloodDonorID, &a.HospitalComment,
				&a.DateAppointment, &a.HourAppointment,
				&a.CampaignName, &a.HospitalName, &a.Location,
			)
			if err != nil {
				log.Printf("Error scanning upcoming appointment: %v", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
				return
			}
			upcoming = append(upcoming, a)
		}
		json.NewEncoder(w).Encode(upcoming)
	}
}
