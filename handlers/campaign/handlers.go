package campaign

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
	"blood4life/backend/services/live"
)

var validate = validator.New()

func scanCampaign(row interface{ Scan(...interface{}) error }) (models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(
		&c.ID, &c.HospitalID, &c.HospitalName, &c.Name, &c.Description,
		&c.StartDate, &c.EndDate, &c.Location, &c.RequiredDonorQuantity,
		&c.RequiredBloodType, &c.CurrentDonorCount,
	)
	return c, err
}

func queryCampaigns(db *sql.DB, query string, args ...interface{}) ([]models.Campaign, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// FetchAll returns every campaign with hospital name and donor counts.
// Shared with the donor dashboard handlers.
func FetchAll(db *sql.DB) ([]models.Campaign, error) {
	return queryCampaigns(db, SelectAllCampaignsQuery)
}

// FetchByID returns one campaign, or sql.ErrNoRows if it does not exist.
func FetchByID(db *sql.DB, id int) (models.Campaign, error) {
	return scanCampaign(db.QueryRow(SelectCampaignByIDQuery, id))
}

// GetCampaignsHandler lists all campaigns.
// Used by: GET /api/campaigns
func GetCampaignsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		campaigns, err := FetchAll(db)
		if err != nil {
			log.Printf("Error querying campaigns: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(campaigns)
	}
}

// GetCampaignHandler returns one campaign by id.
// Used by: GET /api/campaigns/{id}
func GetCampaignHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid campaign ID"})
			return
		}

		c, err := scanCampaign(db.QueryRow(SelectCampaignByIDQuery, id))
		if err == sql.ErrNoRows {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Campaign not found"})
			return
		}
		if err != nil {
			log.Printf("Error querying campaign %d: %v", id, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(c)
	}
}

// GetCampaignsByHospitalHandler lists a hospital's campaigns.
// Used by: GET /api/campaigns/hospital/{hospitalId}
func GetCampaignsByHospitalHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, err := strconv.Atoi(mux.Vars(r)["hospitalId"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid hospital ID"})
			return
		}

		campaigns, err := queryCampaigns(db, SelectCampaignsByHospitalQuery, hospitalID)
		if err != nil {
			log.Printf("Error querying hospital campaigns: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		json.NewEncoder(w).Encode(campaigns)
	}
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request) (CampaignRequest, bool) {
	var req CampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Validation failed: " + err.Error()})
		return req, false
	}
	if req.EndDate < req.StartDate {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "End date must be on or after start date"})
		return req, false
	}
	return req, true
}

// CreateCampaignHandler creates a campaign for the authenticated hospital and
// broadcasts CAMPAIGN_CREATED.
// Used by: POST /api/campaigns
func CreateCampaignHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, role, err := auth.IdentityFromRequest(r)
		if err != nil || role != auth.RoleHospital {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Only hospitals can create campaigns"})
			return
		}

		req, ok := decodeAndValidate(w, r)
		if !ok {
			return
		}

		var campaignID int
		err = db.QueryRow(InsertCampaignQuery,
			hospitalID, req.Name, req.Description, req.StartDate, req.EndDate,
			req.Location, req.RequiredDonorQuantity, strings.Join(req.RequiredBloodTypes, ","),
		).Scan(&campaignID)
		if err != nil {
			log.Printf("Error creating campaign: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error creating campaign"})
			return
		}

		created, err := scanCampaign(db.QueryRow(SelectCampaignByIDQuery, campaignID))
		if err != nil {
			log.Printf("Error reading back campaign %d: %v", campaignID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		live.Publish(live.TopicCampaigns, live.Event{Type: live.EventCampaignCreated, Payload: created})

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

// UpdateCampaignHandler updates one of the hospital's own campaigns and
// broadcasts CAMPAIGN_UPDATED.
// Used by: PUT /api/campaigns/{id}
func UpdateCampaignHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hospitalID, role, err := auth.IdentityFromRequest(r)
		if err != nil || role != auth.RoleHospital {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Only hospitals can update campaigns"})
			return
		}

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid campaign ID"})
			return
		}

		req, ok := decodeAndValidate(w, r)
		if !ok {
			return
		}

		result, err := db.Exec(UpdateCampaignQuery,
			req.Name, req.Description, req.StartDate, req.EndDate,
			req.Location, req.RequiredDonorQuantity, strings.Join(req.RequiredBloodTypes, ","),
			id, hospitalID,
		)
		if err != nil {
			log.Printf("Error updating campaign %d: %v", id, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error updating campaign"})
			return
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Campaign not found"})
			return
		}

		updated, err := scanCampaign(db.QueryRow(SelectCampaignByIDQuery, id))
		if err != nil {
			log.Printf("Error reading back campaign %d: %v", id, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		live.Publish(live.TopicCampaigns, live.Event{Type: live.EventCampaignUpdated, Payload: updated})

		json.NewEncoder(w).Encode(updated)
	}
}

// DeleteCampaignHandler removes one of the hospital's own campaigns and
// broadcasts CAMPAIGN_DELETED.
// Used by: DELETE /api/campaigns/{id}
func DeleteCampaignHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hospitalID, role, err := auth.IdentityFromRequest(r)
		if err != nil || role != auth.RoleHospital {
			http.Error(w, "Only hospitals can delete campaigns", http.StatusForbidden)
			return
		}

		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid campaign ID", http.StatusBadRequest)
			return
		}

		result, err := db.Exec(DeleteCampaignQuery, id, hospitalID)
		if err != nil {
			log.Printf("Error deleting campaign %d: %v", id, err)
			http.Error(w, "Error deleting campaign", http.StatusInternalServerError)
			return
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			http.Error(w, "Campaign not found", http.StatusNotFound)
			return
		}

		live.Publish(live.TopicCampaigns, live.Event{
			Type:    live.EventCampaignDeleted,
			Payload: map[string]int{"id": id},
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
