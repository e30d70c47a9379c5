// Package handlers holds the development-only data seeder; the real request
// handlers live in the subpackages.
package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"

	"blood4life/backend/handlers/auth"
	"blood4life/backend/models"
)

var bloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
var genders = []string{"Masculino", "Femenino", "PreferNotToSay"}

// GenerateTestDataHandler seeds the database with fake donors, hospitals,
// campaigns and appointments. The route is admin-gated via auth.RequireRole;
// every seeded account gets the password "password123".
// Used by: POST /api/test-data
func GenerateTestDataHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error generating password hash"})
			return
		}

		hospitalCount := queryCount(r, "hospitals", 5)
		donorCount := queryCount(r, "donors", 50)

		hospitalIDs, err := seedHospitals(db, hospitalCount, hash)
		if err != nil {
			log.Printf("Error seeding hospitals: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error seeding hospitals"})
			return
		}

		donorIDs, err := seedDonors(db, donorCount, hash)
		if err != nil {
			log.Printf("Error seeding donors: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error seeding donors"})
			return
		}

		campaignIDs, err := seedCampaigns(db, hospitalIDs, 20)
		if err != nil {
			log.Printf("Error seeding campaigns: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error seeding campaigns"})
			return
		}

		appointments, err := seedAppointments(db, campaignIDs, donorIDs)
		if err != nil {
			log.Printf("Error seeding appointments: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error seeding appointments"})
			return
		}

		json.NewEncoder(w).Encode(map[string]int{
			"hospitals":    len(hospitalIDs),
			"donors":       len(donorIDs),
			"campaigns":    len(campaignIDs),
			"appointments": appointments,
		})
	}
}

func queryCount(r *http.Request, name string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 1 || n > 1000 {
		return fallback
	}
	return n
}

func seedHospitals(db *sql.DB, count int, hash []byte) ([]int, error) {
	ids := make([]int, 0, count)
	for i := 0; i < count; i++ {
		var id int
		err := db.QueryRow(auth.InsertHospitalQuery,
			fmt.Sprintf("%c%08d", 'A'+gofakeit.Number(0, 25), gofakeit.Number(0, 99999999)),
			gofakeit.Company()+" Hospital",
			gofakeit.Street()+", "+gofakeit.City(),
			gofakeit.Email(),
			gofakeit.Phone(),
			string(hash),
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedDonors(db *sql.DB, count int, hash []byte) ([]int, error) {
	ids := make([]int, 0, count)
	for i := 0; i < count; i++ {
		birth := gofakeit.DateRange(
			time.Now().AddDate(-65, 0, 0),
			time.Now().AddDate(-18, 0, 0),
		)
		var id int
		err := db.QueryRow(auth.InsertDonorQuery,
			fmt.Sprintf("%08d%c", gofakeit.Number(0, 99999999), 'A'+gofakeit.Number(0, 25)),
			gofakeit.FirstName(),
			gofakeit.LastName(),
			gofakeit.RandomString(genders),
			gofakeit.RandomString(bloodTypes),
			gofakeit.Email(),
			gofakeit.Phone(),
			birth.Format("2006-01-02"),
			string(hash),
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedCampaigns(db *sql.DB, hospitalIDs []int, count int) ([]int, error) {
	const insertQuery = `
		INSERT INTO campaign (
			hospital_id, name, description, start_date, end_date,
			location, required_donor_quantity, required_blood_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	ids := make([]int, 0, count)
	for i := 0; i < count; i++ {
		// Spread campaigns across past, current and future windows so the
		// calendar and staleness paths all get data.
		start := gofakeit.DateRange(
			time.Now().AddDate(0, -2, 0),
			time.Now().AddDate(0, 2, 0),
		)
		end := start.AddDate(0, 0, gofakeit.Number(1, 14))

		required := gofakeit.RandomString(bloodTypes)
		if gofakeit.Bool() {
			required = "Universal"
		}

		var id int
		err := db.QueryRow(insertQuery,
			hospitalIDs[gofakeit.Number(0, len(hospitalIDs)-1)],
			gofakeit.City()+" blood drive",
			gofakeit.Sentence(10),
			start.Format("2006-01-02"),
			end.Format("2006-01-02"),
			gofakeit.Street()+", "+gofakeit.City(),
			gofakeit.Number(10, 100),
			required,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedAppointments(db *sql.DB, campaignIDs, donorIDs []int) (int, error) {
	const insertQuery = `
		INSERT INTO appointment (
			appointment_status_id, campaign_id, blood_donor_id,
			date_appointment, hour_appointment
		)
		SELECT $1, c.id, $3, c.start_date, $4
		FROM campaign c
		WHERE c.id = $2
		ON CONFLICT DO NOTHING
	`

	created := 0
	for _, campaignID := range campaignIDs {
		for i := 0; i < gofakeit.Number(1, 5); i++ {
			status := gofakeit.RandomInt([]int{
				models.StatusScheduled, models.StatusConfirmed,
				models.StatusCompleted, models.StatusCancelled,
			})
			hour := fmt.Sprintf("%02d:%02d", gofakeit.Number(9, 19), gofakeit.RandomInt([]int{0, 15, 30, 45}))
			result, err := db.Exec(insertQuery,
				status,
				campaignID,
				donorIDs[gofakeit.Number(0, len(donorIDs)-1)],
				hour,
			)
			if err != nil {
				if strings.Contains(err.Error(), "duplicate") {
					continue
				}
				return created, err
			}
			if n, _ := result.RowsAffected(); n > 0 {
				created++
			}
		}
	}
	return created, nil
}
