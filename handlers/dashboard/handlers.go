package dashboard

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
)

const (
	selectTotalDonorsQuery = `SELECT COUNT(*) FROM blood_donor`

	selectDonorsByBloodTypeQuery = `
		SELECT blood_type, COUNT(*)
		FROM blood_donor
		GROUP BY blood_type
		ORDER BY blood_type
	`

	selectDonorsByGenderQuery = `
		SELECT gender, COUNT(*)
		FROM blood_donor
		GROUP BY gender
		ORDER BY gender
	`
)

type platformStats struct {
	TotalDonors       int            `json:"totalDonors"`
	DonorsByBloodType map[string]int `json:"donorsByBloodType"`
	DonorsByGender    map[string]int `json:"donorsByGender"`
}

func countsByKey(db *sql.DB, query string) (map[string]int, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

// GetStatsHandler returns the public donor counts shown on the landing page.
// Used by: GET /api/dashboard/stats
func GetStatsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var stats platformStats
		if err := db.QueryRow(selectTotalDonorsQuery).Scan(&stats.TotalDonors); err != nil {
			log.Printf("Error counting donors: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		var err error
		if stats.DonorsByBloodType, err = countsByKey(db, selectDonorsByBloodTypeQuery); err != nil {
			log.Printf("Error counting donors by blood type: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}
		if stats.DonorsByGender, err = countsByKey(db, selectDonorsByGenderQuery); err != nil {
			log.Printf("Error counting donors by gender: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		json.NewEncoder(w).Encode(stats)
	}
}
