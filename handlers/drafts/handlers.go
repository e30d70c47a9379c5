package drafts

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"blood4life/backend/handlers/auth"
)

const (
	selectDraftQuery = `
		SELECT content
		FROM form_draft
		WHERE owner_role = $1 AND owner_id = $2 AND form = $3
	`

	upsertDraftQuery = `
		INSERT INTO form_draft (owner_role, owner_id, form, content, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (owner_role, owner_id, form)
		DO UPDATE SET content = EXCLUDED.content, updated_at = NOW()
	`

	deleteDraftQuery = `
		DELETE FROM form_draft
		WHERE owner_role = $1 AND owner_id = $2 AND form = $3
	`
)

// excludedFields never make it into a stored draft, whatever the form.
var excludedFields = []string{"password", "confirmPassword", "currentPassword", "newPassword"}

// stripExcluded removes sensitive fields from a draft payload. Only top-level
// keys are inspected; draft forms are flat.
func stripExcluded(draft map[string]interface{}) map[string]interface{} {
	for _, field := range excludedFields {
		delete(draft, field)
	}
	return draft
}

// GetDraftHandler returns the caller's saved draft for a form, or 404.
// Used by: GET /api/drafts/{form}
func GetDraftHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		userID, role, err := auth.IdentityFromRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}

		form := mux.Vars(r)["form"]
		var content []byte
		err = db.QueryRow(selectDraftQuery, role, userID, form).Scan(&content)
		if err == sql.ErrNoRows {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "No draft saved"})
			return
		}
		if err != nil {
			log.Printf("Error querying draft: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		w.Write(content)
	}
}

// SaveDraftHandler upserts the caller's draft for a form. Password fields are
// stripped before storage.
// Used by: PUT /api/drafts/{form}
func SaveDraftHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		userID, role, err := auth.IdentityFromRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}

		var draft map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
			return
		}

		content, err := json.Marshal(stripExcluded(draft))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid draft content"})
			return
		}

		form := mux.Vars(r)["form"]
		if _, err := db.Exec(upsertDraftQuery, role, userID, form, content); err != nil {
			log.Printf("Error saving draft: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error saving draft"})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"message": "Draft saved"})
	}
}

// DeleteDraftHandler discards the caller's draft for a form.
// Used by: DELETE /api/drafts/{form}
func DeleteDraftHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, err := auth.IdentityFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		form := mux.Vars(r)["form"]
		if _, err := db.Exec(deleteDraftQuery, role, userID, form); err != nil {
			log.Printf("Error deleting draft: %v", err)
			http.Error(w, "Error deleting draft", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
