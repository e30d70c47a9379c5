package media

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"blood4life/backend/handlers/auth"
)

const (
	maxUploadBytes = 5 << 20 // 5 MB

	updateDonorImageQuery    = `UPDATE blood_donor SET image_url = $1 WHERE id = $2`
	updateHospitalImageQuery = `UPDATE hospital SET image_url = $1 WHERE id = $2`
	selectDonorImageQuery    = `SELECT image_url FROM blood_donor WHERE id = $1`
	selectHospitalImageQuery = `SELECT image_url FROM hospital WHERE id = $1`
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "uploads"
}

func imageQueries(role string) (update, sel string, ok bool) {
	switch role {
	case auth.RoleDonor:
		return updateDonorImageQuery, selectDonorImageQuery, true
	case auth.RoleHospital:
		return updateHospitalImageQuery, selectHospitalImageQuery, true
	}
	return "", "", false
}

// UploadProfilePictureHandler stores the uploaded image under a random name
// and points the caller's profile at it. Any previous picture is removed.
// Used by: POST /api/media/profile-picture
func UploadProfilePictureHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		userID, role, err := auth.IdentityFromRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		updateQuery, selectQuery, ok := imageQueries(role)
		if !ok {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Profile pictures are for donors and hospitals"})
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "File too large or malformed upload"})
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Missing image field"})
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExtensions[ext] {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unsupported image type"})
			return
		}

		if err := os.MkdirAll(uploadDir(), 0o755); err != nil {
			log.Printf("Error creating upload dir: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error storing image"})
			return
		}

		filename := uuid.NewString() + ext
		path := filepath.Join(uploadDir(), filename)
		dst, err := os.Create(path)
		if err != nil {
			log.Printf("Error creating file %s: %v", path, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error storing image"})
			return
		}
		defer dst.Close()
		if _, err := io.Copy(dst, file); err != nil {
			log.Printf("Error writing file %s: %v", path, err)
			os.Remove(path)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error storing image"})
			return
		}

		var previous *string
		if err := db.QueryRow(selectQuery, userID).Scan(&previous); err != nil {
			log.Printf("Error querying previous image: %v", err)
		}

		imageURL := "/uploads/" + filename
		if _, err := db.Exec(updateQuery, imageURL, userID); err != nil {
			log.Printf("Error updating image url: %v", err)
			os.Remove(path)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error storing image"})
			return
		}

		removeStoredImage(previous)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"imageUrl": imageURL})
	}
}

// DeleteProfilePictureHandler clears the caller's profile picture.
// Used by: DELETE /api/media/profile-picture
func DeleteProfilePictureHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, err := auth.IdentityFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		updateQuery, selectQuery, ok := imageQueries(role)
		if !ok {
			http.Error(w, "Profile pictures are for donors and hospitals", http.StatusForbidden)
			return
		}

		var previous *string
		if err := db.QueryRow(selectQuery, userID).Scan(&previous); err != nil {
			log.Printf("Error querying previous image: %v", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		if _, err := db.Exec(updateQuery, nil, userID); err != nil {
			log.Printf("Error clearing image url: %v", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		removeStoredImage(previous)

		w.WriteHeader(http.StatusNoContent)
	}
}

func removeStoredImage(imageURL *string) {
	if imageURL == nil {
		return
	}
	name := filepath.Base(*imageURL)
	if name == "." || name == "/" {
		return
	}
	if err := os.Remove(filepath.Join(uploadDir(), name)); err != nil && !os.IsNotExist(err) {
		log.Printf("Error removing image %s: %v", name, err)
	}
}
