package auth

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"blood4life/backend/services/live"
)

var validate = validator.New()

type LoginResponse struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	Role      string `json:"role"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Name      string `json:"name,omitempty"`
	Gender    string `json:"gender,omitempty"`
	BloodType string `json:"bloodType,omitempty"`
}

type donorRegisterRequest struct {
	DNI         string `json:"dni" validate:"required"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Gender      string `json:"gender" validate:"required,oneof=Masculino Femenino PreferNotToSay"`
	BloodType   string `json:"bloodType" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Password    string `json:"password" validate:"required,min=8"`
}

// RegisterDonorHandler handles blood donor registration.
// Used by: POST /api/auth/register/donor
func RegisterDonorHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req donorRegisterRequest
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

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error hashing password"})
			return
		}

		var dateOfBirth *string
		if req.DateOfBirth != "" {
			dateOfBirth = &req.DateOfBirth
		}

		var donorID int
		err = db.QueryRow(InsertDonorQuery,
			req.DNI, req.FirstName, req.LastName, req.Gender, req.BloodType,
			req.Email, req.PhoneNumber, dateOfBirth, string(hashedPassword),
		).Scan(&donorID)
		if err != nil {
			if strings.Contains(err.Error(), "unique constraint") {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "Email or DNI already registered"})
				return
			}
			log.Printf("Error creating donor: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error creating donor"})
			return
		}

		token, err := GenerateToken(donorID, RoleDonor)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error generating token"})
			return
		}

		// Push the new donor total to dashboard subscribers.
		go BroadcastTotalDonors(db)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(LoginResponse{
			ID:        donorID,
			Email:     req.Email,
			Token:     token,
			Role:      RoleDonor,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Gender:    req.Gender,
			BloodType: req.BloodType,
		})
	}
}

type hospitalRegisterRequest struct {
	CIF         string `json:"cif" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password" validate:"required,min=8"`
}

// RegisterHospitalHandler handles hospital registration.
// Used by: POST /api/auth/register/hospital
func RegisterHospitalHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req hospitalRegisterRequest
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

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error hashing password"})
			return
		}

		var hospitalID int
		err = db.QueryRow(InsertHospitalQuery,
			req.CIF, req.Name, req.Address, req.Email, req.PhoneNumber, string(hashedPassword),
		).Scan(&hospitalID)
		if err != nil {
			if strings.Contains(err.Error(), "unique constraint") {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "Email or CIF already registered"})
				return
			}
			log.Printf("Error creating hospital: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error creating hospital"})
			return
		}

		token, err := GenerateToken(hospitalID, RoleHospital)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error generating token"})
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(LoginResponse{
			ID:    hospitalID,
			Email: req.Email,
			Token: token,
			Role:  RoleHospital,
			Name:  req.Name,
		})
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=donor hospital admin"`
}

// LoginHandler authenticates a donor, hospital or admin against its table.
// Used by: POST /api/auth/login
func LoginHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req loginRequest
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

		response := LoginResponse{Email: req.Email, Role: req.Role}
		var hashedPassword string
		var err error

		switch req.Role {
		case RoleDonor:
			err = db.QueryRow(SelectDonorCredentialsQuery, req.Email).Scan(
				&response.ID, &hashedPassword, &response.FirstName,
				&response.LastName, &response.Gender, &response.BloodType)
		case RoleHospital:
			err = db.QueryRow(SelectHospitalCredentialsQuery, req.Email).Scan(
				&response.ID, &hashedPassword, &response.Name)
		case RoleAdmin:
			err = db.QueryRow(SelectAdminCredentialsQuery, req.Email).Scan(
				&response.ID, &hashedPassword, &response.FirstName, &response.LastName)
		}
		if err != nil {
			if err == sql.ErrNoRows {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
				return
			}
			log.Printf("Error during login: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
			return
		}

		token, err := GenerateToken(response.ID, req.Role)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Error generating token"})
			return
		}
		response.Token = token

		json.NewEncoder(w).Encode(response)
	}
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// HandlePasswordChange is the verify-then-rehash flow shared by the donor,
// hospital and admin password endpoints. The caller supplies the queries for
// its account table; identity and role checks happen before the call.
func HandlePasswordChange(w http.ResponseWriter, r *http.Request, db *sql.DB, selectQuery, updateQuery string, userID int) {
	var req passwordChangeRequest
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

	var currentHash string
	if err := db.QueryRow(selectQuery, userID).Scan(&currentHash); err != nil {
		log.Printf("Error querying password hash: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(req.CurrentPassword)); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Current password is incorrect"})
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Error hashing password"})
		return
	}

	if _, err := db.Exec(updateQuery, string(newHash), userID); err != nil {
		log.Printf("Error updating password: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Error updating password"})
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Password updated"})
}

// BroadcastTotalDonors publishes the current donor count on the
// total-blood-donors topic. Called whenever a donor account is created or
// removed.
func BroadcastTotalDonors(db *sql.DB) {
	var total int
	if err := db.QueryRow(CountDonorsQuery).Scan(&total); err != nil {
		log.Printf("Error counting donors: %v", err)
		return
	}
	live.Publish(live.TopicTotalBloodDonors, live.Event{
		Type:    live.EventTotalBloodDonors,
		Payload: total,
	})
}
