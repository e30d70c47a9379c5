package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/cors"
	"golang.org/x/exp/rand"

	"blood4life/backend/handlers"
	"blood4life/backend/handlers/admin"
	"blood4life/backend/handlers/appointment"
	"blood4life/backend/handlers/auth"
	"blood4life/backend/handlers/campaign"
	"blood4life/backend/handlers/dashboard"
	"blood4life/backend/handlers/donor"
	"blood4life/backend/handlers/drafts"
	"blood4life/backend/handlers/hospital"
	"blood4life/backend/handlers/media"
	"blood4life/backend/handlers/notifications"
	"blood4life/backend/services/live"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{"DATABASE_URL", "JWT_SECRET_KEY"}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
		log.Printf("Environment variable %s is set", envVar)
	}

	// Initialize random seed
	rand.Seed(uint64(time.Now().UnixNano()))

	// Initialize database connection
	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Create router
	r := mux.NewRouter()

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	})

	// Public routes (no auth required)
	r.HandleFunc("/api/auth/register/donor", auth.RegisterDonorHandler(db)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/register/hospital", auth.RegisterHospitalHandler(db)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/login", auth.LoginHandler(db)).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/dashboard/stats", dashboard.GetStatsHandler(db)).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/campaigns", campaign.GetCampaignsHandler(db)).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/campaigns/{id:[0-9]+}", campaign.GetCampaignHandler(db)).Methods("GET", "OPTIONS")

	// Create a subrouter for protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(auth.AuthMiddleware)

	// Campaign routes
	protected.HandleFunc("/campaigns", campaign.CreateCampaignHandler(db)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/campaigns/{id:[0-9]+}", campaign.UpdateCampaignHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/campaigns/{id:[0-9]+}", campaign.DeleteCampaignHandler(db)).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/campaigns/hospital/{hospitalId:[0-9]+}", campaign.GetCampaignsByHospitalHandler(db)).Methods("GET", "OPTIONS")

	// Appointment routes
	protected.HandleFunc("/appointments", appointment.CreateAppointmentHandler(db)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/appointments/donor", appointment.GetAppointmentsByDonorHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/appointments/campaign/{campaignId:[0-9]+}", appointment.GetAppointmentsByCampaignHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/appointments/{id:[0-9]+}/status", appointment.UpdateAppointmentStatusHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/appointments/{id:[0-9]+}/cancel", appointment.CancelAppointmentHandler(db)).Methods("PUT", "OPTIONS")

	// Donor dashboard routes
	protected.HandleFunc("/donor/me", donor.GetProfileHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/donor/me", donor.UpdateProfileHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/donor/password", donor.ChangePasswordHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/donor/eligibility", donor.GetEligibilityHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/donor/campaigns", donor.GetCampaignsHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/donor/calendar", donor.GetCalendarHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/donor/appointments/upcoming", donor.GetUpcomingAppointmentsHandler(db)).Methods("GET", "OPTIONS")

	// Hospital dashboard routes
	protected.HandleFunc("/hospital/me", hospital.GetProfileHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/hospital/me", hospital.UpdateProfileHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/hospital/password", hospital.ChangePasswordHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/hospital/appointments/today", hospital.GetTodayAppointmentsHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/hospital/donations/monthly", hospital.GetMonthlyDonationsHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/hospital/stats", hospital.GetStatsHandler(db)).Methods("GET", "OPTIONS")

	// Admin routes
	protected.HandleFunc("/admin/me", admin.GetProfileHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/admin/me", admin.UpdateProfileHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/admin/password", admin.ChangePasswordHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/admin/donors", admin.GetDonorsHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/admin/donors/{id:[0-9]+}", admin.UpdateDonorHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/admin/donors/{id:[0-9]+}", admin.DeleteDonorHandler(db)).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/admin/hospitals", admin.GetHospitalsHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/admin/hospitals/{id:[0-9]+}", admin.UpdateHospitalHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/admin/hospitals/{id:[0-9]+}", admin.DeleteHospitalHandler(db)).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/admin/appointments", admin.GetAppointmentsHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/admin/appointments/{id:[0-9]+}", admin.DeleteAppointmentHandler(db)).Methods("DELETE", "OPTIONS")

	// Notification routes
	protected.HandleFunc("/notifications", notifications.GetNotificationsHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notifications/read", notifications.MarkNotificationsAsReadHandler(db)).Methods("POST", "OPTIONS")

	// Form draft routes
	protected.HandleFunc("/drafts/{form}", drafts.GetDraftHandler(db)).Methods("GET", "OPTIONS")
	protected.HandleFunc("/drafts/{form}", drafts.SaveDraftHandler(db)).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/drafts/{form}", drafts.DeleteDraftHandler(db)).Methods("DELETE", "OPTIONS")

	// Upload routes
	protected.HandleFunc("/media/profile-picture", media.UploadProfilePictureHandler(db)).Methods("POST", "OPTIONS")
	protected.HandleFunc("/media/profile-picture", media.DeleteProfilePictureHandler(db)).Methods("DELETE", "OPTIONS")

	// Test data route (admin only)
	protected.HandleFunc("/test-data", auth.RequireRole(auth.RoleAdmin, handlers.GenerateTestDataHandler(db))).Methods("POST", "OPTIONS")

	// Live update channel and stored uploads
	r.HandleFunc("/ws", live.HandleWebSocket(auth.IdentityFromToken))
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir("uploads"))))

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, c.Handler(r)))
}
