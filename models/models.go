package models

import "time"

// Campaign is the wire representation of a donation campaign. Start and end
// dates are fixed-width YYYY-MM-DD strings (inclusive range, startDate <=
// endDate), which keeps lexicographic comparison valid everywhere they are
// compared. RequiredBloodType is the denormalized comma-separated string the
// database stores; use eligibility.ParseBloodTypes to get the clean set.
type Campaign struct {
	ID                    int    `json:"id"`
	HospitalID            int    `json:"hospitalId"`
	HospitalName          string `json:"hospitalName"`
	Name                  string `json:"name"`
	Description           string `json:"description"`
	StartDate             string `json:"startDate"`
	EndDate               string `json:"endDate"`
	Location              string `json:"location"`
	RequiredDonorQuantity int    `json:"requiredDonorQuantity"`
	RequiredBloodType     string `json:"requiredBloodType"`
	CurrentDonorCount     int    `json:"currentDonorCount"`
}

// AppointmentStatus mirrors the backend-owned status enumeration. The numeric
// ids are an external contract; see the Status* constants.
type AppointmentStatus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Appointment status codes. These are stable database ids, not derived values.
const (
	StatusScheduled = 1
	StatusConfirmed = 2
	StatusCompleted = 3
	StatusCancelled = 4
)

type Appointment struct {
	ID                int               `json:"id"`
	AppointmentStatus AppointmentStatus `json:"appointmentStatus"`
	CampaignID        int               `json:"campaignId"`
	BloodDonorID      int               `json:"bloodDonorId"`
	HospitalComment   string            `json:"hospitalComment"`
	DateAppointment   string            `json:"dateAppointment"`
	HourAppointment   string            `json:"hourAppointment"`
}

// BloodDonor holds donor profile data. BloodType is one of the eight
// canonical codes (A+, A-, B+, B-, AB+, AB-, O+, O-); a donor is never
// "Universal" -- that sentinel exists only on the campaign side.
type BloodDonor struct {
	ID          int        `json:"id"`
	DNI         string     `json:"dni"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Gender      string     `json:"gender"`
	BloodType   string     `json:"bloodType"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	ImageURL    *string    `json:"imageUrl"`
}

type Hospital struct {
	ID          int     `json:"id"`
	CIF         string  `json:"cif"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber"`
	ImageURL    *string `json:"imageUrl"`
}

type Admin struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Notification struct {
	ID               int       `json:"id"`
	Message          string    `json:"message"`
	DateNotification time.Time `json:"dateNotification"`
	Read             bool      `json:"read"`
}
