package appointment

// AppointmentRequest is the donor's enrollment payload. The appointment date
// must fall inside the campaign's date range and on or after the donor's next
// available donation date.
type AppointmentRequest struct {
	CampaignID      int    `json:"campaignId" validate:"required,gt=0"`
	DateAppointment string `json:"dateAppointment" validate:"required,datetime=2006-01-02"`
	HourAppointment string `json:"hourAppointment" validate:"required,datetime=15:04"`
}

// StatusUpdateRequest changes an appointment's status. Scheduled appointments
// move to confirmed, completed or cancelled; the comment is optional and
// shown to the donor.
type StatusUpdateRequest struct {
	StatusID        int    `json:"statusId" validate:"required,oneof=2 3 4"`
	HospitalComment string `json:"hospitalComment"`
}
