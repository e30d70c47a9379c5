package appointment

const appointmentColumns = `
	a.id,
	a.appointment_status_id,
	s.name AS status_name,
	a.campaign_id,
	a.blood_donor_id,
	COALESCE(a.hospital_comment, ''),
	to_char(a.date_appointment, 'YYYY-MM-DD'),
	to_char(a.hour_appointment, 'HH24:MI')
`

const (
	SelectAppointmentByIDQuery = `
		SELECT ` + appointmentColumns + `
		FROM appointment a
		JOIN appointment_status s ON s.id = a.appointment_status_id
		WHERE a.id = $1
	`

	SelectAppointmentsByDonorQuery = `
		SELECT ` + appointmentColumns + `
		FROM appointment a
		JOIN appointment_status s ON s.id = a.appointment_status_id
		WHERE a.blood_donor_id = $1
		ORDER BY a.date_appointment ASC, a.hour_appointment ASC
	`

	SelectAppointmentsByCampaignQuery = `
		SELECT ` + appointmentColumns + `
		FROM appointment a
		JOIN appointment_status s ON s.id = a.appointment_status_id
		WHERE a.campaign_id = $1
		ORDER BY a.date_appointment ASC, a.hour_appointment ASC
	`

	InsertAppointmentQuery = `
		INSERT INTO appointment (
			appointment_status_id, campaign_id, blood_donor_id,
			date_appointment, hour_appointment
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	UpdateAppointmentStatusQuery = `
		UPDATE appointment
		SET appointment_status_id = $1, hospital_comment = $2
		WHERE id = $3
	`

	CancelOwnAppointmentQuery = `
		UPDATE appointment
		SET appointment_status_id = 4
		WHERE id = $1 AND blood_donor_id = $2 AND appointment_status_id IN (1, 2)
	`

	// SelectDonationHistoryQuery lists completed donation dates for a donor.
	// This is the history the eligibility computation runs on.
	SelectDonationHistoryQuery = `
		SELECT a.blood_donor_id, a.date_appointment
		FROM appointment a
		WHERE a.blood_donor_id = $1 AND a.appointment_status_id = 3
		ORDER BY a.date_appointment ASC
	`

	selectDonorGatingDataQuery = `
		SELECT gender, blood_type
		FROM blood_donor
		WHERE id = $1
	`

	selectDuplicateEnrollmentQuery = `
		SELECT COUNT(*)
		FROM appointment
		WHERE campaign_id = $1 AND blood_donor_id = $2 AND appointment_status_id != 4
	`
)
