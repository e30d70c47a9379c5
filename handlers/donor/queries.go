package donor

const (
	selectDonorByIDQuery = `
		SELECT id, dni, first_name, last_name, gender, blood_type,
			email, phone_number, date_of_birth, image_url
		FROM blood_donor
		WHERE id = $1
	`

	// Scheduled or confirmed appointments from today on, soonest first.
	// The dashboard shows at most a handful, hence the limit.
	selectUpcomingAppointmentsQuery = `
		SELECT a.id, a.appointment_status_id, s.name,
			a.campaign_id, a.blood_donor_id, COALESCE(a.hospital_comment, ''),
			to_char(a.date_appointment, 'YYYY-MM-DD'),
			to_char(a.hour_appointment, 'HH24:MI'),
			c.name, h.name, COALESCE(c.location, '')
		FROM appointment a
		JOIN appointment_status s ON s.id = a.appointment_status_id
		JOIN campaign c ON c.id = a.campaign_id
		JOIN hospital h ON h.id = c.hospital_id
		WHERE a.blood_donor_id = $1
			AND a.appointment_status_id IN (1, 2)
			AND a.date_appointment >= CURRENT_DATE
		ORDER BY a.date_appointment ASC, a.hour_appointment ASC
		LIMIT 4
	`

	updateDonorProfileQuery = `
		UPDATE blood_donor
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4, date_of_birth = $5
		WHERE id = $6
	`

	selectDonorPasswordQuery = `SELECT password_hash FROM blood_donor WHERE id = $1`
	updateDonorPasswordQuery = `UPDATE blood_donor SET password_hash = $1 WHERE id = $2`
)
