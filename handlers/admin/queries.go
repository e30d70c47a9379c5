package admin

const (
	selectAdminByIDQuery = `
		SELECT id, first_name, last_name, email
		FROM admin
		WHERE id = $1
	`

	updateAdminQuery = `
		UPDATE admin
		SET first_name = $1, last_name = $2, email = $3
		WHERE id = $4
	`

	selectAdminPasswordQuery = `SELECT password_hash FROM admin WHERE id = $1`
	updateAdminPasswordQuery = `UPDATE admin SET password_hash = $1 WHERE id = $2`

	selectAllDonorsQuery = `
		SELECT id, dni, first_name, last_name, gender, blood_type,
			email, phone_number, date_of_birth, image_url
		FROM blood_donor
		ORDER BY last_name ASC, first_name ASC
	`

	updateDonorQuery = `
		UPDATE blood_donor
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4
		WHERE id = $5
	`

	deleteDonorQuery = `DELETE FROM blood_donor WHERE id = $1`

	selectAllHospitalsQuery = `
		SELECT id, cif, name, address, email, phone_number, image_url
		FROM hospital
		ORDER BY name ASC
	`

	updateHospitalQuery = `
		UPDATE hospital
		SET name = $1, address = $2, email = $3, phone_number = $4
		WHERE id = $5
	`

	deleteHospitalQuery = `DELETE FROM hospital WHERE id = $1`

	selectAllAppointmentsQuery = `
		SELECT a.id, a.appointment_status_id, s.name,
			a.campaign_id, a.blood_donor_id, COALESCE(a.hospital_comment, ''),
			to_char(a.date_appointment, 'YYYY-MM-DD'),
			to_char(a.hour_appointment, 'HH24:MI')
		FROM appointment a
		JOIN appointment_status s ON s.id = a.appointment_status_id
		ORDER BY a.date_appointment DESC, a.hour_appointment DESC
	`

	deleteAppointmentQuery = `DELETE FROM appointment WHERE id = $1`
)
