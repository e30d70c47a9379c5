package auth

const (
	// InsertDonorQuery creates a blood donor account.
	InsertDonorQuery = `
		INSERT INTO blood_donor (
			dni, first_name, last_name, gender, blood_type,
			email, phone_number, date_of_birth, password_hash
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	// InsertHospitalQuery creates a hospital account.
	InsertHospitalQuery = `
		INSERT INTO hospital (cif, name, address, email, phone_number, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	SelectDonorCredentialsQuery = `
		SELECT id, password_hash, first_name, last_name, gender, blood_type
		FROM blood_donor
		WHERE email = $1
	`

	SelectHospitalCredentialsQuery = `
		SELECT id, password_hash, name
		FROM hospital
		WHERE email = $1
	`

	SelectAdminCredentialsQuery = `
		SELECT id, password_hash, first_name, last_name
		FROM admin
		WHERE email = $1
	`

	CountDonorsQuery = `SELECT COUNT(*) FROM blood_donor`
)
