package campaign

// currentDonorCount counts every non-cancelled appointment on the campaign.
const campaignColumns = `
	c.id,
	c.hospital_id,
	h.name AS hospital_name,
	c.name,
	COALESCE(c.description, ''),
	to_char(c.start_date, 'YYYY-MM-DD'),
	to_char(c.end_date, 'YYYY-MM-DD'),
	COALESCE(c.location, ''),
	c.required_donor_quantity,
	c.required_blood_type,
	(
		SELECT COUNT(*)
		FROM appointment a
		WHERE a.campaign_id = c.id AND a.appointment_status_id != 4
	) AS current_donor_count
`

const (
	SelectAllCampaignsQuery = `
		SELECT ` + campaignColumns + `
		FROM campaign c
		JOIN hospital h ON h.id = c.hospital_id
		ORDER BY c.start_date ASC, c.id ASC
	`

	SelectCampaignByIDQuery = `
		SELECT ` + campaignColumns + `
		FROM campaign c
		JOIN hospital h ON h.id = c.hospital_id
		WHERE c.id = $1
	`

	SelectCampaignsByHospitalQuery = `
		SELECT ` + campaignColumns + `
		FROM campaign c
		JOIN hospital h ON h.id = c.hospital_id
		WHERE c.hospital_id = $1
		ORDER BY c.start_date ASC, c.id ASC
	`

	InsertCampaignQuery = `
		INSERT INTO campaign (
			hospital_id, name, description, start_date, end_date,
			location, required_donor_quantity, required_blood_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	UpdateCampaignQuery = `
		UPDATE campaign
		SET name = $1, description = $2, start_date = $3, end_date = $4,
			location = $5, required_donor_quantity = $6, required_blood_type = $7
		WHERE id = $8 AND hospital_id = $9
	`

	DeleteCampaignQuery = `DELETE FROM campaign WHERE id = $1 AND hospital_id = $2`
)
