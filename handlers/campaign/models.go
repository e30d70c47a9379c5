package campaign

// CampaignRequest is the create/update payload. Dates are YYYY-MM-DD;
// RequiredBloodTypes is the clean list, joined comma-separated for storage.
type CampaignRequest struct {
	Name                  string   `json:"name" validate:"required"`
	Description           string   `json:"description"`
	StartDate             string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate               string   `json:"endDate" validate:"required,datetime=2006-01-02"`
	Location              string   `json:"location" validate:"required"`
	RequiredDonorQuantity int      `json:"requiredDonorQuantity" validate:"required,gt=0"`
	RequiredBloodTypes    []string `json:"requiredBloodTypes" validate:"required,min=1,dive,oneof=A+ A- B+ B- AB+ AB- O+ O- Universal"`
}
