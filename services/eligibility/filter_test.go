package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blood4life/backend/models"
)

func campaignIDs(campaigns []models.Campaign) []int {
	ids := make([]int, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestFilterCampaignsStalenessBoundary(t *testing.T) {
	now := day("2024-06-15")
	campaigns := []models.Campaign{
		{ID: 1, StartDate: "2024-06-01", EndDate: "2024-06-08", RequiredBloodType: "Universal"}, // ended exactly 7 days ago
		{ID: 2, StartDate: "2024-06-01", EndDate: "2024-06-07", RequiredBloodType: "Universal"}, // ended 8 days ago
		{ID: 3, StartDate: "2024-06-10", EndDate: "2024-06-20", RequiredBloodType: "Universal"},
	}

	got := FilterCampaigns(campaigns, "A+", FilterOptions{}, now)
	assert.Equal(t, []int{1, 3}, campaignIDs(got))
}

func TestFilterCampaignsCompatibility(t *testing.T) {
	now := day("2024-06-15")
	campaigns := []models.Campaign{
		{ID: 1, StartDate: "2024-06-10", EndDate: "2024-06-20", RequiredBloodType: `["A+", "O+"]`},
		{ID: 2, StartDate: "2024-06-11", EndDate: "2024-06-20", RequiredBloodType: "B-"},
		{ID: 3, StartDate: "2024-06-12", EndDate: "2024-06-20", RequiredBloodType: "Universal"},
	}

	got := FilterCampaigns(campaigns, "A+", FilterOptions{OnlyCompatible: true}, now)
	assert.Equal(t, []int{1, 3}, campaignIDs(got))

	// Without the toggle everything fresh passes through.
	got = FilterCampaigns(campaigns, "A+", FilterOptions{}, now)
	assert.Equal(t, []int{1, 2, 3}, campaignIDs(got))

	// A donor without a recorded type matches nothing when the toggle is on.
	got = FilterCampaigns(campaigns, "", FilterOptions{OnlyCompatible: true}, now)
	assert.Empty(t, got)
}

func TestFilterCampaignsDateSelectionBypassesCompatibilityAndSearch(t *testing.T) {
	now := day("2024-06-15")
	incompatible := models.Campaign{ID: 9, StartDate: "2024-06-14", EndDate: "2024-06-16", RequiredBloodType: "B-", Name: "Hospital Drive"}
	campaigns := []models.Campaign{
		{ID: 1, StartDate: "2024-06-10", EndDate: "2024-06-20", RequiredBloodType: "A+"},
		incompatible,
	}

	got := FilterCampaigns(campaigns, "A+", FilterOptions{
		OnlyCompatible: true,
		SearchQuery:    "no such campaign",
		SelectedDate:   "2024-06-15",
		FilteredByDate: []models.Campaign{incompatible},
	}, now)
	assert.Equal(t, []int{9}, campaignIDs(got))
}

func TestFilterCampaignsDateSelectionStillDropsStale(t *testing.T) {
	now := day("2024-06-15")
	stale := models.Campaign{ID: 4, StartDate: "2024-05-01", EndDate: "2024-06-01", RequiredBloodType: "A+"}

	got := FilterCampaigns([]models.Campaign{stale}, "A+", FilterOptions{
		SelectedDate:   "2024-05-20",
		FilteredByDate: []models.Campaign{stale},
	}, now)
	assert.Empty(t, got)
}

func TestFilterCampaignsTextSearch(t *testing.T) {
	now := day("2024-06-15")
	campaigns := []models.Campaign{
		{ID: 1, StartDate: "2024-06-10", EndDate: "2024-06-20", RequiredBloodType: "Universal", Name: "Summer Blood Drive", HospitalName: "General Hospital"},
		{ID: 2, StartDate: "2024-06-11", EndDate: "2024-06-20", RequiredBloodType: "Universal", Name: "Community Campaign", HospitalName: "St. Mary"},
	}

	got := FilterCampaigns(campaigns, "A+", FilterOptions{SearchQuery: "SUMMER"}, now)
	assert.Equal(t, []int{1}, campaignIDs(got))

	got = FilterCampaigns(campaigns, "A+", FilterOptions{SearchQuery: "st. mary"}, now)
	assert.Equal(t, []int{2}, campaignIDs(got))

	// Whitespace-only query is a no-op.
	got = FilterCampaigns(campaigns, "A+", FilterOptions{SearchQuery: "   "}, now)
	assert.Equal(t, []int{1, 2}, campaignIDs(got))
}

func TestFilterCampaignsSortedByStartDateStable(t *testing.T) {
	now := day("2024-06-15")
	campaigns := []models.Campaign{
		{ID: 3, StartDate: "2024-06-12", EndDate: "2024-06-20", RequiredBloodType: "Universal"},
		{ID: 1, StartDate: "2024-06-10", EndDate: "2024-06-20", RequiredBloodType: "Universal"},
		{ID: 2, StartDate: "2024-06-10", EndDate: "2024-06-25", RequiredBloodType: "Universal"},
	}

	got := FilterCampaigns(campaigns, "A+", FilterOptions{}, now)
	assert.Equal(t, []int{1, 2, 3}, campaignIDs(got))
}

func TestFilterCampaignsDoesNotMutateInput(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	campaigns := []models.Campaign{
		{ID: 2, StartDate: "2024-06-12", EndDate: "2024-06-20", RequiredBloodType: "Universal"},
		{ID: 1, StartDate: "2024-06-10", EndDate: "2024-06-20", RequiredBloodType: "Universal"},
	}

	FilterCampaigns(campaigns, "A+", FilterOptions{}, now)
	assert.Equal(t, []int{2, 1}, campaignIDs(campaigns))
}
