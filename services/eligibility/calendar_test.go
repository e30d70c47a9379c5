package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blood4life/backend/models"
)

func TestClassifyDayNoCampaigns(t *testing.T) {
	got := ClassifyDay("2024-06-15", nil, day("2024-06-15"))
	assert.Equal(t, DayNone, got.Status)
	assert.Empty(t, got.Campaigns)
}

func TestClassifyDayInclusiveRange(t *testing.T) {
	c := models.Campaign{ID: 1, StartDate: "2024-06-10", EndDate: "2024-06-12"}
	now := day("2024-01-01")

	for _, dateStr := range []string{"2024-06-10", "2024-06-11", "2024-06-12"} {
		got := ClassifyDay(dateStr, []models.Campaign{c}, now)
		assert.Len(t, got.Campaigns, 1, "day %s", dateStr)
	}
	for _, dateStr := range []string{"2024-06-09", "2024-06-13"} {
		got := ClassifyDay(dateStr, []models.Campaign{c}, now)
		assert.Equal(t, DayNone, got.Status, "day %s", dateStr)
	}
}

func TestClassifyDayStatuses(t *testing.T) {
	now := day("2024-06-15")
	tests := []struct {
		name     string
		campaign models.Campaign
		want     DayStatus
	}{
		{"running today", models.Campaign{StartDate: "2024-06-10", EndDate: "2024-06-20"}, DayActive},
		{"entirely future", models.Campaign{StartDate: "2024-07-01", EndDate: "2024-07-05"}, DayUpcoming},
		{"entirely past", models.Campaign{StartDate: "2024-05-01", EndDate: "2024-05-05"}, DayCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDay(tt.campaign.StartDate, []models.Campaign{tt.campaign}, now)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestClassifyDayActiveWinsOverCompleted(t *testing.T) {
	now := day("2024-06-15")
	active := models.Campaign{ID: 1, StartDate: "2024-06-14", EndDate: "2024-06-16"}
	endedYesterday := models.Campaign{ID: 2, StartDate: "2024-06-10", EndDate: "2024-06-14"}

	got := ClassifyDay("2024-06-14", []models.Campaign{active, endedYesterday}, now)
	assert.Equal(t, DayActive, got.Status)
	assert.Len(t, got.Campaigns, 2)
}

func TestClassifyDayBoundaryFlags(t *testing.T) {
	now := day("2024-06-15")
	c := models.Campaign{ID: 1, StartDate: "2024-06-10", EndDate: "2024-06-12"}

	got := ClassifyDay("2024-06-10", []models.Campaign{c}, now)
	assert.True(t, got.IsStartBoundary)
	assert.False(t, got.IsEndBoundary)

	got = ClassifyDay("2024-06-12", []models.Campaign{c}, now)
	assert.False(t, got.IsStartBoundary)
	assert.True(t, got.IsEndBoundary)

	oneDay := models.Campaign{ID: 2, StartDate: "2024-06-11", EndDate: "2024-06-11"}
	got = ClassifyDay("2024-06-11", []models.Campaign{oneDay}, now)
	assert.True(t, got.IsStartBoundary)
	assert.True(t, got.IsEndBoundary)
}

func TestClassifyDayMalformedDate(t *testing.T) {
	c := models.Campaign{ID: 1, StartDate: "2024-06-10", EndDate: "2024-06-12"}
	got := ClassifyDay("10/06/2024", []models.Campaign{c}, day("2024-06-15"))
	assert.Equal(t, DayNone, got.Status)
}
