package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blood4life/backend/models"
)

func day(s string) time.Time {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeEligibilityFirstTimeDonor(t *testing.T) {
	now := day("2024-06-15")
	for _, gender := range []Gender{GenderMale, GenderFemale, GenderUnspecified, Gender("anything")} {
		e := ComputeEligibility(nil, gender, now)
		assert.True(t, e.CanDonateNow)
		assert.Equal(t, now, e.NextAvailableDate)
		assert.Equal(t, 0, e.DaysUntilNextDonation)
	}
}

func TestComputeEligibilityWaitingPeriodByGender(t *testing.T) {
	history := []DonationRecord{{DonorID: 1, Date: day("2024-01-01")}}

	male := ComputeEligibility(history, GenderMale, day("2024-01-02"))
	assert.Equal(t, day("2024-03-31"), male.NextAvailableDate, "90 days after 2024-01-01")

	for _, gender := range []Gender{GenderFemale, GenderUnspecified, Gender("Otro")} {
		e := ComputeEligibility(history, gender, day("2024-01-02"))
		assert.Equal(t, day("2024-04-30"), e.NextAvailableDate, "120 days after 2024-01-01 for %q", gender)
	}
}

func TestComputeEligibilityUsesMostRecentDonation(t *testing.T) {
	history := []DonationRecord{
		{DonorID: 1, Date: day("2023-05-01")},
		{DonorID: 1, Date: day("2024-01-01")},
		{DonorID: 1, Date: day("2023-11-20")},
	}
	e := ComputeEligibility(history, GenderMale, day("2024-01-02"))
	assert.Equal(t, day("2024-03-31"), e.NextAvailableDate)
}

func TestComputeEligibilityMonotonicity(t *testing.T) {
	history := []DonationRecord{{DonorID: 1, Date: day("2024-01-01")}}
	next := day("2024-03-31")

	for _, now := range []time.Time{day("2024-01-02"), day("2024-02-15"), day("2024-03-30")} {
		e := ComputeEligibility(history, GenderMale, now)
		require.True(t, now.Before(next))
		assert.False(t, e.CanDonateNow, "now=%s", now)
		assert.Greater(t, e.DaysUntilNextDonation, 0)
	}
	for _, now := range []time.Time{next, day("2024-04-01"), day("2025-01-01")} {
		e := ComputeEligibility(history, GenderMale, now)
		assert.True(t, e.CanDonateNow, "now=%s", now)
		assert.Equal(t, 0, e.DaysUntilNextDonation)
	}
}

func TestComputeEligibilityDaysUntilRoundsUp(t *testing.T) {
	history := []DonationRecord{{DonorID: 1, Date: day("2024-01-01")}}

	// 12 hours short of the full waiting period still counts as one day.
	now := day("2024-03-30").Add(12 * time.Hour)
	e := ComputeEligibility(history, GenderMale, now)
	assert.False(t, e.CanDonateNow)
	assert.Equal(t, 1, e.DaysUntilNextDonation)

	e = ComputeEligibility(history, GenderMale, day("2024-03-01"))
	assert.Equal(t, 30, e.DaysUntilNextDonation)
}

func TestCanJoinCampaign(t *testing.T) {
	history := []DonationRecord{{DonorID: 1, Date: day("2024-01-01")}}
	e := ComputeEligibility(history, GenderMale, day("2024-01-02"))

	joinable := models.Campaign{StartDate: "2024-03-31", EndDate: "2024-04-05"}
	tooSoon := models.Campaign{StartDate: "2024-03-30", EndDate: "2024-04-05"}
	malformed := models.Campaign{StartDate: "31/03/2024", EndDate: "2024-04-05"}

	assert.True(t, CanJoinCampaign(joinable, e))
	assert.False(t, CanJoinCampaign(tooSoon, e))
	assert.False(t, CanJoinCampaign(malformed, e))
}

func TestIsDayString(t *testing.T) {
	assert.True(t, IsDayString("2024-02-29"))
	assert.False(t, IsDayString("2024-2-9"))
	assert.False(t, IsDayString("2024-02-30"))
	assert.False(t, IsDayString("2024-02-29T00:00:00Z"))
	assert.False(t, IsDayString(""))
}
