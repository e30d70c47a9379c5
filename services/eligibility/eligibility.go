package eligibility

import (
	"math"
	"time"

	"blood4life/backend/models"
)

// DayFormat is the fixed-width date layout used throughout the campaign
// domain. Lexicographic comparison of two such strings matches chronological
// order; that invariant is relied on by the filter pipeline and the calendar
// classifier.
const DayFormat = "2006-01-02"

// IsDayString reports whether s is a well-formed YYYY-MM-DD date.
func IsDayString(s string) bool {
	if len(s) != len(DayFormat) {
		return false
	}
	_, err := time.Parse(DayFormat, s)
	return err == nil
}

// Gender values as stored on the donor record.
type Gender string

const (
	GenderMale        Gender = "Masculino"
	GenderFemale      Gender = "Femenino"
	GenderUnspecified Gender = "PreferNotToSay"
)

// Waiting period between completed donations, in days. Any gender value not
// in the table gets the fallback; note that this sends PreferNotToSay donors
// into the 120-day branch, preserving the observed production rule.
var waitingDays = map[Gender]int{
	GenderMale:        90,
	GenderFemale:      120,
	GenderUnspecified: 120,
}

const fallbackWaitingDays = 120

// WaitingPeriodDays returns the post-donation waiting period for a gender.
func WaitingPeriodDays(gender Gender) int {
	if days, ok := waitingDays[gender]; ok {
		return days
	}
	return fallbackWaitingDays
}

// DonationRecord is a completed donation, derived from an appointment whose
// status is models.StatusCompleted. Read-only to this package.
type DonationRecord struct {
	DonorID int
	Date    time.Time
}

// Eligibility is a pure projection of the donor's donation history; it is
// recomputed on every request and never cached.
type Eligibility struct {
	NextAvailableDate     time.Time `json:"nextAvailableDate"`
	CanDonateNow          bool      `json:"canDonateNow"`
	DaysUntilNextDonation int       `json:"daysUntilNextDonation"`
}

// ComputeEligibility derives when the donor may next donate. A donor who has
// never donated may donate immediately. Otherwise the waiting period counts
// from the most recent donation, and the days-until counter uses ceiling
// division so it never reads 0 while the donor is still ineligible.
func ComputeEligibility(history []DonationRecord, gender Gender, now time.Time) Eligibility {
	if len(history) == 0 {
		return Eligibility{NextAvailableDate: now, CanDonateNow: true}
	}

	last := history[0].Date
	for _, record := range history[1:] {
		if record.Date.After(last) {
			last = record.Date
		}
	}

	next := last.AddDate(0, 0, WaitingPeriodDays(gender))
	if !now.Before(next) {
		return Eligibility{NextAvailableDate: next, CanDonateNow: true}
	}

	days := int(math.Ceil(next.Sub(now).Hours() / 24))
	return Eligibility{
		NextAvailableDate:     next,
		CanDonateNow:          false,
		DaysUntilNextDonation: days,
	}
}

// CanJoinCampaign reports whether the donor will be eligible again by the
// time the campaign starts. Malformed start dates degrade to false.
func CanJoinCampaign(campaign models.Campaign, e Eligibility) bool {
	if !IsDayString(campaign.StartDate) {
		return false
	}
	// Day granularity: a campaign starting on the donor's next-available
	// day is joinable.
	return campaign.StartDate >= e.NextAvailableDate.Format(DayFormat)
}
