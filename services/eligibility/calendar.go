package eligibility

import (
	"time"

	"blood4life/backend/models"
)

// DayStatus is the display state of one calendar cell.
type DayStatus string

const (
	DayNone      DayStatus = "none"
	DayUpcoming  DayStatus = "upcoming"
	DayActive    DayStatus = "active"
	DayCompleted DayStatus = "completed"
)

// DayClassification is the per-cell result. The boundary flags drive corner
// markers in the consuming UI; the status itself does not depend on them.
type DayClassification struct {
	Status          DayStatus         `json:"status"`
	Campaigns       []models.Campaign `json:"campaigns"`
	IsStartBoundary bool              `json:"isStartBoundary"`
	IsEndBoundary   bool              `json:"isEndBoundary"`
}

// ClassifyDay maps a calendar date to its display status given the campaign
// collection. A campaign is "on" a day when startDate <= day <= endDate,
// inclusive both ends; the comparison is lexicographic, valid only because
// dates are fixed-width YYYY-MM-DD (see DayFormat).
//
// Status precedence is active > upcoming > completed: active if ANY campaign
// on the day is running today, upcoming only if ALL are in the future,
// completed only if ALL have ended. A malformed date classifies as none.
func ClassifyDay(dateStr string, campaigns []models.Campaign, now time.Time) DayClassification {
	if !IsDayString(dateStr) {
		return DayClassification{Status: DayNone}
	}

	var onDay []models.Campaign
	for _, c := range campaigns {
		if c.StartDate <= dateStr && dateStr <= c.EndDate {
			onDay = append(onDay, c)
		}
	}
	if len(onDay) == 0 {
		return DayClassification{Status: DayNone}
	}

	today := now.Format(DayFormat)
	result := DayClassification{Status: DayNone, Campaigns: onDay}

	anyActive := false
	allFuture := true
	allPast := true
	for _, c := range onDay {
		if c.StartDate <= today && today <= c.EndDate {
			anyActive = true
		}
		if c.StartDate <= today {
			allFuture = false
		}
		if c.EndDate >= today {
			allPast = false
		}
		if c.StartDate == dateStr {
			result.IsStartBoundary = true
		}
		if c.EndDate == dateStr {
			result.IsEndBoundary = true
		}
	}

	switch {
	case anyActive:
		result.Status = DayActive
	case allFuture:
		result.Status = DayUpcoming
	case allPast:
		result.Status = DayCompleted
	}
	return result
}
