package eligibility

import (
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"blood4life/backend/models"
)

// stalenessGraceDays is how long a finished campaign stays visible in
// default filtered views, so last-minute viewers still see recently closed
// drives.
const stalenessGraceDays = 7

// FilterOptions carries the donor-dashboard filter state.
type FilterOptions struct {
	// OnlyCompatible keeps just the campaigns matching the donor's blood
	// type. Ignored while a calendar day is selected.
	OnlyCompatible bool
	// SearchQuery is matched case-insensitively against campaign name and
	// hospital name. Whitespace-only queries are a no-op.
	SearchQuery string
	// SelectedDate, when set (YYYY-MM-DD), switches the working set to
	// FilteredByDate: the campaigns already known to overlap that day.
	SelectedDate string
	// FilteredByDate is supplied by the caller alongside SelectedDate,
	// normally from a prior ClassifyDay call.
	FilteredByDate []models.Campaign
}

// FilterCampaigns runs the dashboard filter pipeline. Stage order matters:
//
//  1. staleness: drop campaigns that ended more than a week before now
//  2. date selection: replace the set with the selected day's campaigns,
//     re-applying only staleness -- a specific day is a stricter criterion
//     than compatibility or text search, so those stages are bypassed
//  3. compatibility (no date selected, OnlyCompatible set)
//  4. text search
//
// The result is sorted ascending by start date, stable on ties. Inputs are
// never mutated.
func FilterCampaigns(campaigns []models.Campaign, donorBloodType string, opts FilterOptions, now time.Time) []models.Campaign {
	cutoff := now.AddDate(0, 0, -stalenessGraceDays).Format(DayFormat)

	working := campaigns
	if opts.SelectedDate != "" {
		working = opts.FilteredByDate
	}

	filtered := make([]models.Campaign, 0, len(working))
	for _, c := range working {
		if c.EndDate < cutoff {
			continue
		}
		filtered = append(filtered, c)
	}

	if opts.SelectedDate == "" && opts.OnlyCompatible {
		compatible := filtered[:0:0]
		for _, c := range filtered {
			if IsCompatible(donorBloodType, ParseBloodTypes(c.RequiredBloodType)) {
				compatible = append(compatible, c)
			}
		}
		filtered = compatible
	}

	if query := strings.TrimSpace(opts.SearchQuery); opts.SelectedDate == "" && query != "" {
		query = strings.ToLower(query)
		matched := filtered[:0:0]
		for _, c := range filtered {
			if strings.Contains(strings.ToLower(c.Name), query) ||
				strings.Contains(strings.ToLower(c.HospitalName), query) {
				matched = append(matched, c)
			}
		}
		filtered = matched
	}

	slices.SortStableFunc(filtered, func(a, b models.Campaign) int {
		return strings.Compare(a.StartDate, b.StartDate)
	})
	return filtered
}
