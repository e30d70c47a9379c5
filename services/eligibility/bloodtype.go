// Package eligibility implements the donor-side derivation rules: blood-type
// compatibility, donation waiting periods, campaign filtering and calendar
// day classification. Everything here is pure and side-effect free; handlers
// call in with already-fetched collections.
package eligibility

import (
	"regexp"
	"strings"
)

// Universal is the campaign-side sentinel meaning "any donor type is
// acceptable". It is asymmetric: a donor's own blood type is never Universal.
const Universal = "Universal"

// The database stores a campaign's required blood types as a loosely escaped
// comma-separated string, sometimes bracket/quote decorated (`["A+", "O+"]`)
// and sometimes plain (`A+,O+`). Strip the noise once here instead of at
// every call site.
var bloodTypeNoise = regexp.MustCompile(`[\[\]"]`)

// ParseBloodTypes splits a raw required-blood-type string into clean type
// codes. Empty tokens are dropped, so ParseBloodTypes("") returns an empty
// slice.
func ParseBloodTypes(raw string) []string {
	parts := strings.Split(raw, ",")
	types := make([]string, 0, len(parts))
	for _, part := range parts {
		t := strings.TrimSpace(bloodTypeNoise.ReplaceAllString(part, ""))
		if t != "" {
			types = append(types, t)
		}
	}
	return types
}

// IsCompatible reports whether a donor with the given blood type satisfies a
// campaign's required type set. True iff the set contains Universal or the
// donor's exact code (case-sensitive canonical codes).
//
// A donor with no recorded blood type never matches anything, Universal
// included: absent data means nothing is verified yet, and a false negative
// in a dashboard filter is harmless while a false positive could steer an
// incompatible donor toward a campaign.
func IsCompatible(donorType string, requiredTypes []string) bool {
	if donorType == "" {
		return false
	}
	for _, t := range requiredTypes {
		if t == Universal || t == donorType {
			return true
		}
	}
	return false
}
