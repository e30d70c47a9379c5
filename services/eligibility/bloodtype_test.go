package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBloodTypes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain comma separated", "A+,O+", []string{"A+", "O+"}},
		{"bracket and quote decorated", `["A+", "O+"]`, []string{"A+", "O+"}},
		{"mixed whitespace", ` A- , "B+" `, []string{"A-", "B+"}},
		{"single universal", "Universal", []string{"Universal"}},
		{"empty string", "", nil},
		{"only noise", `[""]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBloodTypes(tt.raw)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsCompatibleUniversalMatchesAnyDonorType(t *testing.T) {
	required := ParseBloodTypes(`["Universal"]`)
	for _, donorType := range []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"} {
		assert.True(t, IsCompatible(donorType, required), "donor type %s", donorType)
	}
}

func TestIsCompatibleExactMatch(t *testing.T) {
	required := ParseBloodTypes("A+,O+")
	assert.True(t, IsCompatible("A+", required))
	assert.True(t, IsCompatible("O+", required))
	assert.False(t, IsCompatible("O-", required))
	assert.False(t, IsCompatible("a+", required), "codes are case-sensitive")
}

func TestIsCompatibleMissingDonorTypeNeverMatches(t *testing.T) {
	assert.False(t, IsCompatible("", []string{"Universal"}))
	assert.False(t, IsCompatible("", []string{"A+", "O+"}))
	assert.False(t, IsCompatible("", nil))
}
