package drafts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripExcludedRemovesPasswordFields(t *testing.T) {
	draft := map[string]interface{}{
		"firstName":       "Ana",
		"email":           "ana@example.com",
		"password":        "hunter2",
		"confirmPassword": "hunter2",
	}

	got := stripExcluded(draft)

	assert.Equal(t, "Ana", got["firstName"])
	assert.Equal(t, "ana@example.com", got["email"])
	assert.NotContains(t, got, "password")
	assert.NotContains(t, got, "confirmPassword")
}

func TestStripExcludedLeavesOtherFieldsAlone(t *testing.T) {
	draft := map[string]interface{}{
		"name":     "Summer drive",
		"location": "Madrid",
	}

	got := stripExcluded(draft)
	assert.Len(t, got, 2)
}
