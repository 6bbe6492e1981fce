package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSlotTime(t *testing.T) {
	for _, ok := range []string{"00:00", "07:30", "19:45", "23:59"} {
		assert.NoError(t, validateSlotTime(ok), ok)
	}
	for _, bad := range []string{"", "7:30am", "24:00", "0730", "morning"} {
		assert.Error(t, validateSlotTime(bad), bad)
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "CASA42", normalizeCode("  casa42 "))
	assert.Equal(t, "", normalizeCode("   "))
}
