package scheduling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	for _, raw := range []string{"+7 (999) 123-45-67", "8 999 123 45 67", "79991234567"} {
		got, err := NormalizePhone(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "79991234567", got)
	}
	for _, raw := range []string{"", "+1 555 123 4567", "7999123456", "+7 999 123 45 678", "7٩٩٩٩٩", "7٩٩٩١٢٣٤٥٦٧", "+7 ９９９ 123 45 67"} {
		_, err := NormalizePhone(raw)
		assert.ErrorIs(t, err, ErrValidation, raw)
	}
}

func TestNormalizeGuestName(t *testing.T) {
	got, err := NormalizeGuestName("  Anna   Petrova ")
	require.NoError(t, err)
	assert.Equal(t, "Anna Petrova", got)

	_, err = NormalizeGuestName(strings.Repeat("я", 101))
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	_, err = NormalizeGuestName("")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "guestName", verr.Field)
}
