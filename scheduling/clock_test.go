package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("19:30")
	require.NoError(t, err)
	assert.Equal(t, 19, h)
	assert.Equal(t, 30, m)

	h, m, err = ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 5, m)

	for _, bad := range []string{"", "19", "19:3", "24:00", "12:60", "ab:cd", "1:2:3", "+9:00", "-1:00", "9:+5"} {
		_, _, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	d, err := ParseDate("2025-03-14", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, d.Location())
	assert.Equal(t, "2025-03-14", FormatDate(d))

	_, err = ParseDate("14.03.2025", loc)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReferenceTime(t *testing.T) {
	now := at(13, 17)

	ref, err := ReferenceTime(testDay, "", now)
	require.NoError(t, err)
	assert.Equal(t, now, ref)

	ref, err = ReferenceTime(testDay, "19:50", now)
	require.NoError(t, err)
	assert.Equal(t, at(19, 50), ref)

	_, err = ReferenceTime(testDay, "later", now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSlotStarts(t *testing.T) {
	slots := SlotStarts(testDay, DefaultSettings())
	require.Len(t, slots, 24)
	assert.Equal(t, at(12, 0), slots[0])
	assert.Equal(t, at(12, 30), slots[1])
	assert.Equal(t, at(23, 30), slots[len(slots)-1])
}

func TestSlotStartsRunAcrossHours(t *testing.T) {
	s := DefaultSettings()
	s.SlotStep = 45 * time.Minute

	slots := SlotStarts(testDay, s)
	require.Len(t, slots, 16)
	assert.Equal(t, at(12, 0), slots[0])
	assert.Equal(t, at(12, 45), slots[1])
	assert.Equal(t, at(13, 30), slots[2])
	assert.Equal(t, at(23, 15), slots[len(slots)-1])
	for _, start := range slots {
		assert.NoError(t, withinWorkingHours(start, s), start.Format("15:04"))
	}
	assert.ErrorIs(t, withinWorkingHours(at(13, 0), s), ErrValidation)
}

func TestWithinWorkingHours(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, withinWorkingHours(at(12, 0), s))
	assert.NoError(t, withinWorkingHours(at(23, 30), s))
	assert.ErrorIs(t, withinWorkingHours(at(11, 30), s), ErrValidation)
	assert.ErrorIs(t, withinWorkingHours(at(19, 15), s), ErrValidation)
}
