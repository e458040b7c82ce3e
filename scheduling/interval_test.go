package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(testDay.Year(), testDay.Month(), testDay.Day(), hour, minute, 0, 0, time.UTC)
}

func span(h1, m1, h2, m2 int) Interval {
	return Interval{Start: at(h1, m1), End: at(h2, m2)}
}

func TestOverlaps(t *testing.T) {
	base := time.Unix(0, 0).UTC()
	iv := func(a, b int) Interval {
		return Interval{Start: base.Add(time.Duration(a) * time.Minute), End: base.Add(time.Duration(b) * time.Minute)}
	}

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"touching boundaries", iv(0, 10), iv(10, 20), false},
		{"partial overlap", iv(0, 10), iv(9, 20), true},
		{"identical", iv(0, 10), iv(0, 10), true},
		{"nested", iv(0, 30), iv(10, 20), true},
		{"disjoint", iv(0, 10), iv(20, 30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "overlap must be symmetric")
		})
	}
}

func TestNewIntervalRejectsEmptyRange(t *testing.T) {
	_, err := NewInterval(at(18, 0), at(18, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewInterval(at(20, 0), at(18, 0))
	assert.ErrorIs(t, err, ErrValidation)

	iv, err := NewInterval(at(18, 0), at(20, 0))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, iv.Duration())
}

func TestIntervalContainsIsHalfOpen(t *testing.T) {
	iv := span(18, 0, 20, 0)
	assert.True(t, iv.Contains(at(18, 0)))
	assert.True(t, iv.Contains(at(19, 59)))
	assert.False(t, iv.Contains(at(20, 0)))
	assert.False(t, iv.Contains(at(17, 59)))
}

func TestDayAndHourWindows(t *testing.T) {
	day := DayWindow(at(15, 42))
	assert.Equal(t, testDay, day.Start)
	assert.Equal(t, testDay.AddDate(0, 0, 1), day.End)

	hour := HourWindow(testDay, 19)
	assert.Equal(t, at(19, 0), hour.Start)
	assert.Equal(t, at(20, 0), hour.End)
	assert.Equal(t, "[2025-03-14 19:00, 20:00)", hour.String())
}
