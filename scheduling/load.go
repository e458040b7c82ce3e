package scheduling

import (
	"math"
	"time"
)

// LoadLevel buckets an hour's load percentage.
type LoadLevel string

const (
	LoadLow    LoadLevel = "low"
	LoadMedium LoadLevel = "medium"
	LoadHigh   LoadLevel = "high"
	LoadPeak   LoadLevel = "peak"
)

// HourlyLoad is one heatmap segment.
type HourlyLoad struct {
	Hour              int       `json:"hour"`
	Load              int       `json:"load"`
	Level             LoadLevel `json:"level"`
	ReservationsCount int       `json:"reservationsCount"`
}

// LevelFor maps a 0..100 load to its level: 0-35 low, 36-60 medium,
// 61-80 high, 81-100 peak.
func LevelFor(load int) LoadLevel {
	switch {
	case load > 80:
		return LoadPeak
	case load > 60:
		return LoadHigh
	case load > 35:
		return LoadMedium
	default:
		return LoadLow
	}
}

// LoadPercent is min(100, round(100*count/totalTables)); an empty floor counts
// as one table.
func LoadPercent(count, totalTables int) int {
	if totalTables <= 0 {
		totalTables = 1
	}
	load := int(math.Round(100 * float64(count) / float64(totalTables)))
	if load > 100 {
		return 100
	}
	return load
}

// AggregateLoad returns one segment per operating hour of day, counting the
// active bookings that overlap [hour:00, hour+1:00).
func AggregateLoad(day time.Time, totalTables int, bookings []Booking, s Settings) []HourlyLoad {
	s = s.withDefaults()
	active := activeSorted(bookings)

	segments := make([]HourlyLoad, 0, s.ClosingHour-s.OpeningHour+1)
	for hour := s.OpeningHour; hour <= s.ClosingHour; hour++ {
		window := HourWindow(day, hour)
		count := 0
		for _, b := range active {
			if Overlaps(window, b.Interval()) {
				count++
			}
		}
		load := LoadPercent(count, totalTables)
		segments = append(segments, HourlyLoad{
			Hour:              hour,
			Load:              load,
			Level:             LevelFor(load),
			ReservationsCount: count,
		})
	}
	return segments
}
