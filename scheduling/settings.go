// Package scheduling holds the table availability engine: interval overlap,
// table status resolution, reservation admission and hourly load aggregation.
// Everything here works on already-loaded snapshots and never touches storage.
package scheduling

import "time"

// Settings are the tunables of the engine. They come from configuration and are
// passed explicitly so that call sites never hardcode them.
type Settings struct {
	OpeningHour       int           // first bookable hour, inclusive
	ClosingHour       int           // last bookable hour, inclusive
	SlotStep          time.Duration // booking slot granularity
	BookingDuration   time.Duration // length of a new reservation
	SoonThreshold     time.Duration // remaining time under which a busy table is "soon"
	ReservedLookahead time.Duration // window after the reference time that marks a table "reserved"
	MaxPartySize      int
}

// DefaultSettings mirrors the restaurant's stock configuration.
func DefaultSettings() Settings {
	return Settings{
		OpeningHour:       12,
		ClosingHour:       23,
		SlotStep:          30 * time.Minute,
		BookingDuration:   2 * time.Hour,
		SoonThreshold:     30 * time.Minute,
		ReservedLookahead: 2 * time.Hour,
		MaxPartySize:      20,
	}
}

// withDefaults fills zero values so a partially configured Settings stays usable.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if (s.OpeningHour == 0 && s.ClosingHour == 0) || s.ValidateHours() != nil {
		s.OpeningHour, s.ClosingHour = d.OpeningHour, d.ClosingHour
	}
	if s.SlotStep <= 0 {
		s.SlotStep = d.SlotStep
	}
	if s.BookingDuration <= 0 {
		s.BookingDuration = d.BookingDuration
	}
	if s.SoonThreshold < 0 {
		s.SoonThreshold = d.SoonThreshold
	}
	if s.ReservedLookahead < 0 {
		s.ReservedLookahead = d.ReservedLookahead
	}
	if s.MaxPartySize <= 0 {
		s.MaxPartySize = d.MaxPartySize
	}
	return s
}

// ValidateHours checks 0 <= OpeningHour <= ClosingHour <= 23. Working hours
// never wrap past midnight.
func (s Settings) ValidateHours() error {
	if s.OpeningHour < 0 || s.ClosingHour > 23 || s.OpeningHour > s.ClosingHour {
		return invalid("workingHours", "working hours %d-%d must satisfy 0 <= start <= end <= 23",
			s.OpeningHour, s.ClosingHour)
	}
	return nil
}
