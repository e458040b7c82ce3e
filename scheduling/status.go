package scheduling

import "time"

// TableStatus is what the floor view shows for a table at a given instant.
type TableStatus string

const (
	StatusFree     TableStatus = "free"
	StatusBusy     TableStatus = "busy"
	StatusReserved TableStatus = "reserved"
	StatusSoon     TableStatus = "soon"
)

// ResolveStatus computes a table's status at instant at from its bookings.
//
// A booking running at at wins over an upcoming one: the table is soon when at
// most SoonThreshold remains, busy otherwise. Without a running booking the
// table is reserved if a booking starts within ReservedLookahead after at.
// When several bookings match, the earliest-starting one decides.
func ResolveStatus(at time.Time, bookings []Booking, s Settings) TableStatus {
	s = s.withDefaults()
	ordered := activeSorted(bookings)

	for _, b := range ordered {
		if b.Interval().Contains(at) {
			if b.End.Sub(at) <= s.SoonThreshold {
				return StatusSoon
			}
			return StatusBusy
		}
	}

	horizon := at.Add(s.ReservedLookahead)
	for _, b := range ordered {
		if b.Start.After(at) && !b.Start.After(horizon) {
			return StatusReserved
		}
	}
	return StatusFree
}

// NearestBooking returns the earliest active booking that has not ended at at.
func NearestBooking(at time.Time, bookings []Booking) *Booking {
	for _, b := range activeSorted(bookings) {
		if b.End.After(at) {
			nearest := b
			return &nearest
		}
	}
	return nil
}

// TableStats summarises a floor at one instant.
type TableStats struct {
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Occupied  int `json:"occupied"`
	Soon      int `json:"soon"`
	Total     int `json:"total"`
}

// CountStatuses builds TableStats from resolved statuses.
func CountStatuses(statuses []TableStatus) TableStats {
	stats := TableStats{Total: len(statuses)}
	for _, st := range statuses {
		switch st {
		case StatusFree:
			stats.Available++
		case StatusReserved:
			stats.Reserved++
		case StatusBusy:
			stats.Occupied++
		case StatusSoon:
			stats.Soon++
		}
	}
	return stats
}
