package scheduling

import (
	"sort"
	"time"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationSeated    ReservationStatus = "seated"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationFinished  ReservationStatus = "finished"
)

// ParseReservationStatus accepts only the four known statuses.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch st := ReservationStatus(s); st {
	case ReservationConfirmed, ReservationSeated, ReservationCancelled, ReservationFinished:
		return st, nil
	}
	return "", invalid("status", "unknown reservation status %q", s)
}

// Active statuses hold the table and take part in conflicts and occupancy.
func (s ReservationStatus) Active() bool {
	return s == ReservationConfirmed || s == ReservationSeated
}

var transitions = map[ReservationStatus][]ReservationStatus{
	ReservationConfirmed: {ReservationSeated, ReservationFinished, ReservationCancelled},
	ReservationSeated:    {ReservationFinished, ReservationCancelled},
}

// CheckTransition validates a status change. Re-applying the current status is
// allowed; cancelled and finished reservations are final, so a reservation can
// never become active again without going through the guard.
func CheckTransition(from, to ReservationStatus) error {
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}

// Booking is the flat read model of a reservation the engine works on.
type Booking struct {
	ID          uint
	TableID     uint
	Start       time.Time
	End         time.Time
	PeopleCount int
	Status      ReservationStatus
}

// Interval returns the booking's half-open time range.
func (b Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// activeSorted returns the active bookings ordered by start, end, then id.
// The input slice is left untouched.
func activeSorted(bookings []Booking) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.Active() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		if !out[i].End.Equal(out[j].End) {
			return out[i].End.Before(out[j].End)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
