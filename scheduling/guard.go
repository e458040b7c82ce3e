package scheduling

import "time"

// Candidate is a reservation that has not been admitted yet.
type Candidate struct {
	TableID     uint
	Start       time.Time
	PeopleCount int
	GuestName   string
	GuestPhone  string
}

// TableInfo is the part of a table the guard needs.
type TableInfo struct {
	ID       uint
	Name     string
	Capacity int
}

// Guard admits new reservations. It is the only place that decides whether a
// table can take a booking.
type Guard struct {
	Settings Settings
}

// NewGuard returns a guard using s.
func NewGuard(s Settings) Guard {
	return Guard{Settings: s.withDefaults()}
}

// Admit checks c against the table and its existing bookings and returns the
// interval the reservation will occupy. Format, working hours and capacity
// are checked before any overlap; the first conflicting active booking
// rejects the candidate.
func (g Guard) Admit(c Candidate, t TableInfo, existing []Booking) (Interval, error) {
	s := g.Settings.withDefaults()

	if _, err := NormalizeGuestName(c.GuestName); err != nil {
		return Interval{}, err
	}
	if _, err := NormalizePhone(c.GuestPhone); err != nil {
		return Interval{}, err
	}
	if err := ValidatePartySize(c.PeopleCount, s); err != nil {
		return Interval{}, err
	}
	if err := withinWorkingHours(c.Start, s); err != nil {
		return Interval{}, err
	}
	if c.PeopleCount > t.Capacity {
		return Interval{}, &CapacityError{Capacity: t.Capacity, PeopleCount: c.PeopleCount}
	}

	slot, err := NewInterval(c.Start, c.Start.Add(s.BookingDuration))
	if err != nil {
		return Interval{}, err
	}
	if conflict := FirstConflict(slot, t.ID, existing); conflict != nil {
		return Interval{}, &ConflictError{ReservationID: conflict.ID, Interval: conflict.Interval()}
	}
	return slot, nil
}

// FirstConflict returns the earliest active booking of tableID that overlaps
// slot, or nil. Bookings of other tables are ignored.
func FirstConflict(slot Interval, tableID uint, existing []Booking) *Booking {
	for _, b := range activeSorted(existing) {
		if b.TableID != tableID {
			continue
		}
		if Overlaps(slot, b.Interval()) {
			conflict := b
			return &conflict
		}
	}
	return nil
}

// SlotAvailability is one bookable start time and whether it is still free.
type SlotAvailability struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// AvailableSlots lists the day's bookable starts for a table. A slot is
// unavailable when a booking of BookingDuration from it would conflict or
// when it starts before now.
func (g Guard) AvailableSlots(day time.Time, tableID uint, existing []Booking, now time.Time) []SlotAvailability {
	s := g.Settings.withDefaults()
	starts := SlotStarts(day, s)
	out := make([]SlotAvailability, 0, len(starts))
	for _, start := range starts {
		slot := Interval{Start: start, End: start.Add(s.BookingDuration)}
		out = append(out, SlotAvailability{
			Start:     start.Format("15:04"),
			End:       slot.End.Format("15:04"),
			Available: !start.Before(now) && FirstConflict(slot, tableID, existing) == nil,
		})
	}
	return out
}
