package scheduling

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is; the typed errors below carry
// the details and unwrap to one of these.
var (
	ErrValidation        = errors.New("validation failed")
	ErrSlotUnavailable   = errors.New("slot unavailable")
	ErrPartyTooLarge     = errors.New("party too large")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError identifies the active reservation a candidate collides with.
type ConflictError struct {
	ReservationID uint
	Interval      Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("table is already booked from %s to %s",
		e.Interval.Start.Format("15:04"), e.Interval.End.Format("15:04"))
}

func (e *ConflictError) Unwrap() error { return ErrSlotUnavailable }

// CapacityError is returned when a party does not fit the table.
type CapacityError struct {
	Capacity    int
	PeopleCount int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("party of %d exceeds table capacity %d", e.PeopleCount, e.Capacity)
}

func (e *CapacityError) Unwrap() error { return ErrPartyTooLarge }

// TransitionError rejects a reservation status change.
type TransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change reservation status from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// IsValidation reports whether err should be surfaced as bad input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidTransition)
}
