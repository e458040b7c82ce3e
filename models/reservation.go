package models

import (
	"time"

	"github.com/yeremiapane/restoadmin/scheduling"
	"gorm.io/gorm"
)

type Reservation struct {
	ID          uint                         `gorm:"primaryKey" json:"id"`
	TableID     uint                         `gorm:"not null;index:idx_reservation_table_span,priority:1" json:"tableId"`
	Table       *Table                       `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	GuestID     uint                         `gorm:"not null;index" json:"guestId"`
	Guest       *Guest                       `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	StartTime   time.Time                    `gorm:"not null;index:idx_reservation_table_span,priority:2" json:"startTime"`
	EndTime     time.Time                    `gorm:"not null;index:idx_reservation_table_span,priority:3" json:"endTime"`
	PeopleCount int                          `gorm:"not null" json:"peopleCount"`
	Status      scheduling.ReservationStatus `gorm:"type:varchar(20);not null;default:'confirmed';index" json:"status"`
	Comment     string                       `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt   time.Time                    `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time                    `gorm:"not null" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt               `gorm:"index" json:"-"`
}

// Booking flattens the reservation into the engine read model.
func (r Reservation) Booking() scheduling.Booking {
	return scheduling.Booking{
		ID:          r.ID,
		TableID:     r.TableID,
		Start:       r.StartTime,
		End:         r.EndTime,
		PeopleCount: r.PeopleCount,
		Status:      r.Status,
	}
}

// Bookings converts a slice of reservations.
func Bookings(rs []Reservation) []scheduling.Booking {
	out := make([]scheduling.Booking, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Booking())
	}
	return out
}
