package models

import (
	"time"

	"github.com/yeremiapane/restoadmin/scheduling"
	"gorm.io/gorm"
)

type Table struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ZoneID    uint           `gorm:"index;not null" json:"zoneId"`
	Name      string         `gorm:"type:varchar(50);not null" json:"name"`
	Capacity  int            `gorm:"not null;default:2" json:"capacity"`
	PosX      float64        `gorm:"not null;default:0" json:"x"`
	PosY      float64        `gorm:"not null;default:0" json:"y"`
	Shape     string         `gorm:"type:varchar(20);not null;default:'square'" json:"shape"`
	CreatedBy *uint          `json:"createdBy,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Info is the engine view of the table.
func (t Table) Info() scheduling.TableInfo {
	return scheduling.TableInfo{ID: t.ID, Name: t.Name, Capacity: t.Capacity}
}
