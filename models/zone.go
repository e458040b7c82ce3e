package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Zone groups tables of one restaurant, e.g. "Main hall" or "Terrace".
// Elements keeps the decorative floor elements as raw JSON for the UI.
type Zone struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RestaurantID uint            `gorm:"index;not null" json:"restaurantId"`
	Restaurant   *Restaurant     `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	Elements     json.RawMessage `gorm:"type:text" json:"elements,omitempty"`
	Tables       []Table         `gorm:"foreignKey:ZoneID" json:"tables,omitempty"`
	CreatedAt    time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}
