package models

import "time"

// User is a restaurant operator (hostess, manager) who signs in to the dashboard.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Login      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"login"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Secondname string    `gorm:"type:varchar(255)" json:"secondname"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"`
	Role       string    `gorm:"type:varchar(50);not null;default:'hostess'" json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleHostess = "hostess"
)
