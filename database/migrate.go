package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedAdmin makes sure an admin account with login exists. An existing
// account is left untouched so a changed password survives restarts.
func SeedAdmin(db *gorm.DB, login, password string) error {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		utils.InfoLogger.Debug("ADMIN_LOGIN/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	err := db.Where("login = ?", login).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Login:    login,
		Name:     "Administrator",
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	utils.InfoLogger.Printf("Admin user %s created", login)
	return nil
}
