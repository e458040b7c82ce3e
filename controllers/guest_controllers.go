package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/scheduling"
	"github.com/yeremiapane/restoadmin/utils"
	"gorm.io/gorm"
)

type GuestController struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewGuestController(db *gorm.DB, timeout time.Duration) *GuestController {
	return &GuestController{DB: db, Timeout: timeout}
}

// FindGuests -> lookup by phone in any common format, or the latest guests
func (gc *GuestController) FindGuests(c *gin.Context) {
	db, cancel := storageDB(c, gc.DB, gc.Timeout)
	defer cancel()

	var guests []models.Guest
	query := db.Order("updated_at desc").Limit(50)

	if raw := c.Query("phone"); raw != "" {
		phone, err := scheduling.NormalizePhone(raw)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		query = query.Where("phone = ?", phone)
	}

	if err := query.Find(&guests).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of guests", guests)
}

// GetGuestByID -> guest with reservation history, newest first
func (gc *GuestController) GetGuestByID(c *gin.Context) {
	id, err := parseIDParam(c, "guest_id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	db, cancel := storageDB(c, gc.DB, gc.Timeout)
	defer cancel()

	var guest models.Guest
	if err := db.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("guest not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	var history []models.Reservation
	if err := db.Unscoped().Preload("Table").
		Where("guest_id = ?", guest.ID).
		Order("start_time desc").Limit(20).
		Find(&history).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Guest detail", gin.H{
		"guest":        guest,
		"reservations": history,
	})
}
