package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/utils"
	"gorm.io/gorm"
)

type ZoneController struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewZoneController(db *gorm.DB, timeout time.Duration) *ZoneController {
	return &ZoneController{DB: db, Timeout: timeout}
}

// GetAllZones -> zones without statuses, for floor editing
func (zc *ZoneController) GetAllZones(c *gin.Context) {
	db, cancel := storageDB(c, zc.DB, zc.Timeout)
	defer cancel()

	query := db.Preload("Tables", func(db *gorm.DB) *gorm.DB {
		return db.Order("name asc")
	}).Order("zones.created_at asc, zones.id asc")

	if slug := c.Query("restaurantSlug"); slug != "" {
		query = query.Joins("JOIN restaurants ON restaurants.id = zones.restaurant_id").
			Where("restaurants.slug = ?", slug)
	}

	var zones []models.Zone
	if err := query.Find(&zones).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of zones", zones)
}

// CreateZone -> adds a zone to a restaurant
func (zc *ZoneController) CreateZone(c *gin.Context) {
	var req struct {
		RestaurantSlug string          `json:"restaurantSlug" binding:"required"`
		Name           string          `json:"name" binding:"required"`
		Elements       json.RawMessage `json:"elements"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Elements) > 0 && !json.Valid(req.Elements) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("elements must be valid JSON"))
		return
	}

	db, cancel := storageDB(c, zc.DB, zc.Timeout)
	defer cancel()

	var restaurant models.Restaurant
	if err := db.Where("slug = ?", req.RestaurantSlug).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	zone := models.Zone{
		RestaurantID: restaurant.ID,
		Name:         strings.TrimSpace(req.Name),
		Elements:     req.Elements,
	}
	if err := db.Create(&zone).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("New zone created: %s (restaurant=%s)", zone.Name, restaurant.Slug)
	utils.RespondJSON(c, http.StatusCreated, "Zone created successfully", zone)
}
