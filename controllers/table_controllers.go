package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restoadmin/hub"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/scheduling"
	"github.com/yeremiapane/restoadmin/services"
	"github.com/yeremiapane/restoadmin/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errTableHasReservations = errors.New("table has upcoming reservations")

type TableController struct {
	DB       *gorm.DB
	Notifier services.Notifier
	Timeout  time.Duration
}

func NewTableController(db *gorm.DB, notifier services.Notifier, timeout time.Duration) *TableController {
	return &TableController{DB: db, Notifier: notifier, Timeout: timeout}
}

// CreateTable -> adds a table to a zone
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		ZoneID   uint    `json:"zoneId" binding:"required"`
		Name     string  `json:"name" binding:"required"`
		Capacity int     `json:"capacity" binding:"required,min=1,max=20"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Shape    string  `json:"shape"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	db, cancel := storageDB(c, tc.DB, tc.Timeout)
	defer cancel()

	var zone models.Zone
	if err := db.Preload("Restaurant").First(&zone, req.ZoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("zone not found"))
			return
		}
		respondServiceError(c, err)
		return
	}

	table := models.Table{
		ZoneID:   zone.ID,
		Name:     strings.TrimSpace(req.Name),
		Capacity: req.Capacity,
		PosX:     req.X,
		PosY:     req.Y,
		Shape:    req.Shape,
	}
	if table.Shape == "" {
		table.Shape = "square"
	}
	if userID := c.GetUint("user_id"); userID != 0 {
		table.CreatedBy = &userID
	}

	if err := db.Create(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	tc.notify(c, hub.EventTableCreated, zone, table)
	utils.InfoLogger.Printf("New table created: %s (zone=%d capacity=%d)", table.Name, table.ZoneID, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> all active tables, optionally of one zone
func (tc *TableController) GetAllTables(c *gin.Context) {
	db, cancel := storageDB(c, tc.DB, tc.Timeout)
	defer cancel()

	query := db.Order("zone_id asc, name asc")
	if zoneID := c.Query("zoneId"); zoneID != "" {
		query = query.Where("zone_id = ?", zoneID)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// DeleteTable -> soft-deletes a table that has no upcoming active reservations
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, err := parseIDParam(c, "table_id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	db, cancel := storageDB(c, tc.DB, tc.Timeout)
	defer cancel()

	// The row lock serialises this with reservation creates on the same table.
	var table models.Table
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, id).Error; err != nil {
			return err
		}
		var upcoming int64
		if err := tx.Model(&models.Reservation{}).
			Where("table_id = ? AND end_time > ?", table.ID, time.Now().UTC()).
			Where("status IN ?", []scheduling.ReservationStatus{scheduling.ReservationConfirmed, scheduling.ReservationSeated}).
			Count(&upcoming).Error; err != nil {
			return err
		}
		if upcoming > 0 {
			return errTableHasReservations
		}
		return tx.Delete(&table).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	case errors.Is(err, errTableHasReservations):
		utils.RespondError(c, http.StatusConflict, err)
		return
	case err != nil:
		respondServiceError(c, err)
		return
	}

	var zone models.Zone
	if err := db.Preload("Restaurant").First(&zone, table.ZoneID).Error; err == nil {
		tc.notify(c, hub.EventTableDeleted, zone, table)
	}
	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted successfully", nil)
}

func (tc *TableController) notify(c *gin.Context, event string, zone models.Zone, table models.Table) {
	if tc.Notifier == nil {
		return
	}
	slug := ""
	if zone.Restaurant != nil {
		slug = zone.Restaurant.Slug
	}
	tc.Notifier.Notify(c.Request.Context(), services.Event{
		Type:           event,
		RestaurantSlug: slug,
		Data:           table,
		OccurredAt:     time.Now().UTC(),
	})
}
