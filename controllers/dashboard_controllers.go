package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restoadmin/services"
	"github.com/yeremiapane/restoadmin/utils"
)

// DashboardController serves the floor views computed by the availability
// service.
type DashboardController struct {
	Availability *services.AvailabilityService
}

func NewDashboardController(availability *services.AvailabilityService) *DashboardController {
	return &DashboardController{Availability: availability}
}

func (dc *DashboardController) query(c *gin.Context) (services.AvailabilityQuery, error) {
	date, err := parseDateQuery(c, dc.Availability.Location)
	if err != nil {
		return services.AvailabilityQuery{}, err
	}
	return services.AvailabilityQuery{
		RestaurantSlug: c.Query("restaurantSlug"),
		Date:           date,
		ViewTime:       c.Query("viewTime"),
	}, nil
}

// GetZones -> zones with their tables and table status at the view time
func (dc *DashboardController) GetZones(c *gin.Context) {
	q, err := dc.query(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	snap, err := dc.Availability.Snapshot(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if snap.Partial {
		c.Header("X-Partial-Content", "true")
	}
	utils.RespondJSON(c, http.StatusOK, "List of zones", snap.Zones)
}

// GetDashboard -> zones, hourly load and table stats in one payload
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	q, err := dc.query(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	snap, err := dc.Availability.Snapshot(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard snapshot", snap)
}

// GetLoad -> hourly heatmap of the day
func (dc *DashboardController) GetLoad(c *gin.Context) {
	q, err := dc.query(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	load, err := dc.Availability.HourlyLoad(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Hourly load", load)
}

// GetSlots -> bookable start times of a table with availability
func (dc *DashboardController) GetSlots(c *gin.Context) {
	var q struct {
		TableID uint `form:"tableId" binding:"required"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	date, err := parseDateQuery(c, dc.Availability.Location)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	slots, err := dc.Availability.Slots(c.Request.Context(), q.TableID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking slots", slots)
}
