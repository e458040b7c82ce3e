package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restoadmin/reports"
	"github.com/yeremiapane/restoadmin/scheduling"
	"github.com/yeremiapane/restoadmin/services"
)

type ReportController struct {
	Reservations *services.ReservationService
	Availability *services.AvailabilityService
}

func NewReportController(reservations *services.ReservationService, availability *services.AvailabilityService) *ReportController {
	return &ReportController{Reservations: reservations, Availability: availability}
}

// DayReport -> ?restaurantSlug&date&format=xlsx|pdf as an attachment
func (rc *ReportController) DayReport(c *gin.Context) {
	format, err := reports.ParseFormat(c.Query("format"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	date, err := parseDateQuery(c, rc.Availability.Location)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if date == nil {
		today := rc.Availability.Today()
		date = &today
	}
	slug := c.Query("restaurantSlug")
	ctx := c.Request.Context()

	list, err := rc.Reservations.ListForDay(ctx, slug, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	load, err := rc.Availability.HourlyLoad(ctx, services.AvailabilityQuery{RestaurantSlug: slug, Date: date})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	name := slug
	if name == "" {
		name = "all"
	}
	report := reports.DayReport{
		Restaurant:   name,
		Date:         scheduling.FormatDate(*date),
		Reservations: list,
		Load:         load,
	}

	var buf bytes.Buffer
	if err := reports.Render(&buf, report, format); err != nil {
		respondServiceError(c, fmt.Errorf("render %s report: %w", format, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(format)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
