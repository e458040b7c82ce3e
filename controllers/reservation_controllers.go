package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restoadmin/services"
	"github.com/yeremiapane/restoadmin/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

// GetReservations -> reservations of a day, earliest first
func (rc *ReservationController) GetReservations(c *gin.Context) {
	date, err := parseDateQuery(c, rc.Reservations.Location)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	list, err := rc.Reservations.ListForDay(c.Request.Context(), c.Query("restaurantSlug"), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", list)
}

// CreateReservation -> books a table after the conflict guard admits it
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req services.CreateReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// UpdateReservationStatus -> seat, finish or cancel a reservation
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.UpdateStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", reservation)
}

// CancelReservation -> cancels and removes a reservation
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	reservation, err := rc.Reservations.Cancel(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", reservation)
}
