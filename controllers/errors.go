package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restoadmin/scheduling"
	"github.com/yeremiapane/restoadmin/utils"
)

var errInternal = errors.New("internal server error")

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case scheduling.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, scheduling.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		return http.StatusConflict
	case errors.Is(err, scheduling.ErrPartyTooLarge):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with its mapped status. Unexpected errors are
// logged and hidden behind a generic message.
func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.Errorf("%s %s failed (request %s): %v", c.Request.Method, c.FullPath(), c.GetString("request_id"), err)
		utils.RespondError(c, code, errInternal)
		return
	}
	utils.RespondError(c, code, err)
}

// parseDateQuery reads an optional ?date=YYYY-MM-DD.
func parseDateQuery(c *gin.Context, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return nil, nil
	}
	d, err := scheduling.ParseDate(raw, loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &scheduling.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return uint(id), nil
}
