package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restoadmin/utils"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// Healthz reports that the process is up.
func (hc *HealthController) Healthz(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "ok", nil)
}

// Readyz pings the database and, when configured, Redis.
func (hc *HealthController) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	ready := true

	sqlDB, err := hc.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		utils.ErrorLogger.Errorf("Readiness: database ping failed: %v", err)
		checks["database"] = "unavailable"
		ready = false
	}

	if hc.Redis != nil {
		checks["redis"] = "ok"
		if err := hc.Redis.Ping(ctx).Err(); err != nil {
			utils.ErrorLogger.Errorf("Readiness: redis ping failed: %v", err)
			checks["redis"] = "unavailable"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, utils.JSONResponse{
			Status:  false,
			Message: errors.New("not ready").Error(),
			Data:    checks,
		})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "ready", checks)
}
