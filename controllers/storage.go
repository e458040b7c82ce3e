package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const defaultStorageTimeout = 5 * time.Second

// storageDB scopes db to the request context with a bounded deadline. The
// caller must call the returned cancel func.
func storageDB(c *gin.Context, db *gorm.DB, timeout time.Duration) (*gorm.DB, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultStorageTimeout
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	return db.WithContext(ctx), cancel
}
