package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restoadmin/utils"
)

// WebSocketMiddleware only admits websocket upgrade requests. The floor stream
// is public; a token passed as ?token= is still validated and, when valid,
// identifies the operator in the logs.
func WebSocketMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			utils.AbortWithError(c, http.StatusBadRequest, errors.New("websocket upgrade required"))
			return
		}

		if token := c.Query("token"); token != "" {
			claims, err := utils.ParseToken(token)
			if err != nil {
				utils.AbortWithError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
				return
			}
			c.Set("role", claims.Role)
			c.Set("user_id", claims.UserID)
		}

		c.Next()
	}
}
