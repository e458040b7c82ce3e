package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restoadmin/hub"
	"github.com/yeremiapane/restoadmin/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type FloorController struct {
	Hub *hub.FloorHub
}

func NewFloorController(h *hub.FloorHub) *FloorController {
	return &FloorController{Hub: h}
}

// Stream upgrades to a websocket and pushes the floor events of
// ?restaurantSlug (all restaurants when empty) until the client leaves.
func (fc *FloorController) Stream(c *gin.Context) {
	slug := c.Query("restaurantSlug")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("Websocket upgrade failed: %v", err)
		return
	}

	fc.Hub.RegisterClient(ws, slug)
	utils.InfoLogger.WithField("restaurant", slug).Debug("floor client connected")

	// incoming messages are ignored, reading only detects disconnects
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	fc.Hub.UnregisterClient(ws)
}
