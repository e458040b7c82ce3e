package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restoadmin/utils"
)

// Event types
const (
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status_changed"
	EventTableCreated             = "table.created"
	EventTableDeleted             = "table.deleted"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// FloorHub keeps the dashboard websocket clients of every restaurant and
// fans floor events out to them. A client subscribed with an empty slug
// receives events of all restaurants.
type FloorHub struct {
	clients map[*websocket.Conn]string // conn -> restaurant slug
	mutex   sync.Mutex
}

func NewFloorHub() *FloorHub {
	return &FloorHub{clients: make(map[*websocket.Conn]string)}
}

// RegisterClient adds a connection subscribed to slug.
func (h *FloorHub) RegisterClient(conn *websocket.Conn, slug string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = slug
}

// UnregisterClient removes and closes the connection.
func (h *FloorHub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *FloorHub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every client subscribed to slug. Clients that fail
// to receive are dropped.
func (h *FloorHub) Broadcast(slug string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling floor message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, subscribed := range h.clients {
		if subscribed != "" && slug != "" && subscribed != slug {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.InfoLogger.WithFields(logrus.Fields{
				"event": msg.Event,
				"slug":  subscribed,
			}).Warnf("dropping floor client: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
