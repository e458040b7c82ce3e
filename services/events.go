package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restoadmin/hub"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/utils"
)

// Event is a floor change pushed to dashboards and the broker.
type Event struct {
	Type           string      `json:"type"`
	RestaurantSlug string      `json:"restaurantSlug"`
	Data           interface{} `json:"data"`
	OccurredAt     time.Time   `json:"occurredAt"`
}

// Notifier receives floor events after the change is committed. Delivery is
// best effort and must never fail the request that caused it.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// MultiNotifier fans an event out to every notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, event Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, event)
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}

// HubNotifier forwards events to the dashboard websocket hub.
type HubNotifier struct {
	Hub *hub.FloorHub
}

func (h HubNotifier) Notify(_ context.Context, event Event) {
	if h.Hub == nil {
		return
	}
	h.Hub.Broadcast(event.RestaurantSlug, hub.Message{Event: event.Type, Data: event})
}

// LogNotifier writes events to the info log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, event Event) {
	fields := logrus.Fields{
		"event":      event.Type,
		"restaurant": event.RestaurantSlug,
	}
	if r, ok := event.Data.(*models.Reservation); ok && r != nil {
		fields["reservation_id"] = r.ID
		fields["table_id"] = r.TableID
		fields["status"] = r.Status
	}
	utils.InfoLogger.WithFields(fields).Info("floor event")
}

func reservationEvent(eventType, slug string, r *models.Reservation) Event {
	return Event{
		Type:           eventType,
		RestaurantSlug: slug,
		Data:           r,
		OccurredAt:     time.Now().UTC(),
	}
}
