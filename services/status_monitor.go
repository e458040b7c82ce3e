package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/scheduling"
	"github.com/yeremiapane/restoadmin/utils"
)

// EventFloorStatus carries the tables whose status changed with the passage
// of time alone (a booking started, ended or came within the look-ahead).
const EventFloorStatus = "floor.status"

// TableStatusChange is one entry of a floor.status event.
type TableStatusChange struct {
	TableID uint                   `json:"tableId"`
	From    scheduling.TableStatus `json:"from"`
	To      scheduling.TableStatus `json:"to"`
}

// StatusMonitor periodically recomputes today's floor of every restaurant and
// notifies dashboards about status changes.
type StatusMonitor struct {
	Availability *AvailabilityService
	Notifier     Notifier
	Interval     time.Duration
	StopChan     chan struct{}

	mu   sync.Mutex
	last map[uint]scheduling.TableStatus
	once sync.Once
}

func NewStatusMonitor(availability *AvailabilityService, notifier Notifier) *StatusMonitor {
	return &StatusMonitor{
		Availability: availability,
		Notifier:     notifier,
		Interval:     time.Minute,
		StopChan:     make(chan struct{}),
		last:         make(map[uint]scheduling.TableStatus),
	}
}

func (m *StatusMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Check(context.Background())
			case <-m.StopChan:
				return
			}
		}
	}()
}

func (m *StatusMonitor) Stop() {
	m.once.Do(func() { close(m.StopChan) })
}

// Check runs one pass and returns the changes it announced, per restaurant.
// The first pass only records the baseline. Tables that no longer appear are
// forgotten after a pass in which every restaurant was computed.
func (m *StatusMonitor) Check(ctx context.Context) map[string][]TableStatusChange {
	var restaurants []models.Restaurant
	if err := m.loadRestaurants(ctx, &restaurants); err != nil {
		utils.ErrorLogger.Errorf("Error loading restaurants for status monitor: %v", err)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	announced := make(map[string][]TableStatusChange)
	seen := make(map[uint]struct{}, len(m.last))
	complete := true
	for _, r := range restaurants {
		snap, err := m.Availability.Snapshot(ctx, AvailabilityQuery{RestaurantSlug: r.Slug})
		if err != nil {
			utils.ErrorLogger.Errorf("Error computing floor of %s: %v", r.Slug, err)
			complete = false
			continue
		}
		if snap.Partial {
			complete = false
		}

		var changes []TableStatusChange
		for _, z := range snap.Zones {
			for _, t := range z.Tables {
				seen[t.ID] = struct{}{}
				prev, known := m.last[t.ID]
				m.last[t.ID] = t.Status
				if known && prev != t.Status {
					changes = append(changes, TableStatusChange{TableID: t.ID, From: prev, To: t.Status})
				}
			}
		}
		if len(changes) == 0 {
			continue
		}
		announced[r.Slug] = changes
		if m.Notifier != nil {
			m.Notifier.Notify(ctx, Event{
				Type:           EventFloorStatus,
				RestaurantSlug: r.Slug,
				Data:           changes,
				OccurredAt:     time.Now().UTC(),
			})
		}
	}
	if complete {
		for id := range m.last {
			if _, ok := seen[id]; !ok {
				delete(m.last, id)
			}
		}
	}
	return announced
}

func (m *StatusMonitor) loadRestaurants(ctx context.Context, out *[]models.Restaurant) error {
	ctx, cancel := withStorageTimeout(ctx, m.Availability.Timeout)
	defer cancel()
	return m.Availability.DB.WithContext(ctx).Find(out).Error
}
