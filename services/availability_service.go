package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restoadmin/metrics"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/scheduling"
	"github.com/yeremiapane/restoadmin/utils"
	"gorm.io/gorm"
)

var activeStatuses = []scheduling.ReservationStatus{scheduling.ReservationConfirmed, scheduling.ReservationSeated}

// AvailabilityQuery selects the floor view. An empty RestaurantSlug covers
// every restaurant; a nil Date means today; an empty ViewTime means now.
type AvailabilityQuery struct {
	RestaurantSlug string
	Date           *time.Time
	ViewTime       string
}

// TableWithStatus is a table with its status at the reference time and the
// reservation it is waiting for or serving, if any.
type TableWithStatus struct {
	models.Table
	Status         scheduling.TableStatus `json:"status"`
	NearestBooking *models.Reservation    `json:"nearestBooking,omitempty"`
}

type ZoneWithTables struct {
	models.Zone
	Tables []TableWithStatus `json:"tables"`
}

// FloorSnapshot is everything the dashboard renders for one day.
type FloorSnapshot struct {
	Date          string                  `json:"date"`
	ReferenceTime time.Time               `json:"referenceTime"`
	Zones         []ZoneWithTables        `json:"zones"`
	Load          []scheduling.HourlyLoad `json:"load"`
	Stats         scheduling.TableStats   `json:"stats"`
	Partial       bool                    `json:"partial"`
}

// zoneFloor is what one zone contributes to a snapshot.
type zoneFloor struct {
	tables       []models.Table
	reservations []models.Reservation
}

type AvailabilityService struct {
	DB       *gorm.DB
	Settings scheduling.Settings
	Location *time.Location
	Timeout  time.Duration
	Now      func() time.Time

	loadZone func(ctx context.Context, zone models.Zone, day scheduling.Interval) (zoneFloor, error)
}

func NewAvailabilityService(db *gorm.DB, settings scheduling.Settings, loc *time.Location, timeout time.Duration) *AvailabilityService {
	s := &AvailabilityService{
		DB:       db,
		Settings: settings,
		Location: loc,
		Timeout:  timeout,
		Now:      time.Now,
	}
	s.loadZone = s.loadZoneFloor
	return s
}

// Snapshot builds the floor view for q. Statuses use the reference time; the
// reservations and the load heatmap always cover the whole target day.
func (s *AvailabilityService) Snapshot(ctx context.Context, q AvailabilityQuery) (*FloorSnapshot, error) {
	day, ref, err := s.window(q)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withStorageTimeout(ctx, s.Timeout)
	defer cancel()

	zones, err := s.zones(ctx, q.RestaurantSlug)
	if err != nil {
		return nil, err
	}

	snap := &FloorSnapshot{
		Date:          scheduling.FormatDate(day.Start),
		ReferenceTime: ref,
		Zones:         make([]ZoneWithTables, 0, len(zones)),
	}

	var (
		allBookings []scheduling.Booking
		statuses    []scheduling.TableStatus
		totalTables int
	)
	for _, zone := range zones {
		floor, err := s.loadZone(ctx, zone, day)
		if err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"zone_id":    zone.ID,
				"zone":       zone.Name,
				"restaurant": q.RestaurantSlug,
			}).Warnf("zone skipped in floor snapshot: %v", err)
			snap.Partial = true
			snap.Zones = append(snap.Zones, ZoneWithTables{Zone: zone, Tables: []TableWithStatus{}})
			continue
		}

		byTable := make(map[uint][]scheduling.Booking)
		byID := make(map[uint]*models.Reservation, len(floor.reservations))
		for i := range floor.reservations {
			r := &floor.reservations[i]
			localize(r, s.location())
			b := r.Booking()
			byTable[r.TableID] = append(byTable[r.TableID], b)
			byID[r.ID] = r
			allBookings = append(allBookings, b)
		}

		tables := make([]TableWithStatus, 0, len(floor.tables))
		for _, t := range floor.tables {
			bookings := byTable[t.ID]
			status := scheduling.ResolveStatus(ref, bookings, s.Settings)
			tws := TableWithStatus{Table: t, Status: status}
			if nearest := scheduling.NearestBooking(ref, bookings); nearest != nil {
				tws.NearestBooking = byID[nearest.ID]
			}
			tables = append(tables, tws)
			statuses = append(statuses, status)
		}
		totalTables += len(floor.tables)
		snap.Zones = append(snap.Zones, ZoneWithTables{Zone: zone, Tables: tables})
	}

	snap.Load = scheduling.AggregateLoad(day.Start, totalTables, allBookings, s.Settings)
	snap.Stats = scheduling.CountStatuses(statuses)
	if snap.Partial {
		metrics.IncSnapshotDegraded()
	}
	return snap, nil
}

// HourlyLoad returns only the heatmap segments of the snapshot.
func (s *AvailabilityService) HourlyLoad(ctx context.Context, q AvailabilityQuery) ([]scheduling.HourlyLoad, error) {
	snap, err := s.Snapshot(ctx, q)
	if err != nil {
		return nil, err
	}
	return snap.Load, nil
}

// Slots lists the bookable start times of a table on date with availability.
func (s *AvailabilityService) Slots(ctx context.Context, tableID uint, date *time.Time) ([]scheduling.SlotAvailability, error) {
	day, _, err := s.window(AvailabilityQuery{Date: date})
	if err != nil {
		return nil, err
	}

	ctx, cancel := withStorageTimeout(ctx, s.Timeout)
	defer cancel()
	db := s.DB.WithContext(ctx)

	var table models.Table
	if err := db.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("table %d: %w", tableID, scheduling.ErrNotFound)
		}
		return nil, fmt.Errorf("load table: %w", err)
	}

	guard := scheduling.NewGuard(s.Settings)
	// bookings from the previous evening may still run into this day
	search := scheduling.Interval{Start: day.Start, End: day.End.Add(guard.Settings.BookingDuration)}
	reservations, err := activeReservations(db, []uint{tableID}, search)
	if err != nil {
		return nil, err
	}
	return guard.AvailableSlots(day.Start, tableID, models.Bookings(reservations), s.now()), nil
}

func (s *AvailabilityService) window(q AvailabilityQuery) (scheduling.Interval, time.Time, error) {
	now := s.now()
	date := now
	if q.Date != nil {
		date = q.Date.In(s.location())
	}
	day := scheduling.DayWindow(date)
	ref, err := scheduling.ReferenceTime(day.Start, q.ViewTime, now)
	if err != nil {
		return scheduling.Interval{}, time.Time{}, err
	}
	return day, ref, nil
}

func (s *AvailabilityService) zones(ctx context.Context, slug string) ([]models.Zone, error) {
	db := s.DB.WithContext(ctx)
	query := db.Order("zones.created_at asc, zones.id asc")
	if slug != "" {
		var restaurant models.Restaurant
		if err := db.Where("slug = ?", slug).First(&restaurant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("restaurant %q: %w", slug, scheduling.ErrNotFound)
			}
			return nil, fmt.Errorf("load restaurant: %w", err)
		}
		query = query.Where("restaurant_id = ?", restaurant.ID)
	}

	var zones []models.Zone
	if err := query.Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	return zones, nil
}

func (s *AvailabilityService) loadZoneFloor(ctx context.Context, zone models.Zone, day scheduling.Interval) (zoneFloor, error) {
	db := s.DB.WithContext(ctx)

	var floor zoneFloor
	if err := db.Where("zone_id = ?", zone.ID).Order("name asc, id asc").Find(&floor.tables).Error; err != nil {
		return zoneFloor{}, fmt.Errorf("load tables: %w", err)
	}
	if len(floor.tables) == 0 {
		return floor, nil
	}

	ids := make([]uint, 0, len(floor.tables))
	for _, t := range floor.tables {
		ids = append(ids, t.ID)
	}

	var err error
	floor.reservations, err = reservationsStartingIn(db.Preload("Guest"), ids, day)
	if err != nil {
		return zoneFloor{}, err
	}
	return floor, nil
}

func (s *AvailabilityService) now() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().In(s.location())
}

// Today is the current instant in the service location.
func (s *AvailabilityService) Today() time.Time {
	return s.now()
}

func (s *AvailabilityService) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

// reservationsStartingIn returns the active reservations of tables that start
// inside day, ordered by start.
func reservationsStartingIn(db *gorm.DB, tableIDs []uint, day scheduling.Interval) ([]models.Reservation, error) {
	var out []models.Reservation
	err := db.
		Where("table_id IN ?", tableIDs).
		Where("status IN ?", activeStatuses).
		Where("start_time >= ? AND start_time < ?", day.Start.UTC(), day.End.UTC()).
		Order("start_time asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	return out, nil
}

// activeReservations returns the active reservations of tables that overlap
// span.
func activeReservations(db *gorm.DB, tableIDs []uint, span scheduling.Interval) ([]models.Reservation, error) {
	var out []models.Reservation
	err := db.
		Where("table_id IN ?", tableIDs).
		Where("status IN ?", activeStatuses).
		Where("start_time < ? AND end_time > ?", span.End.UTC(), span.Start.UTC()).
		Order("start_time asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	return out, nil
}

func localize(r *models.Reservation, loc *time.Location) {
	r.StartTime = r.StartTime.In(loc)
	r.EndTime = r.EndTime.In(loc)
}

func withStorageTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
