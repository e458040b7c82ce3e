package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/scheduling"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedNow is 2025-03-14 17:00 UTC.
var fixedNow = time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type floorFixture struct {
	restaurant models.Restaurant
	hall       models.Zone
	terrace    models.Zone
	tables     []models.Table // T1(2) T2(4) T3(4) in hall, T4(6) on terrace
}

func seedFloor(t *testing.T, db *gorm.DB) floorFixture {
	t.Helper()
	f := floorFixture{restaurant: models.Restaurant{Name: "Demo", Slug: "main-restaurant"}}
	require.NoError(t, db.Create(&f.restaurant).Error)

	f.hall = models.Zone{RestaurantID: f.restaurant.ID, Name: "Main hall"}
	require.NoError(t, db.Create(&f.hall).Error)
	f.terrace = models.Zone{RestaurantID: f.restaurant.ID, Name: "Terrace"}
	require.NoError(t, db.Create(&f.terrace).Error)

	f.tables = []models.Table{
		{ZoneID: f.hall.ID, Name: "T1", Capacity: 2},
		{ZoneID: f.hall.ID, Name: "T2", Capacity: 4},
		{ZoneID: f.hall.ID, Name: "T3", Capacity: 4},
		{ZoneID: f.terrace.ID, Name: "T4", Capacity: 6},
	}
	for i := range f.tables {
		require.NoError(t, db.Create(&f.tables[i]).Error)
	}
	return f
}

var seededGuests int64

func seedReservation(t *testing.T, db *gorm.DB, tableID uint, start time.Time, status scheduling.ReservationStatus) models.Reservation {
	t.Helper()
	guest := models.Guest{Phone: fmt.Sprintf("7900%07d", atomic.AddInt64(&seededGuests, 1)), Name: "Seeded"}
	require.NoError(t, db.Create(&guest).Error)
	r := models.Reservation{
		TableID:     tableID,
		GuestID:     guest.ID,
		StartTime:   start.UTC(),
		EndTime:     start.Add(2 * time.Hour).UTC(),
		PeopleCount: 2,
		Status:      status,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 14, hour, minute, 0, 0, time.UTC)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingNotifier) Notify(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
