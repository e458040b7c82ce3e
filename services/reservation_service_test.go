package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restoadmin/hub"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/scheduling"
)

func newReservationService(t *testing.T) (*ReservationService, floorFixture, *recordingNotifier) {
	db := setupTestDB(t)
	f := seedFloor(t, db)
	rec := &recordingNotifier{}
	svc := NewReservationService(db, scheduling.DefaultSettings(), time.UTC, 5*time.Second, rec)
	svc.Now = clock
	return svc, f, rec
}

func createInput(tableID uint, start string, people int) CreateReservationInput {
	return CreateReservationInput{
		TableID:     tableID,
		Date:        "2025-03-14",
		GuestName:   "Anna Petrova",
		GuestPhone:  "+7 (999) 123-45-67",
		StartTime:   start,
		PeopleCount: people,
	}
}

func TestCreateReservation(t *testing.T) {
	svc, f, rec := newReservationService(t)

	r, err := svc.Create(context.Background(), createInput(f.tables[1].ID, "18:00", 3))
	require.NoError(t, err)
	assert.Equal(t, scheduling.ReservationConfirmed, r.Status)
	assert.True(t, r.StartTime.Equal(at(18, 0)))
	assert.True(t, r.EndTime.Equal(at(20, 0)))
	require.NotNil(t, r.Guest)
	assert.Equal(t, "79991234567", r.Guest.Phone)
	require.NotNil(t, r.Table)
	assert.Equal(t, "T2", r.Table.Name)

	assert.Equal(t, []string{hub.EventReservationCreated}, rec.types())
	assert.Equal(t, "main-restaurant", rec.events[0].RestaurantSlug)
}

func TestCreateReservationConflict(t *testing.T) {
	svc, f, _ := newReservationService(t)
	table := f.tables[1].ID

	_, err := svc.Create(context.Background(), createInput(table, "19:00", 2))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), createInput(table, "18:00", 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, scheduling.ErrSlotUnavailable)
	assert.Contains(t, err.Error(), "19:00 to 21:00")

	// touching boundaries are fine
	_, err = svc.Create(context.Background(), createInput(table, "17:00", 2))
	assert.NoError(t, err)
	_, err = svc.Create(context.Background(), createInput(table, "21:00", 2))
	assert.NoError(t, err)

	// another table is unaffected
	_, err = svc.Create(context.Background(), createInput(f.tables[2].ID, "18:00", 2))
	assert.NoError(t, err)
}

func TestCancelledReservationDoesNotBlock(t *testing.T) {
	svc, f, _ := newReservationService(t)
	table := f.tables[1].ID
	seedReservation(t, svc.DB, table, at(19, 0), scheduling.ReservationCancelled)
	seedReservation(t, svc.DB, table, at(12, 0), scheduling.ReservationFinished)

	_, err := svc.Create(context.Background(), createInput(table, "18:00", 2))
	assert.NoError(t, err)
	_, err = svc.Create(context.Background(), createInput(table, "12:30", 2))
	assert.NoError(t, err)
}

func TestCreateReservationBlockedByPreviousEvening(t *testing.T) {
	svc, f, _ := newReservationService(t)
	table := f.tables[1].ID
	seedReservation(t, svc.DB, table, time.Date(2025, 3, 13, 23, 30, 0, 0, time.UTC), scheduling.ReservationSeated)

	in := createInput(table, "12:00", 2)
	_, err := svc.Create(context.Background(), in)
	assert.NoError(t, err, "previous booking ends at 01:30")

	in.Date = "2025-03-13"
	in.StartTime = "22:00"
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, scheduling.ErrSlotUnavailable)
}

func TestCreateReservationRejections(t *testing.T) {
	svc, f, rec := newReservationService(t)

	_, err := svc.Create(context.Background(), createInput(f.tables[0].ID, "18:00", 3))
	assert.ErrorIs(t, err, scheduling.ErrPartyTooLarge)

	_, err = svc.Create(context.Background(), createInput(9999, "18:00", 2))
	assert.ErrorIs(t, err, scheduling.ErrNotFound)

	bad := createInput(f.tables[1].ID, "18:00", 2)
	bad.GuestPhone = "123"
	_, err = svc.Create(context.Background(), bad)
	assert.True(t, scheduling.IsValidation(err))

	bad = createInput(f.tables[1].ID, "25:00", 2)
	_, err = svc.Create(context.Background(), bad)
	assert.True(t, scheduling.IsValidation(err))

	bad = createInput(f.tables[1].ID, "09:00", 2)
	_, err = svc.Create(context.Background(), bad)
	assert.True(t, scheduling.IsValidation(err))

	bad = createInput(f.tables[1].ID, "18:00", 2)
	bad.Date = "14/03/2025"
	_, err = svc.Create(context.Background(), bad)
	assert.True(t, scheduling.IsValidation(err))

	var count int64
	svc.DB.Model(&models.Reservation{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, rec.types())
}

func TestCreateReservationDefaultsToToday(t *testing.T) {
	svc, f, _ := newReservationService(t)
	in := createInput(f.tables[1].ID, "20:00", 2)
	in.Date = ""

	r, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.StartTime.Equal(at(20, 0)))
}

func TestGuestUpsertByPhone(t *testing.T) {
	svc, f, _ := newReservationService(t)

	first, err := svc.Create(context.Background(), createInput(f.tables[1].ID, "12:00", 2))
	require.NoError(t, err)

	in := createInput(f.tables[2].ID, "12:00", 2)
	in.GuestName = "Anna Smirnova"
	in.GuestPhone = "8 999 123 45 67"
	second, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.GuestID, second.GuestID)
	var guest models.Guest
	require.NoError(t, svc.DB.First(&guest, first.GuestID).Error)
	assert.Equal(t, "Anna Smirnova", guest.Name)

	var guests int64
	svc.DB.Model(&models.Guest{}).Count(&guests)
	assert.Equal(t, int64(1), guests)
}

func TestUpdateStatus(t *testing.T) {
	svc, f, rec := newReservationService(t)
	r, err := svc.Create(context.Background(), createInput(f.tables[1].ID, "18:00", 2))
	require.NoError(t, err)

	seated, err := svc.UpdateStatus(context.Background(), r.ID, "seated")
	require.NoError(t, err)
	assert.Equal(t, scheduling.ReservationSeated, seated.Status)
	require.NotNil(t, seated.Guest)

	// same status is a no-op without a new event
	_, err = svc.UpdateStatus(context.Background(), r.ID, "seated")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), r.ID, "confirmed")
	assert.ErrorIs(t, err, scheduling.ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), r.ID, "lost")
	assert.ErrorIs(t, err, scheduling.ErrValidation)

	_, err = svc.UpdateStatus(context.Background(), 4242, "seated")
	assert.ErrorIs(t, err, scheduling.ErrNotFound)

	finished, err := svc.UpdateStatus(context.Background(), r.ID, "finished")
	require.NoError(t, err)
	assert.Equal(t, scheduling.ReservationFinished, finished.Status)

	assert.Equal(t, []string{
		hub.EventReservationCreated,
		hub.EventReservationStatusChanged,
		hub.EventReservationStatusChanged,
	}, rec.types())

	// finished frees the slot
	_, err = svc.Create(context.Background(), createInput(f.tables[1].ID, "18:00", 2))
	assert.NoError(t, err)
}

func TestCancelSoftDeletes(t *testing.T) {
	svc, f, _ := newReservationService(t)
	r, err := svc.Create(context.Background(), createInput(f.tables[1].ID, "18:00", 2))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduling.ReservationCancelled, cancelled.Status)

	err = svc.DB.First(&models.Reservation{}, r.ID).Error
	assert.Error(t, err, "cancelled reservation is hidden by the default scope")

	_, err = svc.Cancel(context.Background(), r.ID)
	assert.ErrorIs(t, err, scheduling.ErrNotFound)

	_, err = svc.Create(context.Background(), createInput(f.tables[1].ID, "18:00", 2))
	assert.NoError(t, err)
}

func TestListForDay(t *testing.T) {
	svc, f, _ := newReservationService(t)
	_, err := svc.Create(context.Background(), createInput(f.tables[1].ID, "20:00", 2))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), createInput(f.tables[3].ID, "13:00", 5))
	require.NoError(t, err)
	other := createInput(f.tables[1].ID, "13:00", 2)
	other.Date = "2025-03-15"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	day := at(0, 0)
	list, err := svc.ListForDay(context.Background(), "main-restaurant", &day)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].StartTime.Equal(at(13, 0)))
	assert.Equal(t, "T4", list[0].Table.Name)
	assert.NotNil(t, list[1].Guest)

	all, err := svc.ListForDay(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2, "nil date means today")

	_, err = svc.ListForDay(context.Background(), "nowhere", &day)
	assert.ErrorIs(t, err, scheduling.ErrNotFound)
}

func TestNoOverlapAfterManyWrites(t *testing.T) {
	svc, f, _ := newReservationService(t)
	starts := []string{"12:00", "12:30", "13:00", "14:00", "15:30", "16:00", "17:30", "18:00", "19:00", "20:00", "21:30", "22:00"}
	for i, st := range starts {
		table := f.tables[1+i%3].ID
		_, _ = svc.Create(context.Background(), createInput(table, st, 2))
	}

	var rs []models.Reservation
	require.NoError(t, svc.DB.Where("status IN ?", activeStatuses).Find(&rs).Error)
	for i := range rs {
		for j := i + 1; j < len(rs); j++ {
			if rs[i].TableID != rs[j].TableID {
				continue
			}
			assert.False(t, scheduling.Overlaps(rs[i].Booking().Interval(), rs[j].Booking().Interval()),
				"reservations %d and %d overlap", rs[i].ID, rs[j].ID)
		}
	}
}

func TestConcurrentCreatesAdmitOne(t *testing.T) {
	svc, f, _ := newReservationService(t)
	table := f.tables[1].ID

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), createInput(table, "18:00", 2))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, scheduling.ErrSlotUnavailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicts)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Reservation{}).Where("table_id = ?", table).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
