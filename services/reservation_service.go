package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restoadmin/hub"
	"github.com/yeremiapane/restoadmin/metrics"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/scheduling"
	"github.com/yeremiapane/restoadmin/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateReservationInput is the operator's booking form. Date is optional
// "YYYY-MM-DD" and defaults to today; StartTime is "HH:MM".
type CreateReservationInput struct {
	TableID     uint   `json:"tableId" binding:"required"`
	Date        string `json:"date"`
	GuestName   string `json:"guestName" binding:"required"`
	GuestPhone  string `json:"guestPhone" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	PeopleCount int    `json:"peopleCount" binding:"required"`
	Comment     string `json:"comment"`
}

// ReservationDraft is a CreateReservationInput after format checks.
type ReservationDraft struct {
	TableID     uint
	Day         scheduling.Interval
	Start       time.Time
	GuestName   string
	GuestPhone  string
	PeopleCount int
	Comment     string
}

// ReservationService owns every write to reservations. Each create runs the
// conflict guard inside one transaction that locks the table row.
type ReservationService struct {
	DB       *gorm.DB
	Guard    scheduling.Guard
	Location *time.Location
	Timeout  time.Duration
	Notifier Notifier
	Now      func() time.Time
}

func NewReservationService(db *gorm.DB, settings scheduling.Settings, loc *time.Location, timeout time.Duration, notifier Notifier) *ReservationService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ReservationService{
		DB:       db,
		Guard:    scheduling.NewGuard(settings),
		Location: loc,
		Timeout:  timeout,
		Notifier: notifier,
		Now:      time.Now,
	}
}

// ValidateCreate checks the input without touching storage.
func (s *ReservationService) ValidateCreate(in CreateReservationInput) (ReservationDraft, error) {
	var v ReservationDraft
	if in.TableID == 0 {
		return v, &scheduling.ValidationError{Field: "tableId", Message: "table is required"}
	}
	name, err := scheduling.NormalizeGuestName(in.GuestName)
	if err != nil {
		return v, err
	}
	phone, err := scheduling.NormalizePhone(in.GuestPhone)
	if err != nil {
		return v, err
	}
	if err := scheduling.ValidatePartySize(in.PeopleCount, s.Guard.Settings); err != nil {
		return v, err
	}

	date := s.now()
	if strings.TrimSpace(in.Date) != "" {
		date, err = scheduling.ParseDate(in.Date, s.location())
		if err != nil {
			return v, err
		}
	}
	day := scheduling.DayWindow(date)
	start, err := scheduling.OnDate(day.Start, in.StartTime)
	if err != nil {
		return v, err
	}

	return ReservationDraft{
		TableID:     in.TableID,
		Day:         day,
		Start:       start,
		GuestName:   name,
		GuestPhone:  phone,
		PeopleCount: in.PeopleCount,
		Comment:     strings.TrimSpace(in.Comment),
	}, nil
}

// Create admits and stores a new confirmed reservation.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	v, err := s.ValidateCreate(in)
	if err != nil {
		metrics.IncReservationRejected(rejectReason(err))
		return nil, err
	}

	ctx, cancel := withStorageTimeout(ctx, s.Timeout)
	defer cancel()

	var reservation models.Reservation
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, v.TableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("table %d: %w", v.TableID, scheduling.ErrNotFound)
			}
			return fmt.Errorf("lock table: %w", err)
		}

		// anything that could overlap the candidate, including bookings
		// started the evening before
		search := scheduling.Interval{Start: v.Day.Start, End: v.Day.End.Add(s.Guard.Settings.BookingDuration)}
		if end := v.Start.Add(s.Guard.Settings.BookingDuration); end.After(search.End) {
			search.End = end
		}
		existing, err := activeReservations(tx, []uint{table.ID}, search)
		if err != nil {
			return err
		}

		slot, err := s.Guard.Admit(scheduling.Candidate{
			TableID:     table.ID,
			Start:       v.Start,
			PeopleCount: v.PeopleCount,
			GuestName:   v.GuestName,
			GuestPhone:  v.GuestPhone,
		}, table.Info(), models.Bookings(existing))
		if err != nil {
			return err
		}

		guest := models.Guest{}
		if err := tx.Where(models.Guest{Phone: v.GuestPhone}).
			Assign(models.Guest{Name: v.GuestName}).
			FirstOrCreate(&guest).Error; err != nil {
			return fmt.Errorf("upsert guest: %w", err)
		}

		reservation = models.Reservation{
			TableID:     table.ID,
			GuestID:     guest.ID,
			StartTime:   slot.Start.UTC(),
			EndTime:     slot.End.UTC(),
			PeopleCount: v.PeopleCount,
			Status:      scheduling.ReservationConfirmed,
			Comment:     v.Comment,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.IncReservationRejected(rejectReason(err))
		if rejectReason(err) == "error" {
			utils.ErrorLogger.Errorf("Error creating reservation for table %d: %v", v.TableID, err)
		}
		return nil, err
	}

	created, err := s.load(ctx, reservation.ID, false)
	if err != nil {
		return nil, err
	}
	metrics.IncReservationCreated()
	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": created.ID,
		"table_id":       created.TableID,
		"start":          created.StartTime.Format(time.RFC3339),
	}).Info("reservation created")
	s.notify(ctx, hub.EventReservationCreated, created)
	return created, nil
}

// UpdateStatus moves a reservation along its lifecycle. Setting the current
// status again is a no-op.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Reservation, error) {
	target, err := scheduling.ParseReservationStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, id, target, false)
}

// Cancel marks the reservation cancelled and soft-deletes it.
func (s *ReservationService) Cancel(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, scheduling.ReservationCancelled, true)
}

func (s *ReservationService) transition(ctx context.Context, id uint, target scheduling.ReservationStatus, remove bool) (*models.Reservation, error) {
	ctx, cancel := withStorageTimeout(ctx, s.Timeout)
	defer cancel()

	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation %d: %w", id, scheduling.ErrNotFound)
			}
			return fmt.Errorf("load reservation: %w", err)
		}
		if err := scheduling.CheckTransition(r.Status, target); err != nil {
			return err
		}
		if r.Status != target {
			if err := tx.Model(&r).Update("status", target).Error; err != nil {
				return fmt.Errorf("update reservation status: %w", err)
			}
			changed = true
		}
		if remove {
			if err := tx.Delete(&r).Error; err != nil {
				return fmt.Errorf("delete reservation: %w", err)
			}
			changed = true
		}
		return nil
	})
	if err != nil {
		if !scheduling.IsValidation(err) && !errors.Is(err, scheduling.ErrNotFound) {
			utils.ErrorLogger.Errorf("Error updating reservation %d: %v", id, err)
		}
		return nil, err
	}

	updated, err := s.load(ctx, id, remove)
	if err != nil {
		return nil, err
	}
	if changed {
		metrics.IncStatusChanged(string(target))
		s.notify(ctx, hub.EventReservationStatusChanged, updated)
	}
	return updated, nil
}

// ListForDay returns the non-deleted reservations starting on date, oldest
// first, with guest and table attached.
func (s *ReservationService) ListForDay(ctx context.Context, restaurantSlug string, date *time.Time) ([]models.Reservation, error) {
	d := s.now()
	if date != nil {
		d = date.In(s.location())
	}
	day := scheduling.DayWindow(d)

	ctx, cancel := withStorageTimeout(ctx, s.Timeout)
	defer cancel()
	db := s.DB.WithContext(ctx)

	query := db.Model(&models.Reservation{}).
		Preload("Guest").
		Preload("Table").
		Where("reservations.start_time >= ? AND reservations.start_time < ?", day.Start.UTC(), day.End.UTC())

	if restaurantSlug != "" {
		var restaurant models.Restaurant
		if err := db.Where("slug = ?", restaurantSlug).First(&restaurant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("restaurant %q: %w", restaurantSlug, scheduling.ErrNotFound)
			}
			return nil, fmt.Errorf("load restaurant: %w", err)
		}
		query = query.
			Joins("JOIN tables ON tables.id = reservations.table_id").
			Joins("JOIN zones ON zones.id = tables.zone_id").
			Where("zones.restaurant_id = ?", restaurant.ID)
	}

	var out []models.Reservation
	if err := query.Order("reservations.start_time asc, reservations.id asc").Find(&out).Error; err != nil {
		utils.ErrorLogger.Errorf("Error listing reservations: %v", err)
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	for i := range out {
		localize(&out[i], s.location())
	}
	return out, nil
}

func (s *ReservationService) load(ctx context.Context, id uint, withDeleted bool) (*models.Reservation, error) {
	db := s.DB.WithContext(ctx)
	if withDeleted {
		db = db.Unscoped()
	}
	var r models.Reservation
	if err := db.Preload("Guest").Preload("Table").First(&r, id).Error; err != nil {
		return nil, fmt.Errorf("reload reservation %d: %w", id, err)
	}
	localize(&r, s.location())
	return &r, nil
}

func (s *ReservationService) notify(ctx context.Context, eventType string, r *models.Reservation) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(ctx, reservationEvent(eventType, s.restaurantSlug(ctx, r.TableID), r))
}

// restaurantSlug resolves the restaurant of a table for event routing. Deleted
// tables still route to their restaurant.
func (s *ReservationService) restaurantSlug(ctx context.Context, tableID uint) string {
	var slug string
	err := s.DB.WithContext(ctx).Unscoped().
		Table("tables").
		Select("restaurants.slug").
		Joins("JOIN zones ON zones.id = tables.zone_id").
		Joins("JOIN restaurants ON restaurants.id = zones.restaurant_id").
		Where("tables.id = ?", tableID).
		Limit(1).
		Scan(&slug).Error
	if err != nil {
		utils.ErrorLogger.Errorf("Error resolving restaurant of table %d: %v", tableID, err)
	}
	return slug
}

func (s *ReservationService) now() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().In(s.location())
}

func (s *ReservationService) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

// rejectReason labels a create failure for metrics.
func rejectReason(err error) string {
	switch {
	case scheduling.IsValidation(err):
		return "validation"
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		return "conflict"
	case errors.Is(err, scheduling.ErrPartyTooLarge):
		return "capacity"
	case errors.Is(err, scheduling.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
