package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	"github.com/staybook/service-booking/internal/platform/database"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Reference          string     `gorm:"uniqueIndex;not null;size:20"`
	UserID             uuid.UUID  `gorm:"type:uuid;index;not null"`
	HotelID            uuid.UUID  `gorm:"type:uuid;index;not null"`
	RoomTypeID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_bookings_room_dates,priority:1"`
	Status             string     `gorm:"not null;size:20;index"`
	CheckInDate        time.Time  `gorm:"type:date;not null;index:idx_bookings_room_dates,priority:2"`
	CheckOutDate       time.Time  `gorm:"type:date;not null;index:idx_bookings_room_dates,priority:3"`
	Adults             int        `gorm:"not null"`
	Children           int        `gorm:"not null;default:0"`
	Rooms              int        `gorm:"not null"`
	Reviewed           bool       `gorm:"not null;default:false"`
	PricePerNightCents int64      `gorm:"not null"`
	TotalPriceCents    int64      `gorm:"not null"`
	Currency           string     `gorm:"not null;size:3;default:'INR'"`
	ConfirmedAt        *time.Time `gorm:""`
	CancelledAt        *time.Time `gorm:""`
	CompletedAt        *time.Time `gorm:""`
	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancelNote         string     `gorm:"size:500"`
	Version            int64      `gorm:"not null;default:1"`
	CreatedAt          time.Time  `gorm:"not null"`
	UpdatedAt          time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByReference retrieves a booking by its reference.
func (r *GormBookingRepository) FindByReference(ctx context.Context, reference string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", reference)
		}
		return nil, fmt.Errorf("failed to find booking by reference: %w", err)
	}
	return toDomainBooking(&model)
}

// List retrieves bookings matching filter, newest first.
func (r *GormBookingRepository) List(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&BookingModel{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.HotelIDs != nil {
		if len(filter.HotelIDs) == 0 {
			return []*bookingDomain.Booking{}, 0, nil
		}
		q = q.Where("hotel_id IN ?", filter.HotelIDs)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := q.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// FindDueForCompletion returns confirmed bookings whose check-out is before today.
func (r *GormBookingRepository) FindDueForCompletion(ctx context.Context, today time.Time, limit int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND check_out_date < ?", string(bookingDomain.StatusConfirmed), today).
		Order("check_out_date ASC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings due for completion: %w", err)
	}
	return toDomainBookings(models)
}

// Reservations lists the inventory held by non-cancelled bookings of a room
// type that overlap stay.
func (r *GormBookingRepository) Reservations(ctx context.Context, roomTypeID uuid.UUID, stay bookingDomain.Stay, exclude uuid.UUID) ([]bookingDomain.Reservation, error) {
	return reservations(r.db.WithContext(ctx), roomTypeID, stay, exclude)
}

func reservations(tx *gorm.DB, roomTypeID uuid.UUID, stay bookingDomain.Stay, exclude uuid.UUID) ([]bookingDomain.Reservation, error) {
	type row struct {
		CheckInDate  time.Time
		CheckOutDate time.Time
		Rooms        int
	}
	q := tx.Model(&BookingModel{}).
		Select("check_in_date, check_out_date, rooms").
		Where("room_type_id = ? AND status <> ?", roomTypeID, string(bookingDomain.StatusCancelled)).
		Where("check_in_date < ? AND check_out_date > ?", stay.CheckOut, stay.CheckIn)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}

	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}

	out := make([]bookingDomain.Reservation, len(rows))
	for i, rw := range rows {
		out[i] = bookingDomain.Reservation{
			Stay:  bookingDomain.Stay{CheckIn: bookingDomain.Today(rw.CheckInDate), CheckOut: bookingDomain.Today(rw.CheckOutDate)},
			Rooms: rw.Rooms,
		}
	}
	return out, nil
}

// SaveWithinInventory inserts bk while holding a row lock on its room type, so
// concurrent bookings of the same room type are serialized.
func (r *GormBookingRepository) SaveWithinInventory(ctx context.Context, bk *bookingDomain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureInventory(tx, bk); err != nil {
			return err
		}
		if err := tx.Create(toBookingModel(bk)).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
	return translateTxError(err)
}

// UpdateWithinInventory applies an amendment under the same lock, with
// optimistic locking on the booking row.
func (r *GormBookingRepository) UpdateWithinInventory(ctx context.Context, bk *bookingDomain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureInventory(tx, bk); err != nil {
			return err
		}
		return updateBooking(tx, bk)
	})
	return translateTxError(err)
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return updateBooking(r.db.WithContext(ctx), bk)
}

func ensureInventory(tx *gorm.DB, bk *bookingDomain.Booking) error {
	var rt RoomTypeModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", bk.RoomTypeID()).
		First(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFoundError("RoomType", bk.RoomTypeID().String())
		}
		return fmt.Errorf("failed to lock room type: %w", err)
	}

	held, err := reservations(tx, bk.RoomTypeID(), bk.Stay(), bk.ID())
	if err != nil {
		return err
	}
	remaining := bookingDomain.RemainingRooms(rt.TotalRooms, bk.Stay(), held)
	if remaining < bk.Guests().Rooms {
		return domain.NewError(domain.KindUnavailable, "only %d room(s) of %s left for these dates", remaining, rt.Name)
	}
	return nil
}

func updateBooking(tx *gorm.DB, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Optimistic locking: only update if the version matches (current version - 1 since IncrementVersion was called)
	expectedVersion := bk.Version() - 1
	result := tx.
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":                model.Status,
			"check_in_date":         model.CheckInDate,
			"check_out_date":        model.CheckOutDate,
			"adults":                model.Adults,
			"children":              model.Children,
			"rooms":                 model.Rooms,
			"price_per_night_cents": model.PricePerNightCents,
			"total_price_cents":     model.TotalPriceCents,
			"confirmed_at":          model.ConfirmedAt,
			"cancelled_at":          model.CancelledAt,
			"completed_at":          model.CompletedAt,
			"cancelled_by":          model.CancelledBy,
			"cancel_note":           model.CancelNote,
			"version":               model.Version,
			"updated_at":            model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

func translateTxError(err error) error {
	if err != nil && database.IsRetryable(err) {
		return domain.NewConflictError("concurrent booking of the same rooms, try again")
	}
	return err
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(r.db.WithContext(ctx).Model(&BookingModel{}))
}

// StatsForHotels aggregates bookings of the given hotels. Revenue excludes
// cancelled bookings.
func (r *GormBookingRepository) StatsForHotels(ctx context.Context, hotelIDs []uuid.UUID) (*bookingDomain.OwnerStats, error) {
	stats := &bookingDomain.OwnerStats{ByStatus: map[string]int64{}}
	if len(hotelIDs) == 0 {
		return stats, nil
	}

	counts, err := countByStatus(r.db.WithContext(ctx).Model(&BookingModel{}).Where("hotel_id IN ?", hotelIDs))
	if err != nil {
		return nil, err
	}
	stats.ByStatus = counts

	var revenue struct{ Total int64 }
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("COALESCE(SUM(total_price_cents), 0) AS total").
		Where("hotel_id IN ? AND status <> ?", hotelIDs, string(bookingDomain.StatusCancelled)).
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.RevenueCents = revenue.Total
	return stats, nil
}

func countByStatus(q *gorm.DB) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := q.Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	stay, guests := bk.Stay(), bk.Guests()
	return &BookingModel{
		ID:                 bk.ID(),
		Reference:          bk.Reference(),
		UserID:             bk.UserID(),
		HotelID:            bk.HotelID(),
		RoomTypeID:         bk.RoomTypeID(),
		Status:             string(bk.Status()),
		CheckInDate:        stay.CheckIn,
		CheckOutDate:       stay.CheckOut,
		Adults:             guests.Adults,
		Children:           guests.Children,
		Rooms:              guests.Rooms,
		Reviewed:           bk.Reviewed(),
		PricePerNightCents: bk.PricePerNightCents(),
		TotalPriceCents:    bk.TotalPriceCents(),
		Currency:           bk.Currency(),
		ConfirmedAt:        bk.ConfirmedAt(),
		CancelledAt:        bk.CancelledAt(),
		CompletedAt:        bk.CompletedAt(),
		CancelledBy:        bk.CancelledBy(),
		CancelNote:         bk.CancelNote(),
		Version:            bk.Version(),
		CreatedAt:          bk.CreatedAt(),
		UpdatedAt:          bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.Reference,
		m.UserID,
		m.HotelID,
		m.RoomTypeID,
		status,
		bookingDomain.Stay{CheckIn: bookingDomain.Today(m.CheckInDate), CheckOut: bookingDomain.Today(m.CheckOutDate)},
		bookingDomain.Guests{Adults: m.Adults, Children: m.Children, Rooms: m.Rooms},
		m.Reviewed,
		m.PricePerNightCents,
		m.TotalPriceCents,
		m.Currency,
		m.ConfirmedAt,
		m.CancelledAt,
		m.CompletedAt,
		m.CancelledBy,
		m.CancelNote,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
