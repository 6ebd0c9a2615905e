package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows a booking listing.
type ListFilter struct {
	UserID   *uuid.UUID
	HotelIDs []uuid.UUID
	Status   *BookingStatus
}

// OwnerStats aggregates bookings of an owner's hotels.
type OwnerStats struct {
	ByStatus     map[string]int64
	RevenueCents int64
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	Inventory

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByReference retrieves a booking by its human-readable reference.
	FindByReference(ctx context.Context, reference string) (*Booking, error)

	// List retrieves bookings matching filter with pagination, newest first.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Booking, int64, error)

	// FindDueForCompletion returns confirmed bookings whose check-out is before today.
	FindDueForCompletion(ctx context.Context, today time.Time, limit int) ([]*Booking, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// StatsForHotels aggregates bookings of the given hotels (owner dashboard).
	StatsForHotels(ctx context.Context, hotelIDs []uuid.UUID) (*OwnerStats, error)

	// SaveWithinInventory inserts a new booking after re-checking, under a lock
	// on the room type row, that its inventory still covers the booking. Returns
	// Unavailable when it no longer fits and Conflict on a serialization failure.
	SaveWithinInventory(ctx context.Context, booking *Booking) error

	// UpdateWithinInventory is the amendment counterpart of SaveWithinInventory
	// and also applies optimistic locking.
	UpdateWithinInventory(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
