package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/domain"
	"github.com/staybook/service-booking/internal/platform/sanitize"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// MaxCancelNoteLength bounds the cancellation note.
const MaxCancelNoteLength = 500

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id         uuid.UUID
	reference  string
	userID     uuid.UUID
	hotelID    uuid.UUID
	roomTypeID uuid.UUID
	status     BookingStatus
	stay       Stay
	guests     Guests
	reviewed   bool

	pricePerNightCents int64
	totalPriceCents    int64
	currency           string

	confirmedAt *time.Time
	cancelledAt *time.Time
	completedAt *time.Time
	cancelledBy *uuid.UUID
	cancelNote  string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReference creates a booking reference in the format "HB-XXXXXXXX".
func generateReference() (string, error) {
	result := make([]byte, 8)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "HB-" + string(result), nil
}

// NewBooking creates a new Booking aggregate. The booking starts PENDING unless
// autoConfirm is set, in which case it starts CONFIRMED.
func NewBooking(
	userID uuid.UUID,
	room RoomTypeRef,
	stay Stay,
	guests Guests,
	totalPriceCents int64,
	currency string,
	autoConfirm bool,
	now time.Time,
) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if room.HotelID == uuid.Nil || room.RoomTypeID == uuid.Nil {
		return nil, domain.NewValidationError("hotel and room type are required")
	}
	if totalPriceCents < 0 {
		return nil, domain.NewValidationError("total price cannot be negative")
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	b := &Booking{
		id:                 uuid.New(),
		reference:          reference,
		userID:             userID,
		hotelID:            room.HotelID,
		roomTypeID:         room.RoomTypeID,
		status:             StatusPending,
		stay:               stay,
		guests:             guests,
		pricePerNightCents: room.PricePerNightCents,
		totalPriceCents:    totalPriceCents,
		currency:           currency,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}
	if autoConfirm {
		b.status = StatusConfirmed
		b.confirmedAt = &now
	}
	return b, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	reference string,
	userID uuid.UUID,
	hotelID uuid.UUID,
	roomTypeID uuid.UUID,
	status BookingStatus,
	stay Stay,
	guests Guests,
	reviewed bool,
	pricePerNightCents int64,
	totalPriceCents int64,
	currency string,
	confirmedAt *time.Time,
	cancelledAt *time.Time,
	completedAt *time.Time,
	cancelledBy *uuid.UUID,
	cancelNote string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                 id,
		reference:          reference,
		userID:             userID,
		hotelID:            hotelID,
		roomTypeID:         roomTypeID,
		status:             status,
		stay:               stay,
		guests:             guests,
		reviewed:           reviewed,
		pricePerNightCents: pricePerNightCents,
		totalPriceCents:    totalPriceCents,
		currency:           currency,
		confirmedAt:        confirmedAt,
		cancelledAt:        cancelledAt,
		completedAt:        completedAt,
		cancelledBy:        cancelledBy,
		cancelNote:         cancelNote,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Reference returns the human-readable booking reference.
func (b *Booking) Reference() string { return b.reference }

// UserID returns the customer who made the booking.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// HotelID returns the booked hotel.
func (b *Booking) HotelID() uuid.UUID { return b.hotelID }

// RoomTypeID returns the booked room type.
func (b *Booking) RoomTypeID() uuid.UUID { return b.roomTypeID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Stay returns the booked dates.
func (b *Booking) Stay() Stay { return b.stay }

// Guests returns the party and room count.
func (b *Booking) Guests() Guests { return b.guests }

// Reviewed reports whether a review has been stored for this booking.
func (b *Booking) Reviewed() bool { return b.reviewed }

// PricePerNightCents returns the nightly rate captured at booking time.
func (b *Booking) PricePerNightCents() int64 { return b.pricePerNightCents }

// TotalPriceCents returns the total price in cents.
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// ConfirmedAt returns when the owner confirmed the booking.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// CancelledAt returns when the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CompletedAt returns when the booking was completed.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// CancelledBy returns who cancelled the booking.
func (b *Booking) CancelledBy() *uuid.UUID { return b.cancelledBy }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the booking date.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// Reservation returns the inventory this booking holds.
func (b *Booking) Reservation() Reservation {
	return Reservation{Stay: b.stay, Rooms: b.guests.Rooms}
}

// --- Behavior ---

// Confirm transitions the booking from pending to confirmed.
func (b *Booking) Confirm(now time.Time) error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	now = now.UTC()
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal state.
func (b *Booking) Cancel(by uuid.UUID, note string, now time.Time) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	note = sanitize.Text(note)
	if sanitize.Length(note) > MaxCancelNoteLength {
		return domain.NewError(domain.KindValidation, "cancellation note must be at most %d characters", MaxCancelNoteLength)
	}
	now = now.UTC()
	b.status = StatusCancelled
	b.cancelledBy = &by
	b.cancelNote = note
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// DueForCompletion reports whether the system should complete this booking:
// it is confirmed and its check-out day is in the past.
func (b *Booking) DueForCompletion(now time.Time) bool {
	return b.status == StatusConfirmed && b.stay.CheckoutPassed(now)
}

// Complete transitions a confirmed booking to completed once check-out has passed.
func (b *Booking) Complete(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	if !b.stay.CheckoutPassed(now) {
		return domain.NewError(domain.KindInvalidTransition,
			"booking %s cannot complete before check-out %s", b.reference, b.stay.CheckOut.Format(DateLayout))
	}
	now = now.UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// Amend replaces dates, party and price while the booking is still open.
// Availability and the other request rules are checked by the caller.
func (b *Booking) Amend(stay Stay, guests Guests, pricePerNightCents, totalPriceCents int64, now time.Time) error {
	if !b.status.IsAmendable() {
		return domain.NewError(domain.KindInvalidTransition, "booking in status %s cannot be amended", b.status)
	}
	b.stay = stay
	b.guests = guests
	b.pricePerNightCents = pricePerNightCents
	b.totalPriceCents = totalPriceCents
	b.updatedAt = now.UTC()
	return nil
}

// CanBeReviewed checks the review guard without changing state.
func (b *Booking) CanBeReviewed() error {
	if b.status != StatusCompleted {
		return domain.NewError(domain.KindInvalidTransition, "only completed bookings can be reviewed, booking is %s", b.status)
	}
	if b.reviewed {
		return domain.NewError(domain.KindAlreadyReviewed, "booking %s has already been reviewed", b.reference)
	}
	return nil
}

// MarkReviewed sets the one-way reviewed flag.
func (b *Booking) MarkReviewed() error {
	if err := b.CanBeReviewed(); err != nil {
		return err
	}
	b.reviewed = true
	return nil
}

// CanReceiveComplaint rejects complaints against cancelled bookings.
func (b *Booking) CanReceiveComplaint() error {
	if b.status == StatusCancelled {
		return domain.NewError(domain.KindInvalidTransition, "cannot raise a complaint against a cancelled booking")
	}
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}
