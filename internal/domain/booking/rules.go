package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// RoomTypeRef is the catalogue view of a bookable room type of an approved hotel.
type RoomTypeRef struct {
	HotelID            uuid.UUID
	HotelName          string
	OwnerID            uuid.UUID
	RoomTypeID         uuid.UUID
	RoomTypeName       string
	PricePerNightCents int64
	Capacity           int
	TotalRooms         int
}

// Catalog resolves hotel and room type ids. It returns a NotFound error for
// unknown, archived or unapproved entities and for a room type that belongs to
// another hotel.
type Catalog interface {
	ResolveRoomType(ctx context.Context, hotelID, roomTypeID uuid.UUID) (*RoomTypeRef, error)
}

// Inventory lists the reservations that overlap a stay. exclude, when not
// uuid.Nil, omits that booking's own rooms.
type Inventory interface {
	Reservations(ctx context.Context, roomTypeID uuid.UUID, stay Stay, exclude uuid.UUID) ([]Reservation, error)
}

// Request is a raw booking or amendment request. Counts are pointers so an
// omitted field can take its default and a fractional one can be rejected.
type Request struct {
	HotelID    string
	RoomTypeID string
	CheckIn    string
	CheckOut   string
	Adults     *float64
	Children   *float64
	Rooms      *float64
}

// Validated is an accepted request.
type Validated struct {
	Room      RoomTypeRef
	Stay      Stay
	Guests    Guests
	Remaining int
}

// Availability is the answer to an inventory query.
type Availability struct {
	Available bool `json:"available"`
	Remaining int  `json:"remaining"`
}

// RulesEngine decides whether a booking request is acceptable. Checks run in a
// fixed order and stop at the first failure:
//
//  1. identity (Unauthorized)
//  2. hotel and room type (NotFound)
//  3. date syntax (InvalidDate)
//  4. check-in not in the past (PastDate)
//  5. check-out after check-in, stay no longer than the limit (InvalidRange)
//  6. guest and room counts (InvalidGuestCount)
//  7. remaining inventory (Unavailable)
type RulesEngine struct {
	catalog   Catalog
	inventory Inventory
	maxNights int
}

// DefaultMaxNights is the longest stay accepted unless configured otherwise.
const DefaultMaxNights = 365

// RulesOption customises a RulesEngine.
type RulesOption func(*RulesEngine)

// WithMaxNights caps the stay length. Values below one keep the default.
func WithMaxNights(n int) RulesOption {
	return func(e *RulesEngine) {
		if n > 0 {
			e.maxNights = n
		}
	}
}

// NewRulesEngine creates a RulesEngine.
func NewRulesEngine(catalog Catalog, inventory Inventory, opts ...RulesOption) *RulesEngine {
	e := &RulesEngine{catalog: catalog, inventory: inventory, maxNights: DefaultMaxNights}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate runs every check against req. exclude is the booking being amended,
// or uuid.Nil for a new booking.
func (e *RulesEngine) Validate(ctx context.Context, identity auth.Identity, req Request, exclude uuid.UUID, now time.Time) (*Validated, error) {
	if !identity.IsAuthenticated() || !identity.Role.CanBook() {
		return nil, domain.NewUnauthorizedError("sign in to book a room")
	}

	room, err := e.resolve(ctx, req.HotelID, req.RoomTypeID)
	if err != nil {
		return nil, err
	}

	stay, err := e.parseStay(req.CheckIn, req.CheckOut, now)
	if err != nil {
		return nil, err
	}

	guests, err := NewGuests(req.Adults, req.Children, req.Rooms)
	if err != nil {
		return nil, err
	}
	if err := guests.FitsCapacity(room.Capacity); err != nil {
		return nil, err
	}

	remaining, err := e.remaining(ctx, room, stay, exclude)
	if err != nil {
		return nil, err
	}
	if remaining < guests.Rooms {
		return nil, domain.NewError(domain.KindUnavailable,
			"only %d room(s) of %s left for these dates", remaining, room.RoomTypeName)
	}

	return &Validated{Room: *room, Stay: stay, Guests: guests, Remaining: remaining}, nil
}

// CheckAvailability answers whether rooms rooms are free for the stay. It runs
// the same id, date and count checks as Validate but needs no identity.
func (e *RulesEngine) CheckAvailability(ctx context.Context, hotelID, roomTypeID, checkIn, checkOut string, rooms *float64, now time.Time) (*Availability, error) {
	room, err := e.resolve(ctx, hotelID, roomTypeID)
	if err != nil {
		return nil, err
	}
	stay, err := e.parseStay(checkIn, checkOut, now)
	if err != nil {
		return nil, err
	}
	guests, err := NewGuests(nil, nil, rooms)
	if err != nil {
		return nil, err
	}
	remaining, err := e.remaining(ctx, room, stay, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return &Availability{Available: remaining >= guests.Rooms, Remaining: remaining}, nil
}

func (e *RulesEngine) resolve(ctx context.Context, hotelID, roomTypeID string) (*RoomTypeRef, error) {
	hid, err := uuid.Parse(hotelID)
	if err != nil {
		return nil, domain.NewNotFoundError("Hotel", hotelID)
	}
	rid, err := uuid.Parse(roomTypeID)
	if err != nil {
		return nil, domain.NewNotFoundError("RoomType", roomTypeID)
	}
	return e.catalog.ResolveRoomType(ctx, hid, rid)
}

func (e *RulesEngine) remaining(ctx context.Context, room *RoomTypeRef, stay Stay, exclude uuid.UUID) (int, error) {
	reservations, err := e.inventory.Reservations(ctx, room.RoomTypeID, stay, exclude)
	if err != nil {
		return 0, err
	}
	return RemainingRooms(room.TotalRooms, stay, reservations), nil
}

func (e *RulesEngine) parseStay(checkIn, checkOut string, now time.Time) (Stay, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return Stay{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return Stay{}, err
	}
	if in.Before(Today(now)) {
		return Stay{}, domain.NewError(domain.KindPastDate, "check-in %s is in the past", checkIn)
	}
	stay, err := NewStay(in, out)
	if err != nil {
		return Stay{}, err
	}
	if stay.Nights() > e.maxNights {
		return Stay{}, domain.NewError(domain.KindInvalidRange,
			"stays are limited to %d nights, got %d", e.maxNights, stay.Nights())
	}
	return stay, nil
}
