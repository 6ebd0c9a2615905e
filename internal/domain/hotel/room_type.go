package hotel

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/domain"
)

// RoomSpec holds the owner-editable attributes of a room type.
type RoomSpec struct {
	Name               string
	PricePerNightCents int64
	Capacity           int
	TotalRooms         int
}

func (s RoomSpec) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return domain.NewError(domain.KindMissingField, "room type name is required")
	}
	if s.PricePerNightCents <= 0 {
		return domain.NewValidationError("price per night must be positive")
	}
	if s.Capacity < 1 {
		return domain.NewValidationError("capacity must be at least 1")
	}
	if s.TotalRooms < 1 {
		return domain.NewValidationError("total rooms must be at least 1")
	}
	return nil
}

// RoomType is a bookable category of rooms within a hotel.
type RoomType struct {
	id        uuid.UUID
	hotelID   uuid.UUID
	spec      RoomSpec
	archived  bool
	createdAt time.Time
	updatedAt time.Time
}

// NewRoomType creates a room type for hotelID.
func NewRoomType(hotelID uuid.UUID, spec RoomSpec) (*RoomType, error) {
	if hotelID == uuid.Nil {
		return nil, domain.NewValidationError("hotel ID is required")
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &RoomType{id: uuid.New(), hotelID: hotelID, spec: spec, createdAt: now, updatedAt: now}, nil
}

// ReconstructRoomType rebuilds a RoomType from persistence.
func ReconstructRoomType(id, hotelID uuid.UUID, spec RoomSpec, archived bool, createdAt, updatedAt time.Time) *RoomType {
	return &RoomType{id: id, hotelID: hotelID, spec: spec, archived: archived, createdAt: createdAt, updatedAt: updatedAt}
}

// Getters.
func (r *RoomType) ID() uuid.UUID        { return r.id }
func (r *RoomType) HotelID() uuid.UUID   { return r.hotelID }
func (r *RoomType) Spec() RoomSpec       { return r.spec }
func (r *RoomType) Archived() bool       { return r.archived }
func (r *RoomType) CreatedAt() time.Time { return r.createdAt }
func (r *RoomType) UpdatedAt() time.Time { return r.updatedAt }

// Update replaces the room type's attributes. Lowering TotalRooms does not
// cancel existing bookings; new bookings see the reduced inventory.
func (r *RoomType) Update(spec RoomSpec) error {
	if err := spec.validate(); err != nil {
		return err
	}
	r.spec = spec
	r.updatedAt = time.Now().UTC()
	return nil
}

// Archive stops new bookings of this room type.
func (r *RoomType) Archive() {
	r.archived = true
	r.updatedAt = time.Now().UTC()
}
