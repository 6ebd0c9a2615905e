package hotel

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a hotel listing. Zero values mean "any".
type ListFilter struct {
	City            string
	OwnerID         *uuid.UUID
	Approval        *ApprovalStatus
	IncludeArchived bool
}

// HotelRepository defines persistence operations for hotels and their room types.
type HotelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Hotel, error)
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Hotel, int64, error)
	IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, hotel *Hotel) error
	Update(ctx context.Context, hotel *Hotel) error

	FindRoomType(ctx context.Context, id uuid.UUID) (*RoomType, error)
	ListRoomTypes(ctx context.Context, hotelID uuid.UUID, includeArchived bool) ([]*RoomType, error)
	SaveRoomType(ctx context.Context, roomType *RoomType) error
	UpdateRoomType(ctx context.Context, roomType *RoomType) error
}
