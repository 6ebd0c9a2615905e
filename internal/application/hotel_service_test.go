package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
)

func TestHotelModeration(t *testing.T) {
	repo := newMemHotels()
	svc := NewHotelService(repo, zap.NewNop())
	ctx := context.Background()
	owner := auth.Identity{UserID: uuid.New(), Role: auth.RoleOwner}
	admin := auth.Identity{UserID: uuid.New(), Role: auth.RoleAdmin}
	guest := auth.Identity{UserID: uuid.New(), Role: auth.RoleUser}

	_, err := svc.CreateHotel(ctx, guest, HotelRequest{Name: "X", City: "Goa"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	h, err := svc.CreateHotel(ctx, owner, HotelRequest{Name: " Sea Breeze ", City: "Goa", Description: "<p>Beach</p> front"})
	require.NoError(t, err)
	assert.Equal(t, "Sea Breeze", h.Name)
	assert.Equal(t, "PENDING", h.Approval)
	assert.Equal(t, "Beach front", h.Description)

	rt, err := svc.AddRoomType(ctx, owner, h.ID, RoomTypeRequest{Name: "Twin", PricePerNightCents: 300000, Capacity: 2, TotalRooms: 4})
	require.NoError(t, err)

	// Pending listings are hidden from the public but not from their owner.
	_, err = svc.GetHotel(ctx, guest, h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.GetHotel(ctx, auth.Identity{}, h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	mine, err := svc.GetHotel(ctx, owner, h.ID)
	require.NoError(t, err)
	require.Len(t, mine.RoomTypes, 1)
	assert.Equal(t, rt.ID, mine.RoomTypes[0].ID)

	pending, err := svc.ListPendingHotels(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Total)

	approved, err := svc.ApproveHotel(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Approval)

	public, err := svc.ListApprovedHotels(ctx, "Goa", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), public.Total)
	_, err = svc.GetHotel(ctx, guest, h.ID)
	assert.NoError(t, err)

	rejected, err := svc.RejectHotel(ctx, h.ID, "photos are misleading")
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", rejected.Approval)
	assert.Equal(t, "photos are misleading", rejected.RejectionReason)
	_, err = svc.GetHotel(ctx, admin, h.ID)
	assert.NoError(t, err)
}

func TestHotelOwnership(t *testing.T) {
	repo := newMemHotels()
	svc := NewHotelService(repo, zap.NewNop())
	ctx := context.Background()
	owner := auth.Identity{UserID: uuid.New(), Role: auth.RoleOwner}
	rival := auth.Identity{UserID: uuid.New(), Role: auth.RoleOwner}

	h, err := svc.CreateHotel(ctx, owner, HotelRequest{Name: "Hill Top", City: "Ooty"})
	require.NoError(t, err)
	rt, err := svc.AddRoomType(ctx, owner, h.ID, RoomTypeRequest{Name: "Suite", PricePerNightCents: 900000, Capacity: 4, TotalRooms: 2})
	require.NoError(t, err)

	_, err = svc.UpdateHotel(ctx, rival, h.ID, HotelRequest{Name: "Mine now", City: "Ooty"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.UpdateRoomType(ctx, rival, rt.ID, RoomTypeRequest{Name: "Suite", PricePerNightCents: 1, Capacity: 1, TotalRooms: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := svc.UpdateRoomType(ctx, owner, rt.ID, RoomTypeRequest{Name: "Suite", PricePerNightCents: 950000, Capacity: 4, TotalRooms: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TotalRooms)

	_, err = svc.AddRoomType(ctx, owner, h.ID, RoomTypeRequest{Name: "Bad", PricePerNightCents: 100, Capacity: 0, TotalRooms: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.ArchiveRoomType(ctx, owner, rt.ID))
	require.NoError(t, svc.ArchiveHotel(ctx, owner, h.ID))
	_, err = svc.AddRoomType(ctx, owner, h.ID, RoomTypeRequest{Name: "Late", PricePerNightCents: 100, Capacity: 1, TotalRooms: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	list, err := svc.ListOwnerHotels(ctx, owner, 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), list.Total)
	assert.True(t, list.Items[0].Archived)
}
