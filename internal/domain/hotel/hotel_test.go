package hotel

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staybook/service-booking/internal/platform/domain"
)

func details() Details {
	return Details{Name: "Lakeside Inn", City: "Udaipur", State: "Rajasthan", PriceRange: "$$"}
}

func TestNewHotel(t *testing.T) {
	h, err := NewHotel(uuid.New(), details())
	require.NoError(t, err)
	assert.Equal(t, ApprovalPending, h.Approval())
	assert.False(t, h.IsBookable())

	d := details()
	d.Description = `Quiet rooms<script>alert(1)</script> by the lake`
	h, err = NewHotel(uuid.New(), d)
	require.NoError(t, err)
	assert.NotContains(t, h.Details().Description, "<script>")

	_, err = NewHotel(uuid.New(), Details{City: "Goa"})
	assert.True(t, errors.Is(err, domain.ErrMissingField))
	_, err = NewHotel(uuid.Nil, details())
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestHotel_Moderation(t *testing.T) {
	h, err := NewHotel(uuid.New(), details())
	require.NoError(t, err)

	assert.True(t, errors.Is(h.Reject(""), domain.ErrMissingField))
	require.NoError(t, h.Reject("photos missing"))
	assert.Equal(t, "photos missing", h.RejectionReason())

	// Editing a rejected listing resubmits it.
	d := details()
	d.Images = []string{"https://img.example/1.jpg"}
	require.NoError(t, h.Update(d))
	assert.Equal(t, ApprovalPending, h.Approval())
	assert.Empty(t, h.RejectionReason())

	require.NoError(t, h.Approve())
	assert.True(t, h.IsBookable())
	assert.True(t, errors.Is(h.Approve(), domain.ErrInvalidTransition))

	h.Archive()
	assert.False(t, h.IsBookable())
	assert.True(t, errors.Is(h.Update(d), domain.ErrInvalidTransition))
}

func TestRoomType(t *testing.T) {
	_, err := NewRoomType(uuid.New(), RoomSpec{Name: "Suite", PricePerNightCents: 0, Capacity: 2, TotalRooms: 1})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = NewRoomType(uuid.New(), RoomSpec{PricePerNightCents: 100, Capacity: 2, TotalRooms: 1})
	assert.True(t, errors.Is(err, domain.ErrMissingField))

	rt, err := NewRoomType(uuid.New(), RoomSpec{Name: "Suite", PricePerNightCents: 900000, Capacity: 2, TotalRooms: 4})
	require.NoError(t, err)
	require.NoError(t, rt.Update(RoomSpec{Name: "Suite", PricePerNightCents: 950000, Capacity: 3, TotalRooms: 4}))
	assert.Equal(t, 3, rt.Spec().Capacity)
	rt.Archive()
	assert.True(t, rt.Archived())
}
