package booking

import (
	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// AuthorizeStatusChange allows only the owner of the booking's hotel to move
// a booking through its owner-driven transitions.
func AuthorizeStatusChange(identity auth.Identity, hotelOwnerID uuid.UUID) error {
	if !identity.IsAuthenticated() {
		return domain.NewUnauthorizedError("authentication required")
	}
	if !identity.Role.CanManageHotels() || !identity.Is(hotelOwnerID) {
		return domain.NewForbiddenError("only the hotel owner can change this booking's status")
	}
	return nil
}

// AuthorizeCancel allows the hotel owner or the booking's own customer.
func AuthorizeCancel(identity auth.Identity, b *Booking, hotelOwnerID uuid.UUID) error {
	if !identity.IsAuthenticated() {
		return domain.NewUnauthorizedError("authentication required")
	}
	if identity.Is(b.UserID()) {
		return nil
	}
	if identity.Role.CanManageHotels() && identity.Is(hotelOwnerID) {
		return nil
	}
	return domain.NewForbiddenError("only the customer or the hotel owner can cancel this booking")
}

// AuthorizeCustomer allows only the booking's own customer. Used for
// amendments, reviews and complaints.
func AuthorizeCustomer(identity auth.Identity, b *Booking) error {
	if !identity.IsAuthenticated() {
		return domain.NewUnauthorizedError("authentication required")
	}
	if !identity.Is(b.UserID()) {
		return domain.NewForbiddenError("booking does not belong to this user")
	}
	return nil
}

// AuthorizeView allows the customer, the hotel owner and administrators.
func AuthorizeView(identity auth.Identity, b *Booking, hotelOwnerID uuid.UUID) error {
	if !identity.IsAuthenticated() {
		return domain.NewUnauthorizedError("authentication required")
	}
	if identity.Is(b.UserID()) || identity.Role.CanAdminister() {
		return nil
	}
	if identity.Role.CanManageHotels() && identity.Is(hotelOwnerID) {
		return nil
	}
	return domain.NewForbiddenError("booking is not visible to this user")
}
