package auth

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// ParseRole converts a claim or column value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleOwner, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

// IsValid returns true for a recognised role.
func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// CanManageHotels reports whether the role may own hotels and move their bookings.
func (r Role) CanManageHotels() bool { return r == RoleOwner }

// CanAdminister reports whether the role may approve hotels, resolve complaints and
// create owner accounts.
func (r Role) CanAdminister() bool { return r == RoleAdmin }

// CanBook reports whether the role may create bookings, reviews and complaints.
func (r Role) CanBook() bool { return r.IsValid() }

// Identity is the authenticated caller, passed explicitly into every operation.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// IsAuthenticated reports whether the identity carries a user and a valid role.
func (i Identity) IsAuthenticated() bool {
	return i.UserID != uuid.Nil && i.Role.IsValid()
}

// Is reports whether the identity belongs to the given user.
func (i Identity) Is(userID uuid.UUID) bool {
	return i.IsAuthenticated() && i.UserID == userID
}

// SystemIdentity is used for transitions driven by the service itself.
var SystemIdentity = Identity{}
