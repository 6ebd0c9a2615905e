package user

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
	"github.com/staybook/service-booking/internal/platform/sanitize"
)

// User is an account. The role is fixed at creation.
type User struct {
	id           uuid.UUID
	email        string
	passwordHash string
	role         auth.Role
	name         string
	phone        string
	address      string
	createdAt    time.Time
}

// Profile holds the optional contact attributes.
type Profile struct {
	Name    string
	Phone   string
	Address string
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates an account with an already-hashed password.
func NewUser(email, passwordHash string, role auth.Role, profile Profile) (*User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidationError("a valid email is required")
	}
	if passwordHash == "" {
		return nil, domain.NewError(domain.KindMissingField, "password is required")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("invalid role")
	}
	profile, err := profile.normalize()
	if err != nil {
		return nil, err
	}
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		name:         profile.Name,
		phone:        profile.Phone,
		address:      profile.Address,
		createdAt:    time.Now().UTC(),
	}, nil
}

// Profile column limits.
const (
	MaxNameLength    = 100
	MaxPhoneLength   = 30
	MaxAddressLength = 500
)

func (p Profile) normalize() (Profile, error) {
	p = Profile{
		Name:    strings.TrimSpace(p.Name),
		Phone:   strings.TrimSpace(p.Phone),
		Address: strings.TrimSpace(p.Address),
	}
	if p.Name == "" {
		return p, domain.NewError(domain.KindMissingField, "name is required")
	}
	for _, f := range []struct {
		field string
		value string
		max   int
	}{
		{"name", p.Name, MaxNameLength},
		{"phone", p.Phone, MaxPhoneLength},
		{"address", p.Address, MaxAddressLength},
	} {
		if sanitize.Length(f.value) > f.max {
			return p, domain.NewError(domain.KindValidation, "%s must be at most %d characters", f.field, f.max)
		}
	}
	return p, nil
}

// Reconstruct rebuilds a User from persistence.
func Reconstruct(id uuid.UUID, email, passwordHash string, role auth.Role, profile Profile, createdAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		name:         profile.Name,
		phone:        profile.Phone,
		address:      profile.Address,
		createdAt:    createdAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() auth.Role      { return u.role }
func (u *User) Name() string         { return u.name }
func (u *User) Phone() string        { return u.phone }
func (u *User) Address() string      { return u.address }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// Profile returns the contact attributes.
func (u *User) Profile() Profile {
	return Profile{Name: u.name, Phone: u.phone, Address: u.address}
}

// UpdateProfile replaces the contact attributes. Email and role never change.
func (u *User) UpdateProfile(profile Profile) error {
	profile, err := profile.normalize()
	if err != nil {
		return err
	}
	u.name, u.phone, u.address = profile.Name, profile.Phone, profile.Address
	return nil
}

// Identity returns the request identity for this account.
func (u *User) Identity() auth.Identity {
	return auth.Identity{UserID: u.id, Role: u.role}
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Save returns a Conflict error when the email is already registered.
	Save(ctx context.Context, user *User) error
	// UpdateProfile persists the contact attributes only.
	UpdateProfile(ctx context.Context, user *User) error
}
