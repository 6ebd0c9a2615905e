package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userDomain "github.com/staybook/service-booking/internal/domain/user"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// RegisterRequest is the request DTO for signing up or creating an owner.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"max=30"`
	Address  string `json:"address" binding:"max=500"`
}

// LoginRequest is the request DTO for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the request DTO for editing the caller's profile.
// Omitted fields keep their current value.
type UpdateProfileRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=100"`
	Phone   *string `json:"phone" binding:"omitempty,max=30"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// UserDTO is the API response representation of an account.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginDTO is returned on a successful login or registration.
type LoginDTO struct {
	auth.AccessToken
	User UserDTO `json:"user"`
}

// AccountService handles sign-up, login and owner provisioning.
type AccountService struct {
	repo       userDomain.UserRepository
	jwt        *auth.JWTManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAccountService creates a new AccountService. A zero cost uses bcrypt's default.
func NewAccountService(repo userDomain.UserRepository, jwt *auth.JWTManager, bcryptCost int, logger *zap.Logger) *AccountService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{repo: repo, jwt: jwt, bcryptCost: bcryptCost, logger: logger}
}

// Register creates a customer account. The role is always user.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*LoginDTO, error) {
	u, err := s.create(ctx, req, auth.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Login checks credentials and issues an access token. Unknown emails and
// wrong passwords are indistinguishable.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*LoginDTO, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewUnauthorizedError("invalid email or password")
		}
		return nil, err
	}
	if !auth.VerifyPassword(u.PasswordHash(), req.Password) {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}
	return s.issue(u)
}

// Me returns the caller's account.
func (s *AccountService) Me(ctx context.Context, identity auth.Identity) (*UserDTO, error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	u, err := s.repo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// UpdateProfile edits the caller's name, phone and address.
func (s *AccountService) UpdateProfile(ctx context.Context, identity auth.Identity, req UpdateProfileRequest) (*UserDTO, error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	u, err := s.repo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	profile := u.Profile()
	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if err := u.UpdateProfile(profile); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", zap.String("user_id", u.ID().String()))
	dto := toUserDTO(u)
	return &dto, nil
}

// CreateOwner provisions a hotel owner account (admin).
func (s *AccountService) CreateOwner(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	u, err := s.create(ctx, req, auth.RoleOwner)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// Guest resolves the name and email printed on an invoice.
func (s *AccountService) Guest(ctx context.Context, userID uuid.UUID) (string, string, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return u.Name(), u.Email(), nil
}

func (s *AccountService) create(ctx context.Context, req RegisterRequest, role auth.Role) (*userDomain.User, error) {
	if len(req.Password) < 8 {
		return nil, domain.NewValidationError("password must be at least 8 characters")
	}
	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u, err := userDomain.NewUser(req.Email, hash, role, userDomain.Profile{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("account created",
		zap.String("user_id", u.ID().String()),
		zap.String("role", string(role)),
	)
	return u, nil
}

func (s *AccountService) issue(u *userDomain.User) (*LoginDTO, error) {
	token, err := s.jwt.Generate(u.ID(), u.Role())
	if err != nil {
		return nil, err
	}
	return &LoginDTO{AccessToken: token, User: toUserDTO(u)}, nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Email:     u.Email(),
		Role:      string(u.Role()),
		Name:      u.Name(),
		Phone:     u.Phone(),
		Address:   u.Address(),
		CreatedAt: u.CreatedAt(),
	}
}
