package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userDomain "github.com/staybook/service-booking/internal/domain/user"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/database"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Phone        string    `gorm:"type:varchar(30)"`
	Address      string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	return r.findOne(ctx, "User", id.String(), "id = ?", id)
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	email = userDomain.NormalizeEmail(email)
	return r.findOne(ctx, "User", email, "email = ?", email)
}

func (r *GormUserRepository) findOne(ctx context.Context, entity, key string, query string, args ...interface{}) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(entity, key)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toUserDomain(&model), nil
}

func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	model := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return domain.NewConflictError("email is already registered")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// UpdateProfile writes the contact columns of an existing account.
func (r *GormUserRepository) UpdateProfile(ctx context.Context, u *userDomain.User) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", u.ID()).
		Updates(map[string]interface{}{
			"name":    u.Name(),
			"phone":   u.Phone(),
			"address": u.Address(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("User", u.ID().String())
	}
	return nil
}

func toUserModel(u *userDomain.User) UserModel {
	return UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		Role:         string(u.Role()),
		Name:         u.Name(),
		Phone:        u.Phone(),
		Address:      u.Address(),
		CreatedAt:    u.CreatedAt(),
	}
}

func toUserDomain(m *UserModel) *userDomain.User {
	return userDomain.Reconstruct(
		m.ID,
		m.Email,
		m.PasswordHash,
		auth.Role(m.Role),
		userDomain.Profile{Name: m.Name, Phone: m.Phone, Address: m.Address},
		m.CreatedAt,
	)
}
