package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	complaintDomain "github.com/staybook/service-booking/internal/domain/complaint"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// ComplaintModel is the GORM model for the complaints table.
type ComplaintModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookingID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	HotelID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Subject      string     `gorm:"type:varchar(30);not null"`
	Description  string     `gorm:"type:text;not null"`
	Status       string     `gorm:"type:varchar(20);not null;index"`
	AdminComment string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"not null"`
	ResolvedAt   *time.Time `gorm:""`
}

// TableName sets the table name.
func (ComplaintModel) TableName() string { return "complaints" }

// GormComplaintRepository implements ComplaintRepository using GORM.
type GormComplaintRepository struct {
	db *gorm.DB
}

// NewGormComplaintRepository creates a new GormComplaintRepository.
func NewGormComplaintRepository(db *gorm.DB) *GormComplaintRepository {
	return &GormComplaintRepository{db: db}
}

// Save persists a new complaint.
func (r *GormComplaintRepository) Save(ctx context.Context, c *complaintDomain.Complaint) error {
	model := toComplaintModel(c)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save complaint: %w", err)
	}
	return nil
}

// Update stores a resolution. A complaint resolved concurrently is a conflict.
func (r *GormComplaintRepository) Update(ctx context.Context, c *complaintDomain.Complaint) error {
	res := r.db.WithContext(ctx).Model(&ComplaintModel{}).
		Where("id = ? AND status = ?", c.ID(), string(complaintDomain.StatusOpen)).
		Updates(map[string]interface{}{
			"status":        string(c.Status()),
			"admin_comment": c.AdminComment(),
			"resolved_at":   c.ResolvedAt(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update complaint: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewConflictError("complaint is no longer open")
	}
	return nil
}

// FindByID returns a single complaint by ID.
func (r *GormComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*complaintDomain.Complaint, error) {
	var model ComplaintModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Complaint", id.String())
		}
		return nil, fmt.Errorf("failed to find complaint: %w", err)
	}
	return toComplaintDomain(&model), nil
}

// FindByUserID returns a guest's complaints, newest first.
func (r *GormComplaintRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]*complaintDomain.Complaint, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&ComplaintModel{}).Where("user_id = ?", userID), page, limit)
}

// List returns complaints optionally filtered by status (admin).
func (r *GormComplaintRepository) List(ctx context.Context, status *complaintDomain.Status, page, limit int) ([]*complaintDomain.Complaint, int64, error) {
	q := r.db.WithContext(ctx).Model(&ComplaintModel{})
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}
	return r.page(q, page, limit)
}

func (r *GormComplaintRepository) page(q *gorm.DB, page, limit int) ([]*complaintDomain.Complaint, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count complaints: %w", err)
	}
	var models []ComplaintModel
	if err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list complaints: %w", err)
	}

	complaints := make([]*complaintDomain.Complaint, len(models))
	for i := range models {
		complaints[i] = toComplaintDomain(&models[i])
	}
	return complaints, total, nil
}

func toComplaintModel(c *complaintDomain.Complaint) ComplaintModel {
	return ComplaintModel{
		ID:           c.ID(),
		BookingID:    c.BookingID(),
		HotelID:      c.HotelID(),
		UserID:       c.UserID(),
		Subject:      string(c.Subject()),
		Description:  c.Description(),
		Status:       string(c.Status()),
		AdminComment: c.AdminComment(),
		CreatedAt:    c.CreatedAt(),
		ResolvedAt:   c.ResolvedAt(),
	}
}

func toComplaintDomain(m *ComplaintModel) *complaintDomain.Complaint {
	return complaintDomain.Reconstruct(
		m.ID,
		m.BookingID,
		m.HotelID,
		m.UserID,
		complaintDomain.Subject(m.Subject),
		m.Description,
		complaintDomain.Status(m.Status),
		m.AdminComment,
		m.CreatedAt,
		m.ResolvedAt,
	)
}
