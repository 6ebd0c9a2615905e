package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staybook/service-booking/internal/domain/audit"
)

// AuditModel is the GORM model for the audit_entries table.
type AuditModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole  string    `gorm:"type:varchar(20);not null"`
	Action     string    `gorm:"type:varchar(30);not null"`
	FromStatus string    `gorm:"type:varchar(20)"`
	ToStatus   string    `gorm:"type:varchar(20)"`
	OccurredAt time.Time `gorm:"not null"`
}

func (AuditModel) TableName() string { return "audit_entries" }

// GormAuditRepository implements audit.Repository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Save inserts an entry, ignoring one already stored under the same ID.
func (r *GormAuditRepository) Save(ctx context.Context, e audit.Entry) error {
	model := AuditModel(e)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save audit entry: %w", err)
	}
	return nil
}

// ListByBooking returns a booking's trail in order of occurrence.
func (r *GormAuditRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]audit.Entry, error) {
	var models []AuditModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("occurred_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	entries := make([]audit.Entry, len(models))
	for i, m := range models {
		entries[i] = audit.Entry(m)
	}
	return entries, nil
}
