package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	reviewDomain "github.com/staybook/service-booking/internal/domain/review"
	"github.com/staybook/service-booking/internal/platform/database"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	HotelID      uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating       int       `gorm:"not null"`
	Title        string    `gorm:"type:varchar(200);not null"`
	Comment      string    `gorm:"type:text;not null"`
	HelpfulCount int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (ReviewModel) TableName() string { return "reviews" }

// GormReviewRepository implements ReviewRepository using GORM.
type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// SubmitForBooking flips the reviewed flag, stores the review and refreshes
// the hotel rating in one transaction.
func (r *GormReviewRepository) SubmitForBooking(ctx context.Context, rv *reviewDomain.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&BookingModel{}).
			Where("id = ? AND status = ? AND reviewed = ?", rv.BookingID(), string(bookingDomain.StatusCompleted), false).
			Updates(map[string]interface{}{
				"reviewed":   true,
				"version":    gorm.Expr("version + 1"),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to mark booking reviewed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewError(domain.KindAlreadyReviewed, "booking %s has already been reviewed", rv.BookingID())
		}

		model := toReviewModel(rv)
		if err := tx.Create(model).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return domain.NewError(domain.KindAlreadyReviewed, "booking %s has already been reviewed", rv.BookingID())
			}
			return fmt.Errorf("failed to save review: %w", err)
		}

		var agg struct {
			Avg   float64
			Count int
		}
		if err := tx.Model(&ReviewModel{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("hotel_id = ?", rv.HotelID()).
			Scan(&agg).Error; err != nil {
			return fmt.Errorf("failed to aggregate ratings: %w", err)
		}
		if err := tx.Model(&HotelModel{}).
			Where("id = ?", rv.HotelID()).
			Updates(map[string]interface{}{
				"rating":       agg.Avg,
				"rating_count": agg.Count,
			}).Error; err != nil {
			return fmt.Errorf("failed to update hotel rating: %w", err)
		}
		return nil
	})
}

// ListByHotel returns a hotel's reviews, newest first.
func (r *GormReviewRepository) ListByHotel(ctx context.Context, hotelID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	return r.list(ctx, "hotel_id = ?", hotelID, page, limit)
}

// ListByUser returns the reviews a guest has written, newest first.
func (r *GormReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	return r.list(ctx, "user_id = ?", userID, page, limit)
}

func (r *GormReviewRepository) list(ctx context.Context, where string, id uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&ReviewModel{}).Where(where, id)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var models []ReviewModel
	if err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*reviewDomain.Review, len(models))
	for i := range models {
		reviews[i] = toReviewDomain(&models[i])
	}
	return reviews, total, nil
}

// MarkHelpful increments a review's helpful counter.
func (r *GormReviewRepository) MarkHelpful(ctx context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	var model ReviewModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ReviewModel{}).Where("id = ?", id).
			Update("helpful_count", gorm.Expr("helpful_count + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to mark review helpful: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewNotFoundError("Review", id.String())
		}
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Review", id.String())
		}
		return nil, err
	}
	return toReviewDomain(&model), nil
}

func toReviewModel(rv *reviewDomain.Review) *ReviewModel {
	return &ReviewModel{
		ID:           rv.ID(),
		BookingID:    rv.BookingID(),
		HotelID:      rv.HotelID(),
		UserID:       rv.UserID(),
		Rating:       rv.Rating(),
		Title:        rv.Title(),
		Comment:      rv.Comment(),
		HelpfulCount: rv.HelpfulCount(),
		CreatedAt:    rv.CreatedAt(),
	}
}

func toReviewDomain(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.Reconstruct(
		m.ID, m.BookingID, m.HotelID, m.UserID,
		m.Rating, m.Title, m.Comment, m.HelpfulCount, m.CreatedAt,
	)
}
