// Package review models guest reviews of completed stays.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/domain"
	"github.com/staybook/service-booking/internal/platform/sanitize"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Text limits, counted in characters after sanitising.
const (
	MaxTitleLength   = 200
	MaxCommentLength = 5000
)

// Review is one guest's rating of one completed booking. Immutable once stored.
type Review struct {
	id           uuid.UUID
	bookingID    uuid.UUID
	hotelID      uuid.UUID
	userID       uuid.UUID
	rating       int
	title        string
	comment      string
	helpfulCount int
	createdAt    time.Time
}

// NewReview validates and sanitises a submission. The rating is checked first,
// then title and comment after markup has been stripped.
func NewReview(bookingID, hotelID, userID uuid.UUID, rating float64, title, comment string) (*Review, error) {
	if rating != float64(int(rating)) || rating < MinRating || rating > MaxRating {
		return nil, domain.NewError(domain.KindInvalidRating, "rating must be a whole number from %d to %d", MinRating, MaxRating)
	}
	title = sanitize.Text(title)
	if title == "" {
		return nil, domain.NewError(domain.KindMissingField, "title is required")
	}
	if sanitize.Length(title) > MaxTitleLength {
		return nil, domain.NewError(domain.KindValidation, "title must be at most %d characters", MaxTitleLength)
	}
	comment = sanitize.Text(comment)
	if comment == "" {
		return nil, domain.NewError(domain.KindMissingField, "comment is required")
	}
	if sanitize.Length(comment) > MaxCommentLength {
		return nil, domain.NewError(domain.KindValidation, "comment must be at most %d characters", MaxCommentLength)
	}

	return &Review{
		id:        uuid.New(),
		bookingID: bookingID,
		hotelID:   hotelID,
		userID:    userID,
		rating:    int(rating),
		title:     title,
		comment:   comment,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Review from persistence.
func Reconstruct(id, bookingID, hotelID, userID uuid.UUID, rating int, title, comment string, helpfulCount int, createdAt time.Time) *Review {
	return &Review{
		id:           id,
		bookingID:    bookingID,
		hotelID:      hotelID,
		userID:       userID,
		rating:       rating,
		title:        title,
		comment:      comment,
		helpfulCount: helpfulCount,
		createdAt:    createdAt,
	}
}

// Getters.
func (r *Review) ID() uuid.UUID        { return r.id }
func (r *Review) BookingID() uuid.UUID { return r.bookingID }
func (r *Review) HotelID() uuid.UUID   { return r.hotelID }
func (r *Review) UserID() uuid.UUID    { return r.userID }
func (r *Review) Rating() int          { return r.rating }
func (r *Review) Title() string        { return r.title }
func (r *Review) Comment() string      { return r.comment }
func (r *Review) HelpfulCount() int    { return r.helpfulCount }
func (r *Review) CreatedAt() time.Time { return r.createdAt }

// ReviewRepository persists reviews.
type ReviewRepository interface {
	// SubmitForBooking atomically flips the booking's reviewed flag (only if it
	// is COMPLETED and not yet reviewed), inserts the review and refreshes the
	// hotel's rating. Returns AlreadyReviewed when the flag was already set.
	SubmitForBooking(ctx context.Context, review *Review) error
	ListByHotel(ctx context.Context, hotelID uuid.UUID, page, limit int) ([]*Review, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*Review, int64, error)
	MarkHelpful(ctx context.Context, id uuid.UUID) (*Review, error)
}
