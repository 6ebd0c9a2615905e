package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/domain/audit"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	reviewDomain "github.com/staybook/service-booking/internal/domain/review"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// SubmitReviewRequest is the request DTO for reviewing a stay. Rating is a
// pointer to a float so a missing or fractional value is reported as
// InvalidRating instead of a binding error.
type SubmitReviewRequest struct {
	Rating  *float64 `json:"rating"`
	Title   string   `json:"title"`
	Comment string   `json:"comment"`
}

// ReviewDTO is the API response representation of a review.
type ReviewDTO struct {
	ID           uuid.UUID `json:"id"`
	BookingID    uuid.UUID `json:"booking_id"`
	HotelID      uuid.UUID `json:"hotel_id"`
	UserID       uuid.UUID `json:"user_id"`
	Rating       int       `json:"rating"`
	Title        string    `json:"title"`
	Comment      string    `json:"comment"`
	HelpfulCount int       `json:"helpful_count"`
	CreatedAt    time.Time `json:"date"`
}

// ReviewService handles review submission and the public review listing.
type ReviewService struct {
	repo     reviewDomain.ReviewRepository
	bookings *BookingService
	notify   notifier
	logger   *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	repo reviewDomain.ReviewRepository,
	bookings *BookingService,
	events EventPublisher,
	auditQueue AuditPublisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		repo:     repo,
		bookings: bookings,
		notify:   notifier{events: events, audit: auditQueue, logger: logger},
		logger:   logger,
	}
}

// SubmitReview reviews a completed booking. The booking guard runs before the
// payload checks; the reviewed flag and the insert commit together.
func (s *ReviewService) SubmitReview(ctx context.Context, identity auth.Identity, bookingID uuid.UUID, req SubmitReviewRequest) (*ReviewDTO, error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	bk, err := s.bookings.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := bookingDomain.AuthorizeCustomer(identity, bk); err != nil {
		return nil, err
	}
	if err := bk.CanBeReviewed(); err != nil {
		return nil, err
	}

	if req.Rating == nil {
		return nil, domain.NewError(domain.KindInvalidRating, "rating is required")
	}
	rv, err := reviewDomain.NewReview(bk.ID(), bk.HotelID(), identity.UserID, *req.Rating, req.Title, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SubmitForBooking(ctx, rv); err != nil {
		return nil, err
	}

	s.logger.Info("review submitted",
		zap.String("booking_id", bk.ID().String()),
		zap.Int("rating", rv.Rating()),
	)
	s.notify.publishEvent(ctx, EventReviewSubmitted, bk.ID().String(), ReviewSubmittedEvent{
		ReviewID:   rv.ID(),
		BookingID:  bk.ID(),
		HotelID:    bk.HotelID(),
		Rating:     rv.Rating(),
		OccurredAt: rv.CreatedAt(),
	})
	s.notify.recordAudit(ctx, bk.ID(), identity, audit.ActionReviewed, string(bk.Status()), string(bk.Status()), rv.CreatedAt())

	dto := toReviewDTO(rv)
	return &dto, nil
}

// ListHotelReviews returns a hotel's reviews, newest first.
func (s *ReviewService) ListHotelReviews(ctx context.Context, hotelID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	reviews, total, err := s.repo.ListByHotel(ctx, hotelID, page, limit)
	if err != nil {
		return nil, err
	}
	return toReviewPage(reviews, total, page, limit), nil
}

// ListMyReviews returns the caller's own reviews, newest first.
func (s *ReviewService) ListMyReviews(ctx context.Context, identity auth.Identity, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	reviews, total, err := s.repo.ListByUser(ctx, identity.UserID, page, limit)
	if err != nil {
		return nil, err
	}
	return toReviewPage(reviews, total, page, limit), nil
}

// MarkHelpful bumps a review's helpful counter.
func (s *ReviewService) MarkHelpful(ctx context.Context, identity auth.Identity, reviewID uuid.UUID) (*ReviewDTO, error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	rv, err := s.repo.MarkHelpful(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	dto := toReviewDTO(rv)
	return &dto, nil
}

func toReviewPage(reviews []*reviewDomain.Review, total int64, page, limit int) *domain.PaginatedResult[ReviewDTO] {
	dtos := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		dtos[i] = toReviewDTO(rv)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result
}

func toReviewDTO(rv *reviewDomain.Review) ReviewDTO {
	return ReviewDTO{
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
