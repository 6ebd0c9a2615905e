package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/domain/audit"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	complaintDomain "github.com/staybook/service-booking/internal/domain/complaint"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// SubmitComplaintRequest is the request DTO for raising a complaint.
type SubmitComplaintRequest struct {
	Subject     string `json:"subject" binding:"required,complaint_subject"`
	Description string `json:"description" binding:"required,max=2000"`
}

// ResolveComplaintRequest closes a complaint (admin).
type ResolveComplaintRequest struct {
	Status  string `json:"status" binding:"required,oneof=RESOLVED REJECTED"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ComplaintDTO is the API response representation of a complaint.
type ComplaintDTO struct {
	ID           uuid.UUID  `json:"id"`
	BookingID    uuid.UUID  `json:"booking_id"`
	HotelID      uuid.UUID  `json:"hotel_id"`
	UserID       uuid.UUID  `json:"user_id"`
	Subject      string     `json:"subject"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	AdminComment string     `json:"admin_comment,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// ComplaintService handles complaint submission and admin resolution.
type ComplaintService struct {
	repo     complaintDomain.ComplaintRepository
	bookings *BookingService
	notify   notifier
	logger   *zap.Logger
}

// NewComplaintService creates a new ComplaintService.
func NewComplaintService(
	repo complaintDomain.ComplaintRepository,
	bookings *BookingService,
	events EventPublisher,
	auditQueue AuditPublisher,
	logger *zap.Logger,
) *ComplaintService {
	return &ComplaintService{
		repo:     repo,
		bookings: bookings,
		notify:   notifier{events: events, audit: auditQueue, logger: logger},
		logger:   logger,
	}
}

// SubmitComplaint raises a complaint against one of the caller's bookings.
// Cancelled bookings cannot receive complaints.
func (s *ComplaintService) SubmitComplaint(ctx context.Context, identity auth.Identity, bookingID uuid.UUID, req SubmitComplaintRequest) (*ComplaintDTO, error) {
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
	if err := bk.CanReceiveComplaint(); err != nil {
		return nil, err
	}

	c, err := complaintDomain.NewComplaint(bk.ID(), bk.HotelID(), identity.UserID, complaintDomain.Subject(req.Subject), req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("complaint raised",
		zap.String("complaint_id", c.ID().String()),
		zap.String("booking_id", bk.ID().String()),
		zap.String("subject", string(c.Subject())),
	)
	s.notify.publishEvent(ctx, EventComplaintRaised, bk.ID().String(), toComplaintEvent(c))
	s.notify.recordAudit(ctx, bk.ID(), identity, audit.ActionComplaint, string(bk.Status()), string(bk.Status()), c.CreatedAt())

	dto := toComplaintDTO(c)
	return &dto, nil
}

// ListMyComplaints returns the caller's complaints.
func (s *ComplaintService) ListMyComplaints(ctx context.Context, identity auth.Identity, page, limit int) (*domain.PaginatedResult[ComplaintDTO], error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	complaints, total, err := s.repo.FindByUserID(ctx, identity.UserID, page, limit)
	if err != nil {
		return nil, err
	}
	return toComplaintPage(complaints, total, page, limit), nil
}

// ListComplaints returns every complaint, optionally by status (admin).
func (s *ComplaintService) ListComplaints(ctx context.Context, status string, page, limit int) (*domain.PaginatedResult[ComplaintDTO], error) {
	var filter *complaintDomain.Status
	if status != "" {
		st, err := complaintDomain.ParseStatus(status)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		filter = &st
	}
	complaints, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	return toComplaintPage(complaints, total, page, limit), nil
}

// ResolveComplaint closes an open complaint (admin).
func (s *ComplaintService) ResolveComplaint(ctx context.Context, complaintID uuid.UUID, req ResolveComplaintRequest) (*ComplaintDTO, error) {
	c, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := c.Resolve(complaintDomain.Status(req.Status), req.Comment); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("complaint resolved",
		zap.String("complaint_id", c.ID().String()),
		zap.String("status", string(c.Status())),
	)
	s.notify.publishEvent(ctx, EventComplaintResolved, c.BookingID().String(), toComplaintEvent(c))

	dto := toComplaintDTO(c)
	return &dto, nil
}

func toComplaintEvent(c *complaintDomain.Complaint) ComplaintEvent {
	return ComplaintEvent{
		ComplaintID: c.ID(),
		BookingID:   c.BookingID(),
		HotelID:     c.HotelID(),
		Subject:     string(c.Subject()),
		Status:      string(c.Status()),
		OccurredAt:  time.Now().UTC(),
	}
}

func toComplaintPage(complaints []*complaintDomain.Complaint, total int64, page, limit int) *domain.PaginatedResult[ComplaintDTO] {
	dtos := make([]ComplaintDTO, len(complaints))
	for i, c := range complaints {
		dtos[i] = toComplaintDTO(c)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result
}

func toComplaintDTO(c *complaintDomain.Complaint) ComplaintDTO {
	return ComplaintDTO{
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
