package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/domain/audit"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	hotelDomain "github.com/staybook/service-booking/internal/domain/hotel"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// CreateBookingRequest holds the data needed to create a new booking. Ids and
// dates stay strings so the rules engine can report them with its own kinds.
type CreateBookingRequest struct {
	HotelID    string   `json:"hotel_id"`
	RoomTypeID string   `json:"room_type_id"`
	CheckIn    string   `json:"check_in"`
	CheckOut   string   `json:"check_out"`
	Adults     *float64 `json:"adults"`
	Children   *float64 `json:"children"`
	Rooms      *float64 `json:"rooms"`
}

// AmendBookingRequest replaces the dates and party of an open booking.
type AmendBookingRequest struct {
	CheckIn  string   `json:"check_in"`
	CheckOut string   `json:"check_out"`
	Adults   *float64 `json:"adults"`
	Children *float64 `json:"children"`
	Rooms    *float64 `json:"rooms"`
}

// UpdateStatusRequest is an owner-driven status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// CancelBookingRequest carries an optional note.
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Reference          string     `json:"booking_reference"`
	UserID             uuid.UUID  `json:"user_id"`
	HotelID            uuid.UUID  `json:"hotel_id"`
	RoomTypeID         uuid.UUID  `json:"room_type_id"`
	Status             string     `json:"status"`
	CheckIn            string     `json:"check_in"`
	CheckOut           string     `json:"check_out"`
	Nights             int        `json:"nights"`
	Adults             int        `json:"adults"`
	Children           int        `json:"children"`
	Rooms              int        `json:"rooms"`
	Reviewed           bool       `json:"reviewed"`
	PricePerNightCents int64      `json:"price_per_night_cents"`
	TotalPriceCents    int64      `json:"total_price_cents"`
	Currency           string     `json:"currency"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelNote         string     `json:"cancel_note,omitempty"`
	Version            int64      `json:"version"`
	BookingDate        time.Time  `json:"booking_date"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// InvoiceDTO is the printable summary of a booking.
type InvoiceDTO struct {
	Reference          string    `json:"booking_reference"`
	Status             string    `json:"status"`
	GuestName          string    `json:"guest_name"`
	GuestEmail         string    `json:"guest_email"`
	HotelName          string    `json:"hotel_name"`
	RoomTypeName       string    `json:"room_type_name"`
	CheckIn            string    `json:"check_in"`
	CheckOut           string    `json:"check_out"`
	Nights             int       `json:"nights"`
	Rooms              int       `json:"rooms"`
	Adults             int       `json:"adults"`
	Children           int       `json:"children"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	TotalPriceCents    int64     `json:"total_price_cents"`
	Currency           string    `json:"currency"`
	IssuedAt           time.Time `json:"issued_at"`
}

// BookingPolicy holds the deployment-level booking knobs.
type BookingPolicy struct {
	AutoConfirm bool
	Currency    string
	// MaxNights caps the stay length; zero keeps the rules engine default.
	MaxNights int
}

// HotelStore is the hotel repository together with the booking catalogue
// view it serves.
type HotelStore interface {
	hotelDomain.HotelRepository
	bookingDomain.Catalog
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo    bookingDomain.BookingRepository
	hotels  HotelStore
	rules   *bookingDomain.RulesEngine
	pricing bookingDomain.PricingStrategy
	guests  GuestLookup
	audits  audit.Repository
	policy  BookingPolicy
	notify  notifier
	logger  *zap.Logger
	now     func() time.Time
}

// GuestLookup resolves a customer's display name and email.
type GuestLookup func(ctx context.Context, userID uuid.UUID) (name, email string, err error)

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	hotels HotelStore,
	pricing bookingDomain.PricingStrategy,
	guests GuestLookup,
	audits audit.Repository,
	policy BookingPolicy,
	events EventPublisher,
	auditQueue AuditPublisher,
	logger *zap.Logger,
) *BookingService {
	if policy.Currency == "" {
		policy.Currency = domain.CurrencyINR
	}
	return &BookingService{
		repo:    repo,
		hotels:  hotels,
		rules:   bookingDomain.NewRulesEngine(hotels, repo, bookingDomain.WithMaxNights(policy.MaxNights)),
		pricing: pricing,
		guests:  guests,
		audits:  audits,
		policy:  policy,
		notify:  notifier{events: events, audit: auditQueue, logger: logger},
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateBooking validates a request and stores the booking. A lost race on the
// room type's inventory is retried once before it is reported as Unavailable.
func (s *BookingService) CreateBooking(ctx context.Context, identity auth.Identity, req CreateBookingRequest) (*BookingDTO, error) {
	var bk *bookingDomain.Booking
	err := s.retryOnConflict(ctx, func() error {
		now := s.now()
		v, err := s.rules.Validate(ctx, identity, bookingDomain.Request{
			HotelID:    req.HotelID,
			RoomTypeID: req.RoomTypeID,
			CheckIn:    req.CheckIn,
			CheckOut:   req.CheckOut,
			Adults:     req.Adults,
			Children:   req.Children,
			Rooms:      req.Rooms,
		}, uuid.Nil, now)
		if err != nil {
			return err
		}

		total, err := s.price(v)
		if err != nil {
			return err
		}

		bk, err = bookingDomain.NewBooking(identity.UserID, v.Room, v.Stay, v.Guests, total, s.policy.Currency, s.policy.AutoConfirm, now)
		if err != nil {
			return err
		}
		return s.repo.SaveWithinInventory(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("reference", bk.Reference()),
		zap.String("status", string(bk.Status())),
	)
	s.notify.publishEvent(ctx, EventBookingCreated, bk.ID().String(), s.bookingEvent(bk, identity.UserID))
	s.notify.recordAudit(ctx, bk.ID(), identity, audit.ActionCreated, "", string(bk.Status()), bk.CreatedAt())

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateBookingStatus applies an owner-driven transition. Only CONFIRMED and
// CANCELLED can be requested; completion belongs to the system.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, identity auth.Identity, bookingID uuid.UUID, req UpdateStatusRequest) (*BookingDTO, error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	target, err := bookingDomain.ParseBookingStatus(req.Status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	bk, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.hotelOwner(ctx, bk.HotelID())
	if err != nil {
		return nil, err
	}
	if err := bookingDomain.AuthorizeStatusChange(identity, ownerID); err != nil {
		return nil, err
	}

	from := bk.Status()
	now := s.now()
	var eventType, action string
	switch target {
	case bookingDomain.StatusConfirmed:
		err = bk.Confirm(now)
		eventType, action = EventBookingConfirmed, audit.ActionConfirmed
	case bookingDomain.StatusCancelled:
		err = bk.Cancel(identity.UserID, req.Note, now)
		eventType, action = EventBookingCancelled, audit.ActionCancelled
	default:
		err = domain.NewInvalidStateError(string(from), string(target))
	}
	if err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", string(from)),
		zap.String("to", string(bk.Status())),
	)
	s.notify.publishEvent(ctx, eventType, bk.ID().String(), s.bookingEvent(bk, identity.UserID))
	s.notify.recordAudit(ctx, bk.ID(), identity, action, string(from), string(bk.Status()), now)

	result := toBookingDTO(bk)
	return &result, nil
}

// AmendBooking re-runs the full rules engine for new dates and party, with the
// booking's own rooms excluded from availability.
func (s *BookingService) AmendBooking(ctx context.Context, identity auth.Identity, bookingID uuid.UUID, req AmendBookingRequest) (*BookingDTO, error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}

	var bk *bookingDomain.Booking
	err := s.retryOnConflict(ctx, func() error {
		var err error
		bk, err = s.load(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := bookingDomain.AuthorizeCustomer(identity, bk); err != nil {
			return err
		}
		if !bk.Status().IsAmendable() {
			return domain.NewError(domain.KindInvalidTransition, "booking in status %s cannot be amended", bk.Status())
		}

		now := s.now()
		v, err := s.rules.Validate(ctx, identity, bookingDomain.Request{
			HotelID:    bk.HotelID().String(),
			RoomTypeID: bk.RoomTypeID().String(),
			CheckIn:    req.CheckIn,
			CheckOut:   req.CheckOut,
			Adults:     req.Adults,
			Children:   req.Children,
			Rooms:      req.Rooms,
		}, bk.ID(), now)
		if err != nil {
			return err
		}
		total, err := s.price(v)
		if err != nil {
			return err
		}
		if err := bk.Amend(v.Stay, v.Guests, v.Room.PricePerNightCents, total, now); err != nil {
			return err
		}
		bk.IncrementVersion()
		return s.repo.UpdateWithinInventory(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking amended", zap.String("booking_id", bk.ID().String()))
	s.notify.publishEvent(ctx, EventBookingAmended, bk.ID().String(), s.bookingEvent(bk, identity.UserID))
	s.notify.recordAudit(ctx, bk.ID(), identity, audit.ActionAmended, string(bk.Status()), string(bk.Status()), bk.UpdatedAt())

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking on behalf of its customer or hotel owner.
func (s *BookingService) CancelBooking(ctx context.Context, identity auth.Identity, bookingID uuid.UUID, reason string) (*BookingDTO, error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	bk, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.hotelOwner(ctx, bk.HotelID())
	if err != nil {
		return nil, err
	}
	if err := bookingDomain.AuthorizeCancel(identity, bk, ownerID); err != nil {
		return nil, err
	}

	from := bk.Status()
	now := s.now()
	if err := bk.Cancel(identity.UserID, reason, now); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bk.ID().String()),
		zap.String("cancelled_by", identity.UserID.String()),
	)
	s.notify.publishEvent(ctx, EventBookingCancelled, bk.ID().String(), s.bookingEvent(bk, identity.UserID))
	s.notify.recordAudit(ctx, bk.ID(), identity, audit.ActionCancelled, string(from), string(bk.Status()), now)

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckAvailability answers an inventory query. No identity is needed.
func (s *BookingService) CheckAvailability(ctx context.Context, hotelID, roomTypeID, checkIn, checkOut string, rooms *float64) (*bookingDomain.Availability, error) {
	return s.rules.CheckAvailability(ctx, hotelID, roomTypeID, checkIn, checkOut, rooms, s.now())
}

// GetBooking retrieves a single booking visible to identity.
func (s *BookingService) GetBooking(ctx context.Context, identity auth.Identity, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.loadVisible(ctx, identity, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetInvoice builds the invoice of a booking. Available in every status.
func (s *BookingService) GetInvoice(ctx context.Context, identity auth.Identity, bookingID uuid.UUID) (*InvoiceDTO, error) {
	bk, err := s.loadVisible(ctx, identity, bookingID)
	if err != nil {
		return nil, err
	}
	h, err := s.hotels.FindByID(ctx, bk.HotelID())
	if err != nil {
		return nil, err
	}
	rt, err := s.hotels.FindRoomType(ctx, bk.RoomTypeID())
	if err != nil {
		return nil, err
	}

	var name, email string
	if s.guests != nil {
		name, email, err = s.guests(ctx, bk.UserID())
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	stay, party := bk.Stay(), bk.Guests()
	return &InvoiceDTO{
		Reference:          bk.Reference(),
		Status:             string(bk.Status()),
		GuestName:          name,
		GuestEmail:         email,
		HotelName:          h.Name(),
		RoomTypeName:       rt.Spec().Name,
		CheckIn:            stay.CheckIn.Format(bookingDomain.DateLayout),
		CheckOut:           stay.CheckOut.Format(bookingDomain.DateLayout),
		Nights:             stay.Nights(),
		Rooms:              party.Rooms,
		Adults:             party.Adults,
		Children:           party.Children,
		PricePerNightCents: bk.PricePerNightCents(),
		TotalPriceCents:    bk.TotalPriceCents(),
		Currency:           bk.Currency(),
		IssuedAt:           s.now(),
	}, nil
}

// GetUserBookings retrieves the caller's own bookings.
func (s *BookingService) GetUserBookings(ctx context.Context, identity auth.Identity, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	userID := identity.UserID
	return s.list(ctx, bookingDomain.ListFilter{UserID: &userID}, page, limit)
}

// GetOwnerBookings retrieves bookings of the caller's hotels, optionally by status.
func (s *BookingService) GetOwnerBookings(ctx context.Context, identity auth.Identity, status string, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	if !identity.Role.CanManageHotels() {
		return nil, domain.NewForbiddenError("owner role required")
	}
	hotelIDs, err := s.hotels.IDsByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if hotelIDs == nil {
		hotelIDs = []uuid.UUID{}
	}
	filter := bookingDomain.ListFilter{HotelIDs: hotelIDs}
	if status != "" {
		st, err := bookingDomain.ParseBookingStatus(status)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		filter.Status = &st
	}
	return s.list(ctx, filter, page, limit)
}

// OwnerStatsDTO is the owner dashboard summary.
type OwnerStatsDTO struct {
	Hotels        int              `json:"hotels"`
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
	RevenueCents  int64            `json:"revenue_cents"`
}

// GetOwnerStats aggregates bookings of the caller's hotels.
func (s *BookingService) GetOwnerStats(ctx context.Context, identity auth.Identity) (*OwnerStatsDTO, error) {
	if !identity.Role.CanManageHotels() {
		return nil, domain.NewForbiddenError("owner role required")
	}
	hotelIDs, err := s.hotels.IDsByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.StatsForHotels(ctx, hotelIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner stats: %w", err)
	}
	var total int64
	for _, c := range stats.ByStatus {
		total += c
	}
	return &OwnerStatsDTO{
		Hotels:        len(hotelIDs),
		TotalBookings: total,
		ByStatus:      stats.ByStatus,
		RevenueCents:  stats.RevenueCents,
	}, nil
}

// CompleteBooking completes one booking whose check-out has passed. A booking
// that is not yet due, or no longer confirmed, is left alone.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteDue completes up to limit overdue bookings and returns how many were
// moved to COMPLETED.
func (s *BookingService) CompleteDue(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	due, err := s.repo.FindDueForCompletion(ctx, bookingDomain.Today(s.now()), limit)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, bk := range due {
		if _, err := s.settle(ctx, bk); err != nil {
			s.logger.Warn("failed to complete booking",
				zap.String("booking_id", bk.ID().String()),
				zap.Error(err),
			)
			continue
		}
		completed++
	}
	if completed > 0 {
		s.logger.Info("completed overdue bookings", zap.Int("count", completed))
	}
	return completed, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, status string, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	var filter bookingDomain.ListFilter
	if status != "" {
		st, err := bookingDomain.ParseBookingStatus(status)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		filter.Status = &st
	}
	return s.list(ctx, filter, page, limit)
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// GetAuditTrail returns the recorded transitions of a booking (admin).
func (s *BookingService) GetAuditTrail(ctx context.Context, bookingID uuid.UUID) ([]audit.Entry, error) {
	if _, err := s.repo.FindByID(ctx, bookingID); err != nil {
		return nil, err
	}
	if s.audits == nil {
		return []audit.Entry{}, nil
	}
	return s.audits.ListByBooking(ctx, bookingID)
}

// --- Helpers ---

// load fetches a booking and settles an overdue completion first, so every
// guard sees the status the booking should have today.
func (s *BookingService) load(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, bk)
}

func (s *BookingService) settle(ctx context.Context, bk *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	now := s.now()
	if !bk.DueForCompletion(now) {
		return bk, nil
	}

	from := bk.Status()
	if err := bk.Complete(now); err != nil {
		return nil, err
	}
	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Someone else moved it first; their write wins.
			return s.repo.FindByID(ctx, bk.ID())
		}
		return nil, err
	}

	s.logger.Info("booking completed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("check_out", bk.Stay().CheckOut.Format(bookingDomain.DateLayout)),
	)
	s.notify.publishEvent(ctx, EventBookingCompleted, bk.ID().String(), s.bookingEvent(bk, uuid.Nil))
	s.notify.recordAudit(ctx, bk.ID(), auth.SystemIdentity, audit.ActionCompleted, string(from), string(bk.Status()), now)
	return bk, nil
}

func (s *BookingService) loadVisible(ctx context.Context, identity auth.Identity, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required")
	}
	bk, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.hotelOwner(ctx, bk.HotelID())
	if err != nil {
		return nil, err
	}
	if err := bookingDomain.AuthorizeView(identity, bk, ownerID); err != nil {
		return nil, err
	}
	return bk, nil
}

func (s *BookingService) list(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, 0, len(bookings))
	for _, bk := range bookings {
		settled, err := s.settle(ctx, bk)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, toBookingDTO(settled))
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

func (s *BookingService) hotelOwner(ctx context.Context, hotelID uuid.UUID) (uuid.UUID, error) {
	h, err := s.hotels.FindByID(ctx, hotelID)
	if err != nil {
		return uuid.Nil, err
	}
	return h.OwnerID(), nil
}

func (s *BookingService) price(v *bookingDomain.Validated) (int64, error) {
	total, err := s.pricing.Calculate(bookingDomain.PricingParams{
		PricePerNightCents: v.Room.PricePerNightCents,
		Rooms:              v.Guests.Rooms,
		Nights:             v.Stay.Nights(),
	})
	if err != nil {
		return 0, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}
	return total, nil
}

// retryOnConflict runs fn, and once more if it lost a concurrency race. A
// second loss is reported as Unavailable.
func (s *BookingService) retryOnConflict(ctx context.Context, fn func() error) error {
	err := fn()
	if !errors.Is(err, domain.ErrConflict) {
		return err
	}
	s.logger.Warn("booking write conflicted, retrying", zap.Error(err))
	if ctx.Err() != nil {
		return ctx.Err()
	}

	err = fn()
	if errors.Is(err, domain.ErrConflict) {
		return domain.NewError(domain.KindUnavailable, "rooms were taken by a concurrent booking, please try again")
	}
	return err
}

func (s *BookingService) bookingEvent(bk *bookingDomain.Booking, actor uuid.UUID) BookingEvent {
	stay := bk.Stay()
	return BookingEvent{
		BookingID:       bk.ID(),
		Reference:       bk.Reference(),
		UserID:          bk.UserID(),
		HotelID:         bk.HotelID(),
		RoomTypeID:      bk.RoomTypeID(),
		Status:          string(bk.Status()),
		CheckIn:         stay.CheckIn.Format(bookingDomain.DateLayout),
		CheckOut:        stay.CheckOut.Format(bookingDomain.DateLayout),
		Rooms:           bk.Guests().Rooms,
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		ActorID:         actor,
		OccurredAt:      s.now(),
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	stay, guests := bk.Stay(), bk.Guests()
	return BookingDTO{
		ID:                 bk.ID(),
		Reference:          bk.Reference(),
		UserID:             bk.UserID(),
		HotelID:            bk.HotelID(),
		RoomTypeID:         bk.RoomTypeID(),
		Status:             string(bk.Status()),
		CheckIn:            stay.CheckIn.Format(bookingDomain.DateLayout),
		CheckOut:           stay.CheckOut.Format(bookingDomain.DateLayout),
		Nights:             stay.Nights(),
		Adults:             guests.Adults,
		Children:           guests.Children,
		Rooms:              guests.Rooms,
		Reviewed:           bk.Reviewed(),
		PricePerNightCents: bk.PricePerNightCents(),
		TotalPriceCents:    bk.TotalPriceCents(),
		Currency:           bk.Currency(),
		ConfirmedAt:        bk.ConfirmedAt(),
		CancelledAt:        bk.CancelledAt(),
		CompletedAt:        bk.CompletedAt(),
		CancelNote:         bk.CancelNote(),
		Version:            bk.Version(),
		BookingDate:        bk.CreatedAt(),
		UpdatedAt:          bk.UpdatedAt(),
	}
}
