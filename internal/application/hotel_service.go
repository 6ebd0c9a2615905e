package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	hotelDomain "github.com/staybook/service-booking/internal/domain/hotel"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// HotelRequest is the request DTO for creating or updating a hotel.
type HotelRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Description string   `json:"description" binding:"max=5000"`
	City        string   `json:"city" binding:"required,max=100"`
	State       string   `json:"state" binding:"max=100"`
	Address     string   `json:"address"`
	PriceRange  string   `json:"price_range" binding:"omitempty,oneof=$ $$ $$$ $$$$"`
	Images      []string `json:"images" binding:"omitempty,dive,url"`
}

// RoomTypeRequest is the request DTO for creating or updating a room type.
type RoomTypeRequest struct {
	Name               string `json:"name" binding:"required,max=100"`
	PricePerNightCents int64  `json:"price_per_night_cents" binding:"required,gt=0"`
	Capacity           int    `json:"capacity" binding:"required,gte=1"`
	TotalRooms         int    `json:"total_rooms" binding:"required,gte=1"`
}

// RejectHotelRequest carries the reason shown to the owner.
type RejectHotelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// HotelDTO is the API response representation of a hotel.
type HotelDTO struct {
	ID              uuid.UUID     `json:"id"`
	OwnerID         uuid.UUID     `json:"owner_id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	City            string        `json:"city"`
	State           string        `json:"state,omitempty"`
	Address         string        `json:"address,omitempty"`
	PriceRange      string        `json:"price_range,omitempty"`
	Images          []string      `json:"images"`
	Rating          float64       `json:"rating"`
	RatingCount     int           `json:"rating_count"`
	Approval        string        `json:"approval_status"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	Archived        bool          `json:"archived"`
	RoomTypes       []RoomTypeDTO `json:"room_types,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// RoomTypeDTO is the API response representation of a room type.
type RoomTypeDTO struct {
	ID                 uuid.UUID `json:"id"`
	HotelID            uuid.UUID `json:"hotel_id"`
	Name               string    `json:"name"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	Capacity           int       `json:"capacity"`
	TotalRooms         int       `json:"total_rooms"`
	Archived           bool      `json:"archived"`
}

// HotelService handles the hotel catalogue: owner listings, admin moderation
// and the public directory.
type HotelService struct {
	repo   hotelDomain.HotelRepository
	logger *zap.Logger
}

// NewHotelService creates a new HotelService.
func NewHotelService(repo hotelDomain.HotelRepository, logger *zap.Logger) *HotelService {
	return &HotelService{repo: repo, logger: logger}
}

// CreateHotel registers a listing for the calling owner. It awaits approval.
func (s *HotelService) CreateHotel(ctx context.Context, identity auth.Identity, req HotelRequest) (*HotelDTO, error) {
	if !identity.Role.CanManageHotels() {
		return nil, domain.NewForbiddenError("owner role required")
	}
	h, err := hotelDomain.NewHotel(identity.UserID, req.details())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, h); err != nil {
		return nil, err
	}

	s.logger.Info("hotel created",
		zap.String("hotel_id", h.ID().String()),
		zap.String("owner_id", identity.UserID.String()),
	)
	dto := toHotelDTO(h, nil)
	return &dto, nil
}

// UpdateHotel replaces the details of one of the caller's hotels.
func (s *HotelService) UpdateHotel(ctx context.Context, identity auth.Identity, hotelID uuid.UUID, req HotelRequest) (*HotelDTO, error) {
	h, err := s.ownedHotel(ctx, identity, hotelID)
	if err != nil {
		return nil, err
	}
	if err := h.Update(req.details()); err != nil {
		return nil, err
	}
	h.IncrementVersion()
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	dto := toHotelDTO(h, nil)
	return &dto, nil
}

// ArchiveHotel withdraws one of the caller's hotels from booking.
func (s *HotelService) ArchiveHotel(ctx context.Context, identity auth.Identity, hotelID uuid.UUID) error {
	h, err := s.ownedHotel(ctx, identity, hotelID)
	if err != nil {
		return err
	}
	h.Archive()
	h.IncrementVersion()
	if err := s.repo.Update(ctx, h); err != nil {
		return err
	}
	s.logger.Info("hotel archived", zap.String("hotel_id", hotelID.String()))
	return nil
}

// ListOwnerHotels lists the caller's hotels, archived ones included.
func (s *HotelService) ListOwnerHotels(ctx context.Context, identity auth.Identity, page, limit int) (*domain.PaginatedResult[HotelDTO], error) {
	if !identity.Role.CanManageHotels() {
		return nil, domain.NewForbiddenError("owner role required")
	}
	ownerID := identity.UserID
	return s.list(ctx, hotelDomain.ListFilter{OwnerID: &ownerID, IncludeArchived: true}, page, limit)
}

// AddRoomType adds a room type to one of the caller's hotels.
func (s *HotelService) AddRoomType(ctx context.Context, identity auth.Identity, hotelID uuid.UUID, req RoomTypeRequest) (*RoomTypeDTO, error) {
	h, err := s.ownedHotel(ctx, identity, hotelID)
	if err != nil {
		return nil, err
	}
	if h.Archived() {
		return nil, domain.NewError(domain.KindInvalidTransition, "archived hotels cannot get new room types")
	}
	rt, err := hotelDomain.NewRoomType(h.ID(), req.spec())
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveRoomType(ctx, rt); err != nil {
		return nil, err
	}
	dto := toRoomTypeDTO(rt)
	return &dto, nil
}

// UpdateRoomType replaces a room type's attributes. Reducing TotalRooms does
// not cancel bookings already holding rooms.
func (s *HotelService) UpdateRoomType(ctx context.Context, identity auth.Identity, roomTypeID uuid.UUID, req RoomTypeRequest) (*RoomTypeDTO, error) {
	rt, err := s.ownedRoomType(ctx, identity, roomTypeID)
	if err != nil {
		return nil, err
	}
	if err := rt.Update(req.spec()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRoomType(ctx, rt); err != nil {
		return nil, err
	}
	dto := toRoomTypeDTO(rt)
	return &dto, nil
}

// ArchiveRoomType stops new bookings of a room type.
func (s *HotelService) ArchiveRoomType(ctx context.Context, identity auth.Identity, roomTypeID uuid.UUID) error {
	rt, err := s.ownedRoomType(ctx, identity, roomTypeID)
	if err != nil {
		return err
	}
	rt.Archive()
	return s.repo.UpdateRoomType(ctx, rt)
}

// ListApprovedHotels is the public directory, optionally filtered by city.
func (s *HotelService) ListApprovedHotels(ctx context.Context, city string, page, limit int) (*domain.PaginatedResult[HotelDTO], error) {
	approved := hotelDomain.ApprovalApproved
	return s.list(ctx, hotelDomain.ListFilter{City: city, Approval: &approved}, page, limit)
}

// GetHotel returns a hotel with its active room types. Listings that are not
// public are visible only to their owner and administrators.
func (s *HotelService) GetHotel(ctx context.Context, identity auth.Identity, hotelID uuid.UUID) (*HotelDTO, error) {
	h, err := s.repo.FindByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if !h.IsBookable() && !identity.Role.CanAdminister() && !(identity.IsAuthenticated() && h.IsOwnedBy(identity.UserID)) {
		return nil, domain.NewNotFoundError("Hotel", hotelID.String())
	}
	roomTypes, err := s.repo.ListRoomTypes(ctx, hotelID, false)
	if err != nil {
		return nil, err
	}
	dto := toHotelDTO(h, roomTypes)
	return &dto, nil
}

// --- Admin methods ---

// ListPendingHotels returns listings awaiting moderation (admin).
func (s *HotelService) ListPendingHotels(ctx context.Context, page, limit int) (*domain.PaginatedResult[HotelDTO], error) {
	pending := hotelDomain.ApprovalPending
	return s.list(ctx, hotelDomain.ListFilter{Approval: &pending}, page, limit)
}

// ApproveHotel makes a listing public (admin).
func (s *HotelService) ApproveHotel(ctx context.Context, hotelID uuid.UUID) (*HotelDTO, error) {
	return s.moderate(ctx, hotelID, func(h *hotelDomain.Hotel) error { return h.Approve() })
}

// RejectHotel hides a listing with a reason (admin).
func (s *HotelService) RejectHotel(ctx context.Context, hotelID uuid.UUID, reason string) (*HotelDTO, error) {
	return s.moderate(ctx, hotelID, func(h *hotelDomain.Hotel) error { return h.Reject(reason) })
}

func (s *HotelService) moderate(ctx context.Context, hotelID uuid.UUID, apply func(*hotelDomain.Hotel) error) (*HotelDTO, error) {
	h, err := s.repo.FindByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if err := apply(h); err != nil {
		return nil, err
	}
	h.IncrementVersion()
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	s.logger.Info("hotel moderated",
		zap.String("hotel_id", hotelID.String()),
		zap.String("approval", string(h.Approval())),
	)
	dto := toHotelDTO(h, nil)
	return &dto, nil
}

// --- Helpers ---

func (s *HotelService) ownedHotel(ctx context.Context, identity auth.Identity, hotelID uuid.UUID) (*hotelDomain.Hotel, error) {
	if !identity.Role.CanManageHotels() {
		return nil, domain.NewForbiddenError("owner role required")
	}
	h, err := s.repo.FindByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if !h.IsOwnedBy(identity.UserID) {
		return nil, domain.NewForbiddenError("hotel does not belong to this owner")
	}
	return h, nil
}

func (s *HotelService) ownedRoomType(ctx context.Context, identity auth.Identity, roomTypeID uuid.UUID) (*hotelDomain.RoomType, error) {
	rt, err := s.repo.FindRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedHotel(ctx, identity, rt.HotelID()); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *HotelService) list(ctx context.Context, filter hotelDomain.ListFilter, page, limit int) (*domain.PaginatedResult[HotelDTO], error) {
	hotels, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]HotelDTO, len(hotels))
	for i, h := range hotels {
		dtos[i] = toHotelDTO(h, nil)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

func (r HotelRequest) details() hotelDomain.Details {
	return hotelDomain.Details{
		Name:        r.Name,
		Description: r.Description,
		City:        r.City,
		State:       r.State,
		Address:     r.Address,
		PriceRange:  r.PriceRange,
		Images:      r.Images,
	}
}

func (r RoomTypeRequest) spec() hotelDomain.RoomSpec {
	return hotelDomain.RoomSpec{
		Name:               r.Name,
		PricePerNightCents: r.PricePerNightCents,
		Capacity:           r.Capacity,
		TotalRooms:         r.TotalRooms,
	}
}

func toHotelDTO(h *hotelDomain.Hotel, roomTypes []*hotelDomain.RoomType) HotelDTO {
	d := h.Details()
	images := d.Images
	if images == nil {
		images = []string{}
	}
	dto := HotelDTO{
		ID:              h.ID(),
		OwnerID:         h.OwnerID(),
		Name:            d.Name,
		Description:     d.Description,
		City:            d.City,
		State:           d.State,
		Address:         d.Address,
		PriceRange:      d.PriceRange,
		Images:          images,
		Rating:          h.Rating(),
		RatingCount:     h.RatingCount(),
		Approval:        string(h.Approval()),
		RejectionReason: h.RejectionReason(),
		Archived:        h.Archived(),
		CreatedAt:       h.CreatedAt(),
		UpdatedAt:       h.UpdatedAt(),
	}
	for _, rt := range roomTypes {
		dto.RoomTypes = append(dto.RoomTypes, toRoomTypeDTO(rt))
	}
	return dto
}

func toRoomTypeDTO(rt *hotelDomain.RoomType) RoomTypeDTO {
	spec := rt.Spec()
	return RoomTypeDTO{
		ID:                 rt.ID(),
		HotelID:            rt.HotelID(),
		Name:               spec.Name,
		PricePerNightCents: spec.PricePerNightCents,
		Capacity:           spec.Capacity,
		TotalRooms:         spec.TotalRooms,
		Archived:           rt.Archived(),
	}
}
