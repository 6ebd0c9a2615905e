package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	hotelDomain "github.com/staybook/service-booking/internal/domain/hotel"
	"github.com/staybook/service-booking/internal/platform/domain"
)

// HotelModel is the GORM model for the hotels table.
type HotelModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"type:varchar(200);not null"`
	Description     string    `gorm:"type:text"`
	City            string    `gorm:"type:varchar(100);not null;index"`
	State           string    `gorm:"type:varchar(100)"`
	Address         string    `gorm:"type:text"`
	PriceRange      string    `gorm:"type:varchar(20)"`
	Images          []string  `gorm:"type:jsonb;serializer:json"`
	Rating          float64   `gorm:"not null;default:0"`
	RatingCount     int       `gorm:"not null;default:0"`
	Approval        string    `gorm:"type:varchar(20);not null;index"`
	RejectionReason string    `gorm:"type:text"`
	Archived        bool      `gorm:"not null;default:false"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (HotelModel) TableName() string { return "hotels" }

// RoomTypeModel is the GORM model for the room_types table.
type RoomTypeModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	HotelID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Name               string    `gorm:"type:varchar(100);not null"`
	PricePerNightCents int64     `gorm:"not null"`
	Capacity           int       `gorm:"not null"`
	TotalRooms         int       `gorm:"not null"`
	Archived           bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

func (RoomTypeModel) TableName() string { return "room_types" }

// GormHotelRepository implements HotelRepository and the booking Catalog using GORM.
type GormHotelRepository struct {
	db *gorm.DB
}

func NewGormHotelRepository(db *gorm.DB) *GormHotelRepository {
	return &GormHotelRepository{db: db}
}

func (r *GormHotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*hotelDomain.Hotel, error) {
	var model HotelModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Hotel", id.String())
		}
		return nil, fmt.Errorf("failed to find hotel: %w", err)
	}
	return toHotelDomain(&model), nil
}

func (r *GormHotelRepository) List(ctx context.Context, filter hotelDomain.ListFilter, page, limit int) ([]*hotelDomain.Hotel, int64, error) {
	q := r.db.WithContext(ctx).Model(&HotelModel{})
	if filter.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", filter.City)
	}
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Approval != nil {
		q = q.Where("approval = ?", string(*filter.Approval))
	}
	if !filter.IncludeArchived {
		q = q.Where("archived = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count hotels: %w", err)
	}

	var models []HotelModel
	if err := q.Order("rating DESC, created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list hotels: %w", err)
	}

	hotels := make([]*hotelDomain.Hotel, len(models))
	for i := range models {
		hotels[i] = toHotelDomain(&models[i])
	}
	return hotels, total, nil
}

func (r *GormHotelRepository) IDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&HotelModel{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list owner hotels: %w", err)
	}
	return ids, nil
}

func (r *GormHotelRepository) Save(ctx context.Context, h *hotelDomain.Hotel) error {
	if err := r.db.WithContext(ctx).Create(toHotelModel(h)).Error; err != nil {
		return fmt.Errorf("failed to save hotel: %w", err)
	}
	return nil
}

// Update persists changes with optimistic locking. Rating columns are owned by
// the review transaction and are not written here.
func (r *GormHotelRepository) Update(ctx context.Context, h *hotelDomain.Hotel) error {
	m := toHotelModel(h)
	result := r.db.WithContext(ctx).
		Model(&HotelModel{}).
		Where("id = ? AND version = ?", m.ID, h.Version()-1).
		Updates(map[string]interface{}{
			"name":             m.Name,
			"description":      m.Description,
			"city":             m.City,
			"state":            m.State,
			"address":          m.Address,
			"price_range":      m.PriceRange,
			"images":           mustJSON(m.Images),
			"approval":         m.Approval,
			"rejection_reason": m.RejectionReason,
			"archived":         m.Archived,
			"version":          m.Version,
			"updated_at":       m.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update hotel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("hotel was modified by another transaction")
	}
	return nil
}

func (r *GormHotelRepository) FindRoomType(ctx context.Context, id uuid.UUID) (*hotelDomain.RoomType, error) {
	var model RoomTypeModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("RoomType", id.String())
		}
		return nil, fmt.Errorf("failed to find room type: %w", err)
	}
	return toRoomTypeDomain(&model), nil
}

func (r *GormHotelRepository) ListRoomTypes(ctx context.Context, hotelID uuid.UUID, includeArchived bool) ([]*hotelDomain.RoomType, error) {
	q := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	var models []RoomTypeModel
	if err := q.Order("price_per_night_cents ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	out := make([]*hotelDomain.RoomType, len(models))
	for i := range models {
		out[i] = toRoomTypeDomain(&models[i])
	}
	return out, nil
}

func (r *GormHotelRepository) SaveRoomType(ctx context.Context, rt *hotelDomain.RoomType) error {
	if err := r.db.WithContext(ctx).Create(toRoomTypeModel(rt)).Error; err != nil {
		return fmt.Errorf("failed to save room type: %w", err)
	}
	return nil
}

func (r *GormHotelRepository) UpdateRoomType(ctx context.Context, rt *hotelDomain.RoomType) error {
	m := toRoomTypeModel(rt)
	result := r.db.WithContext(ctx).Model(&RoomTypeModel{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"name":                  m.Name,
			"price_per_night_cents": m.PricePerNightCents,
			"capacity":              m.Capacity,
			"total_rooms":           m.TotalRooms,
			"archived":              m.Archived,
			"updated_at":            m.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update room type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("RoomType", m.ID.String())
	}
	return nil
}

// ResolveRoomType returns the bookable view of a room type. Unknown ids,
// archived rows, unapproved hotels and mismatched pairs are all NotFound.
func (r *GormHotelRepository) ResolveRoomType(ctx context.Context, hotelID, roomTypeID uuid.UUID) (*bookingDomain.RoomTypeRef, error) {
	var h HotelModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND archived = ? AND approval = ?", hotelID, false, string(hotelDomain.ApprovalApproved)).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Hotel", hotelID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hotel: %w", err)
	}

	var rt RoomTypeModel
	err = r.db.WithContext(ctx).
		Where("id = ? AND hotel_id = ? AND archived = ?", roomTypeID, hotelID, false).
		First(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("RoomType", roomTypeID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve room type: %w", err)
	}

	return &bookingDomain.RoomTypeRef{
		HotelID:            h.ID,
		HotelName:          h.Name,
		OwnerID:            h.OwnerID,
		RoomTypeID:         rt.ID,
		RoomTypeName:       rt.Name,
		PricePerNightCents: rt.PricePerNightCents,
		Capacity:           rt.Capacity,
		TotalRooms:         rt.TotalRooms,
	}, nil
}

// --- Conversion Helpers ---

func toHotelModel(h *hotelDomain.Hotel) *HotelModel {
	d := h.Details()
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return &HotelModel{
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
		Version:         h.Version(),
		CreatedAt:       h.CreatedAt(),
		UpdatedAt:       h.UpdatedAt(),
	}
}

func toHotelDomain(m *HotelModel) *hotelDomain.Hotel {
	return hotelDomain.Reconstruct(
		m.ID, m.OwnerID,
		hotelDomain.Details{
			Name:        m.Name,
			Description: m.Description,
			City:        m.City,
			State:       m.State,
			Address:     m.Address,
			PriceRange:  m.PriceRange,
			Images:      m.Images,
		},
		m.Rating, m.RatingCount,
		hotelDomain.ApprovalStatus(m.Approval), m.RejectionReason,
		m.Archived, m.Version, m.CreatedAt, m.UpdatedAt,
	)
}

func toRoomTypeModel(rt *hotelDomain.RoomType) *RoomTypeModel {
	s := rt.Spec()
	return &RoomTypeModel{
		ID:                 rt.ID(),
		HotelID:            rt.HotelID(),
		Name:               s.Name,
		PricePerNightCents: s.PricePerNightCents,
		Capacity:           s.Capacity,
		TotalRooms:         s.TotalRooms,
		Archived:           rt.Archived(),
		CreatedAt:          rt.CreatedAt(),
		UpdatedAt:          rt.UpdatedAt(),
	}
}

func toRoomTypeDomain(m *RoomTypeModel) *hotelDomain.RoomType {
	return hotelDomain.ReconstructRoomType(m.ID, m.HotelID, hotelDomain.RoomSpec{
		Name:               m.Name,
		PricePerNightCents: m.PricePerNightCents,
		Capacity:           m.Capacity,
		TotalRooms:         m.TotalRooms,
	}, m.Archived, m.CreatedAt, m.UpdatedAt)
}
