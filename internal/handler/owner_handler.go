package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/response"
)

// OwnerHandler handles hotel owner requests: listings, room types and the
// bookings of the owner's hotels.
type OwnerHandler struct {
	hotels   *application.HotelService
	bookings *application.BookingService
}

// NewOwnerHandler creates a new OwnerHandler.
func NewOwnerHandler(hotels *application.HotelService, bookings *application.BookingService) *OwnerHandler {
	return &OwnerHandler{hotels: hotels, bookings: bookings}
}

// RegisterRoutes registers all owner routes.
func (h *OwnerHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	owner := r.Group("/api/v1/owner")
	owner.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleOwner))
	{
		owner.POST("/hotels", h.CreateHotel)
		owner.GET("/hotels", h.ListHotels)
		owner.PUT("/hotels/:id", h.UpdateHotel)
		owner.DELETE("/hotels/:id", h.ArchiveHotel)
		owner.POST("/hotels/:id/room-types", h.AddRoomType)
		owner.PUT("/room-types/:id", h.UpdateRoomType)
		owner.DELETE("/room-types/:id", h.ArchiveRoomType)

		owner.GET("/bookings", h.ListBookings)
		owner.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
		owner.GET("/stats", h.Stats)
	}
}

// CreateHotel handles POST /api/v1/owner/hotels.
func (h *OwnerHandler) CreateHotel(c *gin.Context) {
	var req application.HotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.CreateHotel(c.Request.Context(), identity(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListHotels handles GET /api/v1/owner/hotels.
func (h *OwnerHandler) ListHotels(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.hotels.ListOwnerHotels(c.Request.Context(), identity(c), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// UpdateHotel handles PUT /api/v1/owner/hotels/:id.
func (h *OwnerHandler) UpdateHotel(c *gin.Context) {
	hotelID, ok := pathID(c, "id", "Hotel")
	if !ok {
		return
	}

	var req application.HotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.UpdateHotel(c.Request.Context(), identity(c), hotelID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ArchiveHotel handles DELETE /api/v1/owner/hotels/:id.
func (h *OwnerHandler) ArchiveHotel(c *gin.Context) {
	hotelID, ok := pathID(c, "id", "Hotel")
	if !ok {
		return
	}

	if err := h.hotels.ArchiveHotel(c.Request.Context(), identity(c), hotelID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "hotel archived"})
}

// AddRoomType handles POST /api/v1/owner/hotels/:id/room-types.
func (h *OwnerHandler) AddRoomType(c *gin.Context) {
	hotelID, ok := pathID(c, "id", "Hotel")
	if !ok {
		return
	}

	var req application.RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.AddRoomType(c.Request.Context(), identity(c), hotelID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateRoomType handles PUT /api/v1/owner/room-types/:id.
func (h *OwnerHandler) UpdateRoomType(c *gin.Context) {
	roomTypeID, ok := pathID(c, "id", "RoomType")
	if !ok {
		return
	}

	var req application.RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.UpdateRoomType(c.Request.Context(), identity(c), roomTypeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ArchiveRoomType handles DELETE /api/v1/owner/room-types/:id.
func (h *OwnerHandler) ArchiveRoomType(c *gin.Context) {
	roomTypeID, ok := pathID(c, "id", "RoomType")
	if !ok {
		return
	}

	if err := h.hotels.ArchiveRoomType(c.Request.Context(), identity(c), roomTypeID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "room type archived"})
}

// ListBookings handles GET /api/v1/owner/bookings?status=.
func (h *OwnerHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.bookings.GetOwnerBookings(c.Request.Context(), identity(c), c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// UpdateBookingStatus handles PATCH /api/v1/owner/bookings/:id/status.
func (h *OwnerHandler) UpdateBookingStatus(c *gin.Context) {
	bookingID, ok := pathID(c, "id", "Booking")
	if !ok {
		return
	}

	var req application.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.bookings.UpdateBookingStatus(c.Request.Context(), identity(c), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Stats handles GET /api/v1/owner/stats.
func (h *OwnerHandler) Stats(c *gin.Context) {
	result, err := h.bookings.GetOwnerStats(c.Request.Context(), identity(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
