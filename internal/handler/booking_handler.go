package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/response"
)

// BookingHandler handles HTTP requests for customer booking operations.
type BookingHandler struct {
	service    *application.BookingService
	reviews    *application.ReviewService
	complaints *application.ComplaintService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService, reviews *application.ReviewService, complaints *application.ComplaintService) *BookingHandler {
	return &BookingHandler{service: service, reviews: reviews, complaints: complaints}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	r.GET("/api/v1/availability/hotels/:hotelId/room-types/:roomTypeId", h.CheckAvailability)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(middleware.AuthMiddleware(jwtManager))
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.AmendBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.GET("/:id/invoice", h.GetInvoice)
		bookings.POST("/:id/reviews", h.SubmitReview)
		bookings.POST("/:id/complaints", h.SubmitComplaint)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), identity(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyBookings handles GET /api/v1/bookings.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.GetUserBookings(c.Request.Context(), identity(c), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id", "Booking")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), identity(c), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AmendBooking handles PUT /api/v1/bookings/:id.
func (h *BookingHandler) AmendBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id", "Booking")
	if !ok {
		return
	}

	var req application.AmendBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AmendBooking(c.Request.Context(), identity(c), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel. The body is optional.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id", "Booking")
	if !ok {
		return
	}

	var body application.CancelBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), identity(c), bookingID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetInvoice handles GET /api/v1/bookings/:id/invoice.
func (h *BookingHandler) GetInvoice(c *gin.Context) {
	bookingID, ok := pathID(c, "id", "Booking")
	if !ok {
		return
	}

	result, err := h.service.GetInvoice(c.Request.Context(), identity(c), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SubmitReview handles POST /api/v1/bookings/:id/reviews.
func (h *BookingHandler) SubmitReview(c *gin.Context) {
	bookingID, ok := pathID(c, "id", "Booking")
	if !ok {
		return
	}

	var req application.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.reviews.SubmitReview(c.Request.Context(), identity(c), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// SubmitComplaint handles POST /api/v1/bookings/:id/complaints.
func (h *BookingHandler) SubmitComplaint(c *gin.Context) {
	bookingID, ok := pathID(c, "id", "Booking")
	if !ok {
		return
	}

	var req application.SubmitComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.complaints.SubmitComplaint(c.Request.Context(), identity(c), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// CheckAvailability handles
// GET /api/v1/availability/hotels/:hotelId/room-types/:roomTypeId?checkIn=&checkOut=&rooms=.
// Ids and dates are passed through unparsed so the rules engine reports them.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	rooms, ok := optionalCount(c, "rooms")
	if !ok {
		return
	}

	result, err := h.service.CheckAvailability(c.Request.Context(),
		c.Param("hotelId"), c.Param("roomTypeId"),
		c.Query("checkIn"), c.Query("checkOut"), rooms)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
