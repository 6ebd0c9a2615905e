package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/response"
)

// AdminHandler handles admin requests: booking oversight, hotel moderation,
// owner provisioning and complaint resolution.
type AdminHandler struct {
	bookings   *application.BookingService
	hotels     *application.HotelService
	accounts   *application.AccountService
	complaints *application.ComplaintService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	bookings *application.BookingService,
	hotels *application.HotelService,
	accounts *application.AccountService,
	complaints *application.ComplaintService,
) *AdminHandler {
	return &AdminHandler{bookings: bookings, hotels: hotels, accounts: accounts, complaints: complaints}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/:id/audit", h.AuditTrail)
		admin.GET("/stats/bookings", h.BookingStats)

		admin.GET("/hotels/pending", h.ListPendingHotels)
		admin.POST("/hotels/:id/approve", h.ApproveHotel)
		admin.POST("/hotels/:id/reject", h.RejectHotel)

		admin.POST("/owners", h.CreateOwner)

		admin.GET("/complaints", h.ListComplaints)
		admin.PATCH("/complaints/:id", h.ResolveComplaint)
	}
}

// ListBookings handles GET /api/v1/admin/bookings?status=.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.bookings.ListAllBookings(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// AuditTrail handles GET /api/v1/admin/bookings/:id/audit.
func (h *AdminHandler) AuditTrail(c *gin.Context) {
	bookingID, ok := pathID(c, "id", "Booking")
	if !ok {
		return
	}

	entries, err := h.bookings.GetAuditTrail(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, entries)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ListPendingHotels handles GET /api/v1/admin/hotels/pending.
func (h *AdminHandler) ListPendingHotels(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.hotels.ListPendingHotels(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ApproveHotel handles POST /api/v1/admin/hotels/:id/approve.
func (h *AdminHandler) ApproveHotel(c *gin.Context) {
	hotelID, ok := pathID(c, "id", "Hotel")
	if !ok {
		return
	}

	result, err := h.hotels.ApproveHotel(c.Request.Context(), hotelID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RejectHotel handles POST /api/v1/admin/hotels/:id/reject.
func (h *AdminHandler) RejectHotel(c *gin.Context) {
	hotelID, ok := pathID(c, "id", "Hotel")
	if !ok {
		return
	}

	var req application.RejectHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.RejectHotel(c.Request.Context(), hotelID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateOwner handles POST /api/v1/admin/owners.
func (h *AdminHandler) CreateOwner(c *gin.Context) {
	var req application.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.accounts.CreateOwner(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListComplaints handles GET /api/v1/admin/complaints?status=.
func (h *AdminHandler) ListComplaints(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.complaints.ListComplaints(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ResolveComplaint handles PATCH /api/v1/admin/complaints/:id.
func (h *AdminHandler) ResolveComplaint(c *gin.Context) {
	complaintID, ok := pathID(c, "id", "Complaint")
	if !ok {
		return
	}

	var req application.ResolveComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.complaints.ResolveComplaint(c.Request.Context(), complaintID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
