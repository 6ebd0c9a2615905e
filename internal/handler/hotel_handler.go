package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/response"
)

// HotelHandler serves the public hotel directory and its reviews.
type HotelHandler struct {
	hotels  *application.HotelService
	reviews *application.ReviewService
}

// NewHotelHandler creates a new HotelHandler.
func NewHotelHandler(hotels *application.HotelService, reviews *application.ReviewService) *HotelHandler {
	return &HotelHandler{hotels: hotels, reviews: reviews}
}

// RegisterRoutes registers the public hotel routes. A token is optional; it
// lets owners and admins see listings that are not public yet.
func (h *HotelHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	hotels := r.Group("/api/v1/hotels")
	hotels.Use(middleware.OptionalAuthMiddleware(jwtManager))
	{
		hotels.GET("", h.ListHotels)
		hotels.GET("/:id", h.GetHotel)
		hotels.GET("/:id/reviews", h.ListReviews)
	}

	authMW := middleware.AuthMiddleware(jwtManager)
	r.GET("/api/v1/reviews/mine", authMW, h.MyReviews)
	r.POST("/api/v1/reviews/:id/helpful", authMW, h.MarkHelpful)
}

// ListHotels handles GET /api/v1/hotels?city=.
func (h *HotelHandler) ListHotels(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.hotels.ListApprovedHotels(c.Request.Context(), c.Query("city"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetHotel handles GET /api/v1/hotels/:id.
func (h *HotelHandler) GetHotel(c *gin.Context) {
	hotelID, ok := pathID(c, "id", "Hotel")
	if !ok {
		return
	}

	result, err := h.hotels.GetHotel(c.Request.Context(), identity(c), hotelID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListReviews handles GET /api/v1/hotels/:id/reviews.
func (h *HotelHandler) ListReviews(c *gin.Context) {
	hotelID, ok := pathID(c, "id", "Hotel")
	if !ok {
		return
	}
	page, limit := parsePagination(c)

	result, err := h.reviews.ListHotelReviews(c.Request.Context(), hotelID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// MyReviews handles GET /api/v1/reviews/mine.
func (h *HotelHandler) MyReviews(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.reviews.ListMyReviews(c.Request.Context(), identity(c), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// MarkHelpful handles POST /api/v1/reviews/:id/helpful.
func (h *HotelHandler) MarkHelpful(c *gin.Context) {
	reviewID, ok := pathID(c, "id", "Review")
	if !ok {
		return
	}

	result, err := h.reviews.MarkHelpful(c.Request.Context(), identity(c), reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
