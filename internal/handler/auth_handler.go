package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/response"
)

// AuthHandler handles sign-up, login and the caller's own account.
type AuthHandler struct {
	accounts   *application.AccountService
	complaints *application.ComplaintService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *application.AccountService, complaints *application.ComplaintService) *AuthHandler {
	return &AuthHandler{accounts: accounts, complaints: complaints}
}

// RegisterRoutes registers account routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	a := r.Group("/api/v1/auth")
	{
		a.POST("/register", h.Register)
		a.POST("/login", h.Login)
		a.GET("/me", authMW, h.Me)
		a.PUT("/me", authMW, h.UpdateProfile)
	}

	r.GET("/api/v1/complaints", authMW, h.MyComplaints)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	result, err := h.accounts.Me(c.Request.Context(), identity(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateProfile handles PUT /api/v1/auth/me.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req application.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.accounts.UpdateProfile(c.Request.Context(), identity(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// MyComplaints handles GET /api/v1/complaints.
func (h *AuthHandler) MyComplaints(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.complaints.ListMyComplaints(c.Request.Context(), identity(c), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}
