// Package handler exposes the application services over gin.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	complaintDomain "github.com/staybook/service-booking/internal/domain/complaint"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/domain"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/response"
)

// RegisterValidators adds the custom binding tags used by request DTOs.
// Call it once before serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("complaint_subject", func(fl validator.FieldLevel) bool {
		return complaintDomain.Subject(fl.Field().String()).IsValid()
	})
}

// identity returns the caller, or the zero identity for anonymous requests.
// Services decide whether anonymous is acceptable.
func identity(c *gin.Context) auth.Identity {
	id, _ := middleware.GetIdentity(c)
	return id
}

// pathID parses a uuid path parameter. A malformed id names nothing, so it is
// reported as NotFound.
func pathID(c *gin.Context, param, entity string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(c, domain.NewNotFoundError(entity, raw))
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}

// optionalCount parses an optional numeric query parameter. Fractions are kept
// so the rules engine can reject them with its own error.
func optionalCount(c *gin.Context, name string) (*float64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.Error(c, domain.NewError(domain.KindInvalidGuestCount, "%s must be a number", name))
		return nil, false
	}
	return &f, true
}
