// Package response writes the JSON envelope every endpoint returns.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/platform/domain"
)

// ErrorBody is the error part of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the outer shape of every response.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// Meta carries pagination details for list responses.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Success writes a 200 with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 with items and pagination meta.
func Paginated(c *gin.Context, items any, total int64, page, limit int) {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Total: total, Page: page, Limit: limit, TotalPages: pages},
	})
}

// BadRequest writes a 400 for input that failed binding.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Error: &ErrorBody{Code: string(domain.KindValidation), Message: msg},
	})
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{
		Error: &ErrorBody{Code: string(domain.KindUnauthorized), Message: msg},
	})
}

// Forbidden writes a 403.
func Forbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, Envelope{
		Error: &ErrorBody{Code: string(domain.KindForbidden), Message: msg},
	})
}

// Error maps a domain error kind to its HTTP status. Anything untyped is a 500 and its
// message is not leaked.
func Error(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	if kind == "" {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{
			Error: &ErrorBody{Code: "INTERNAL", Message: "internal server error"},
		})
		return
	}
	c.AbortWithStatusJSON(StatusFor(kind), Envelope{
		Error: &ErrorBody{Code: string(kind), Message: err.Error()},
	})
}

// StatusFor returns the HTTP status used for a kind.
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnavailable, domain.KindAlreadyReviewed, domain.KindInvalidTransition, domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalidDate, domain.KindPastDate, domain.KindInvalidRange, domain.KindInvalidGuestCount,
		domain.KindInvalidRating, domain.KindMissingField, domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
