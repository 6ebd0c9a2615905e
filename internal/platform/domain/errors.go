// Package domain holds the error taxonomy and small value types shared by every aggregate.
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a rejection independently of the transport that reports it.
type Kind string

const (
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindForbidden         Kind = "FORBIDDEN"
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidDate       Kind = "INVALID_DATE"
	KindPastDate          Kind = "PAST_DATE"
	KindInvalidRange      Kind = "INVALID_RANGE"
	KindInvalidGuestCount Kind = "INVALID_GUEST_COUNT"
	KindUnavailable       Kind = "UNAVAILABLE"
	KindInvalidRating     Kind = "INVALID_RATING"
	KindMissingField      Kind = "MISSING_FIELD"
	KindAlreadyReviewed   Kind = "ALREADY_REVIEWED"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindValidation        Kind = "VALIDATION"
	KindConflict          Kind = "CONFLICT"
)

// Error is a typed, per-request rejection. None of them are fatal to the process.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is a sentinel of the same kind. Sentinels carry no message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is matching.
var (
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidDate       = &Error{Kind: KindInvalidDate}
	ErrPastDate          = &Error{Kind: KindPastDate}
	ErrInvalidRange      = &Error{Kind: KindInvalidRange}
	ErrInvalidGuestCount = &Error{Kind: KindInvalidGuestCount}
	ErrUnavailable       = &Error{Kind: KindUnavailable}
	ErrInvalidRating     = &Error{Kind: KindInvalidRating}
	ErrMissingField      = &Error{Kind: KindMissingField}
	ErrAlreadyReviewed   = &Error{Kind: KindAlreadyReviewed}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrConflict          = &Error{Kind: KindConflict}
)

// NewError builds an error of the given kind.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError reports malformed input that has no more specific kind.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewNotFoundError reports an unknown entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewUnauthorizedError reports a missing or invalid identity.
func NewUnauthorizedError(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// NewForbiddenError reports a role or ownership mismatch.
func NewForbiddenError(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NewConflictError reports a lost optimistic-locking or serialization race.
func NewConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NewInvalidStateError reports a state machine guard violation.
func NewInvalidStateError(from, to string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// KindOf extracts the kind of a domain error, or "" for infrastructure errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
