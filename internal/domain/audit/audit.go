// Package audit records who moved a booking through which transition.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names.
const (
	ActionCreated   = "CREATED"
	ActionConfirmed = "CONFIRMED"
	ActionCancelled = "CANCELLED"
	ActionCompleted = "COMPLETED"
	ActionAmended   = "AMENDED"
	ActionReviewed  = "REVIEWED"
	ActionComplaint = "COMPLAINT"
)

// Entry is one audit record. ActorID is uuid.Nil for system transitions.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Repository stores entries consumed from the audit queue.
type Repository interface {
	// Save is idempotent on Entry.ID so redelivered messages are harmless.
	Save(ctx context.Context, entry Entry) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Entry, error)
}
