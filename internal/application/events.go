package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/domain/audit"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/kafka"
)

const eventSource = "service-booking"

// Topics.
const (
	TopicBookingEvents   = "booking.events"
	TopicSchedulerEvents = "scheduler.events"
)

// Event types published on TopicBookingEvents.
const (
	EventBookingCreated    = "booking.created"
	EventBookingConfirmed  = "booking.confirmed"
	EventBookingCancelled  = "booking.cancelled"
	EventBookingAmended    = "booking.amended"
	EventBookingCompleted  = "booking.completed"
	EventReviewSubmitted   = "review.submitted"
	EventComplaintRaised   = "complaint.raised"
	EventCheckoutDue       = "booking.checkout_due"
	EventCheckoutSweep     = "booking.checkout_sweep"
	EventComplaintResolved = "complaint.resolved"
)

// EventPublisher publishes CloudEvents. Satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// AuditPublisher hands audit entries to the audit queue. Satisfied by
// *rabbitmq.Publisher.
type AuditPublisher interface {
	Publish(ctx context.Context, v any) error
}

// BookingEvent is the payload of every booking.* event.
type BookingEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	Reference       string    `json:"reference"`
	UserID          uuid.UUID `json:"user_id"`
	HotelID         uuid.UUID `json:"hotel_id"`
	RoomTypeID      uuid.UUID `json:"room_type_id"`
	Status          string    `json:"status"`
	CheckIn         string    `json:"check_in"`
	CheckOut        string    `json:"check_out"`
	Rooms           int       `json:"rooms"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Currency        string    `json:"currency"`
	ActorID         uuid.UUID `json:"actor_id"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// ReviewSubmittedEvent is published after a review is stored.
type ReviewSubmittedEvent struct {
	ReviewID   uuid.UUID `json:"review_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	HotelID    uuid.UUID `json:"hotel_id"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ComplaintEvent is published when a complaint is raised or resolved.
type ComplaintEvent struct {
	ComplaintID uuid.UUID `json:"complaint_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	HotelID     uuid.UUID `json:"hotel_id"`
	Subject     string    `json:"subject"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// CheckoutDueEvent asks for one booking to be completed.
type CheckoutDueEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
}

// CheckoutSweepEvent asks for every overdue booking to be completed.
type CheckoutSweepEvent struct {
	Limit int `json:"limit,omitempty"`
}

// notifier fans state changes out to the event bus and the audit queue.
// Either sink may be nil. Failures are logged, never returned: the database
// write has already committed.
type notifier struct {
	events EventPublisher
	audit  AuditPublisher
	logger *zap.Logger
}

func (n notifier) publishEvent(ctx context.Context, eventType, subject string, data interface{}) {
	if n.events == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		n.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := n.events.PublishEvent(ctx, TopicBookingEvents, cloudEvent.WithSubject(subject)); err != nil {
		n.logger.Error("failed to publish event",
			zap.String("topic", TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func (n notifier) recordAudit(ctx context.Context, bookingID uuid.UUID, actor auth.Identity, action, from, to string, at time.Time) {
	if n.audit == nil {
		return
	}
	role := string(actor.Role)
	if !actor.IsAuthenticated() {
		role = "system"
	}
	entry := audit.Entry{
		ID:         uuid.New(),
		BookingID:  bookingID,
		ActorID:    actor.UserID,
		ActorRole:  role,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		OccurredAt: at.UTC(),
	}
	if err := n.audit.Publish(ctx, entry); err != nil {
		n.logger.Error("failed to publish audit entry",
			zap.String("booking_id", bookingID.String()),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
