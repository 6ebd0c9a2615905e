// Package events holds the inbound message consumers.
package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/platform/domain"
	"github.com/staybook/service-booking/internal/platform/kafka"
)

// Completer moves overdue confirmed bookings to COMPLETED.
type Completer interface {
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*application.BookingDTO, error)
	CompleteDue(ctx context.Context, limit int) (int, error)
}

// SchedulerEventConsumer listens to scheduler events and completes bookings
// whose check-out has passed.
type SchedulerEventConsumer struct {
	consumer  *kafka.Consumer
	completer Completer
	logger    *zap.Logger
}

// NewSchedulerEventConsumer creates a new SchedulerEventConsumer.
func NewSchedulerEventConsumer(
	brokers []string,
	groupID string,
	completer Completer,
	logger *zap.Logger,
) *SchedulerEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, application.TopicSchedulerEvents, logger)
	return &SchedulerEventConsumer{
		consumer:  consumer,
		completer: completer,
		logger:    logger,
	}
}

// Start begins consuming scheduler events. This blocks until the context is cancelled.
func (c *SchedulerEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *SchedulerEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *SchedulerEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from scheduler topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}
	return c.handle(ctx, cloudEvent)
}

func (c *SchedulerEventConsumer) handle(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	switch cloudEvent.Type {
	case application.EventCheckoutDue:
		return c.handleCheckoutDue(ctx, cloudEvent)
	case application.EventCheckoutSweep:
		return c.handleCheckoutSweep(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled scheduler event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *SchedulerEventConsumer) handleCheckoutDue(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt application.CheckoutDueEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse CheckoutDueEvent data", zap.Error(err))
		return nil
	}

	result, err := c.completer.CompleteBooking(ctx, evt.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.logger.Warn("checkout event for unknown booking",
				zap.String("booking_id", evt.BookingID.String()),
			)
			return nil
		}
		c.logger.Error("failed to complete booking",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("processed checkout event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("status", result.Status),
	)
	return nil
}

func (c *SchedulerEventConsumer) handleCheckoutSweep(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt application.CheckoutSweepEvent
	if len(cloudEvent.Data) > 0 {
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse CheckoutSweepEvent data", zap.Error(err))
			return nil
		}
	}

	n, err := c.completer.CompleteDue(ctx, evt.Limit)
	if err != nil {
		return err
	}
	c.logger.Info("checkout sweep finished", zap.Int("completed", n))
	return nil
}
