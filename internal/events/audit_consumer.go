package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/domain/audit"
	"github.com/staybook/service-booking/internal/platform/rabbitmq"
)

// AuditConsumer drains the audit queue into the audit_entries table.
type AuditConsumer struct {
	consumer *rabbitmq.Consumer
	repo     audit.Repository
	logger   *zap.Logger
}

// NewAuditConsumer creates a new AuditConsumer for queue.
func NewAuditConsumer(url, queue string, repo audit.Repository, logger *zap.Logger) *AuditConsumer {
	return &AuditConsumer{
		consumer: rabbitmq.NewConsumer(url, queue, logger),
		repo:     repo,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled.
func (c *AuditConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx, c.handle)
}

func (c *AuditConsumer) handle(ctx context.Context, body []byte) error {
	var entry audit.Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		c.logger.Error("failed to parse audit entry",
			zap.Error(err),
			zap.String("raw", string(body)),
		)
		return nil // Don't retry malformed messages
	}
	if entry.ID == uuid.Nil || entry.BookingID == uuid.Nil {
		c.logger.Warn("dropping audit entry without ids")
		return nil
	}

	if err := c.repo.Save(ctx, entry); err != nil {
		return err
	}
	c.logger.Debug("audit entry stored",
		zap.String("booking_id", entry.BookingID.String()),
		zap.String("action", entry.Action),
	)
	return nil
}
