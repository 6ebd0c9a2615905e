package kafka

import (
	"context"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes one message. Returning an error causes a bounded retry.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

const maxHandlerAttempts = 3

// Consumer reads one topic as part of a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	topic  string
	logger *zap.Logger
}

// NewConsumer creates a group consumer for topic.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        brokers,
			GroupID:        groupID,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			MaxWait:        500 * time.Millisecond,
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		}),
		topic:  topic,
		logger: logger,
	}
}

// Consume blocks, dispatching every message to handler until ctx is cancelled.
// A message whose handler keeps failing is logged and committed so the
// partition does not stall.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return context.Canceled
			}
			return err
		}

		var handleErr error
		for attempt := 1; attempt <= maxHandlerAttempts; attempt++ {
			if handleErr = handler(ctx, msg); handleErr == nil {
				break
			}
			c.logger.Warn("message handler failed",
				zap.String("topic", c.topic),
				zap.Int64("offset", msg.Offset),
				zap.Int("attempt", attempt),
				zap.Error(handleErr),
			)
			select {
			case <-ctx.Done():
				return context.Canceled
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}
		if handleErr != nil {
			c.logger.Error("dropping message after repeated failures",
				zap.String("topic", c.topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(handleErr),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit offset",
				zap.String("topic", c.topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// Close closes the reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
