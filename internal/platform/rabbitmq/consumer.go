package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler processes one delivery body. A non-nil error rejects the message
// without requeueing it.
type Handler func(ctx context.Context, body []byte) error

const maxBackoff = 30 * time.Second

// Consumer reads a durable queue, reconnecting with exponential backoff.
type Consumer struct {
	url      string
	queue    string
	prefetch int
	logger   *zap.Logger
}

// NewConsumer creates a consumer for queue.
func NewConsumer(url, queue string, logger *zap.Logger) *Consumer {
	return &Consumer{url: url, queue: queue, prefetch: 50, logger: logger}
}

// Start blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, handler Handler) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return context.Canceled
		}

		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("rabbitmq dial failed",
				zap.String("queue", c.queue),
				zap.Duration("retry_in", backoff),
				zap.Error(err),
			)
			if !sleep(ctx, backoff) {
				return context.Canceled
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn, handler)
		_ = conn.Close()
		if ctx.Err() != nil {
			return context.Canceled
		}
		c.logger.Warn("rabbitmq consume loop ended, reconnecting",
			zap.String("queue", c.queue),
			zap.Error(err),
		)
		if !sleep(ctx, 2*time.Second) {
			return context.Canceled
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection, handler Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.logger.Warn("rabbitmq set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	c.logger.Info("rabbitmq consumer started", zap.String("queue", c.queue))
	for d := range msgs {
		if err := handler(ctx, d.Body); err != nil {
			c.logger.Error("rabbitmq handler failed",
				zap.String("queue", c.queue),
				zap.Error(err),
			)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
