package kafka

import (
	"context"
	"log/slog"

	"orderflow/internal/core/domain/model/order"
)

// LogPublisher stands in for EventPublisher when no broker is configured. It
// only records the events in the log.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "event-log")}
}

func (p *LogPublisher) Publish(ctx context.Context, events ...order.DomainEvent) error {
	for _, e := range events {
		p.logger.InfoContext(ctx, "order event",
			"event", e.Name(),
			"order_id", e.AggregateID().String(),
			"occurred_at", e.OccurredAt())
	}
	return nil
}
