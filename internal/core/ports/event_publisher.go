package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// EventPublisher delivers order lifecycle events to interested parties.
// It is called only after the transaction that raised the events committed.
type EventPublisher interface {
	Publish(ctx context.Context, events ...order.DomainEvent) error
}
