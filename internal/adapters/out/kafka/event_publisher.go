// Package kafka delivers order lifecycle events to a Kafka topic. Every event
// becomes one JSON message keyed by the order identifier, so events of one
// order keep their relative order within a partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"

	kafkago "github.com/segmentio/kafka-go"
)

// HeaderEventName carries the event name so consumers can route without
// decoding the payload.
const HeaderEventName = "event-name"

// MessageWriter is the part of *kafkago.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// NewWriter builds a writer for topic that hashes message keys onto partitions.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// EventPublisher implements ports.EventPublisher on top of a Kafka writer.
type EventPublisher struct {
	writer MessageWriter
	logger *slog.Logger
}

func NewEventPublisher(writer MessageWriter, logger *slog.Logger) *EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{
		writer: writer,
		logger: logger.With("component", "kafka-publisher"),
	}
}

// Publish writes all events in one batch.
func (p *EventPublisher) Publish(ctx context.Context, events ...order.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(events))
	for _, e := range events {
		msg, err := NewMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order events: %w", len(msgs), err)
	}

	p.logger.DebugContext(ctx, "order events published", "count", len(msgs))
	return nil
}

// eventPayload is the JSON body of a message.
type eventPayload struct {
	Event      order.EventName `json:"event"`
	OrderID    string          `json:"order_id"`
	Title      string          `json:"title"`
	ActorID    string          `json:"actor_id"`
	Reason     string          `json:"reason,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewMessage encodes a domain event as a Kafka message.
func NewMessage(e order.DomainEvent) (kafkago.Message, error) {
	payload := eventPayload{
		Event:      e.Name(),
		OrderID:    e.AggregateID().String(),
		OccurredAt: e.OccurredAt().UTC(),
	}

	switch ev := e.(type) {
	case order.ApprovedEvent:
		payload.Title = ev.Title
		payload.ActorID = ev.Approver.String()
	case order.ShippedEvent:
		payload.Title = ev.Title
		payload.ActorID = ev.Shipper.String()
	case order.CancelledEvent:
		payload.Title = ev.Title
		payload.ActorID = ev.Canceller.String()
		payload.Reason = ev.Reason
	default:
		return kafkago.Message{}, fmt.Errorf("unsupported order event %T", e)
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal %s: %w", payload.Event, err)
	}

	return kafkago.Message{
		Key:   []byte(payload.OrderID),
		Value: value,
		Time:  payload.OccurredAt,
		Headers: []kafkago.Header{
			{Key: HeaderEventName, Value: []byte(payload.Event)},
		},
	}, nil
}
