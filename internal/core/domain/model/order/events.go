package order

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

// EventName identifies the kind of a lifecycle event on the wire.
type EventName string

const (
	EventOrderApproved  EventName = "OrderApproved"
	EventOrderShipped   EventName = "OrderShipped"
	EventOrderCancelled EventName = "OrderCancelled"
)

// DomainEvent is recorded by the aggregate during a transition and published
// after the transaction commits.
type DomainEvent interface {
	Name() EventName
	AggregateID() kernel.UUID
	OccurredAt() time.Time
}

// ApprovedEvent signals that Approver approved the order.
type ApprovedEvent struct {
	OrderID  kernel.UUID
	Title    string
	Approver kernel.UUID
	At       time.Time
}

func (e ApprovedEvent) Name() EventName          { return EventOrderApproved }
func (e ApprovedEvent) AggregateID() kernel.UUID { return e.OrderID }
func (e ApprovedEvent) OccurredAt() time.Time    { return e.At }

// ShippedEvent signals that Shipper shipped the order.
type ShippedEvent struct {
	OrderID kernel.UUID
	Title   string
	Shipper kernel.UUID
	At      time.Time
}

func (e ShippedEvent) Name() EventName          { return EventOrderShipped }
func (e ShippedEvent) AggregateID() kernel.UUID { return e.OrderID }
func (e ShippedEvent) OccurredAt() time.Time    { return e.At }

// CancelledEvent signals that Canceller cancelled the order. Reason may be empty.
type CancelledEvent struct {
	OrderID   kernel.UUID
	Title     string
	Canceller kernel.UUID
	Reason    string
	At        time.Time
}

func (e CancelledEvent) Name() EventName          { return EventOrderCancelled }
func (e CancelledEvent) AggregateID() kernel.UUID { return e.OrderID }
func (e CancelledEvent) OccurredAt() time.Time    { return e.At }
