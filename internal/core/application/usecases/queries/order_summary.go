package queries

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderSummary is the list read model of an order.
type OrderSummary struct {
	ID                    kernel.UUID
	Title                 string
	AssignedTo            *kernel.UUID
	Status                order.Status
	Badge                 order.Badge
	Required              *time.Time
	Deadline              *time.Time
	IsApproachingDeadline bool
	IsInWarningState      bool
}

func summarize(calc order.StatusCalculator, o *order.Order, now time.Time) OrderSummary {
	tl := o.Timeline()
	status := calc.Calculate(tl, now)
	return OrderSummary{
		ID:                    o.ID(),
		Title:                 o.Title(),
		AssignedTo:            o.AssignedTo(),
		Status:                status,
		Badge:                 status.Badge(),
		Required:              tl.Required,
		Deadline:              tl.Deadline,
		IsApproachingDeadline: calc.IsApproachingDeadline(tl, now),
		IsInWarningState:      calc.IsInWarningState(tl, now),
	}
}

func summarizeAll(calc order.StatusCalculator, orders []*order.Order, now time.Time) []OrderSummary {
	result := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		result = append(result, summarize(calc, o, now))
	}
	return result
}
