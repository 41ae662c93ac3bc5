package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// DeadlineQueryHandler answers the deadline oriented list queries.
type DeadlineQueryHandler struct {
	orders     OrderLister
	calculator order.StatusCalculator
	clock      kernel.Clock
}

func NewDeadlineQueryHandler(orders OrderLister, calculator order.StatusCalculator, clock kernel.Clock) DeadlineQueryHandler {
	return DeadlineQueryHandler{
		orders:     orders,
		calculator: calculator,
		clock:      clock,
	}
}

// Overdue returns the overdue orders, earliest deadline first.
func (h DeadlineQueryHandler) Overdue(ctx context.Context, query GetOverdueOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	orders, err := h.orders.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	return summarizeAll(h.calculator, orders, now), nil
}

// ApproachingDeadline returns open orders required within the query window,
// earliest required date first.
func (h DeadlineQueryHandler) ApproachingDeadline(
	ctx context.Context,
	query GetApproachingDeadlineOrdersQuery,
) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	orders, err := h.orders.ListApproachingDeadline(ctx, now, query.Within())
	if err != nil {
		return nil, err
	}
	return summarizeAll(h.calculator, orders, now), nil
}
