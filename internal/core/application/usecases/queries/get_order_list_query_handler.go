package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderPage is one page of a paginated order listing.
type OrderPage struct {
	Items   []OrderSummary
	Page    int
	PerPage int
	Total   int64
}

// OrderListQueryHandler answers the assignee, pending and product listings.
type OrderListQueryHandler struct {
	orders     OrderBrowser
	calculator order.StatusCalculator
	clock      kernel.Clock
}

func NewOrderListQueryHandler(orders OrderBrowser, calculator order.StatusCalculator, clock kernel.Clock) OrderListQueryHandler {
	return OrderListQueryHandler{
		orders:     orders,
		calculator: calculator,
		clock:      clock,
	}
}

// Assigned returns a page of the orders assigned to the query's user.
func (h OrderListQueryHandler) Assigned(ctx context.Context, query GetAssignedOrdersQuery) (OrderPage, error) {
	if err := query.Validate(); err != nil {
		return OrderPage{}, err
	}

	orders, total, err := h.orders.ListAssignedTo(ctx, query.UserID(), query.Page())
	if err != nil {
		return OrderPage{}, err
	}
	return OrderPage{
		Items:   summarizeAll(h.calculator, orders, h.clock.Now()),
		Page:    query.Page().Number,
		PerPage: query.Page().Size,
		Total:   total,
	}, nil
}

// Pending returns a page of orders nobody has approved, shipped or cancelled.
func (h OrderListQueryHandler) Pending(ctx context.Context, query GetPendingOrdersQuery) (OrderPage, error) {
	if err := query.Validate(); err != nil {
		return OrderPage{}, err
	}

	orders, total, err := h.orders.ListPending(ctx, query.Page())
	if err != nil {
		return OrderPage{}, err
	}
	return OrderPage{
		Items:   summarizeAll(h.calculator, orders, h.clock.Now()),
		Page:    query.Page().Number,
		PerPage: query.Page().Size,
		Total:   total,
	}, nil
}

// ByProduct returns all orders of a product, newest first.
func (h OrderListQueryHandler) ByProduct(ctx context.Context, query GetProductOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.ListByProduct(ctx, query.ProductID())
	if err != nil {
		return nil, err
	}
	return summarizeAll(h.calculator, orders, h.clock.Now()), nil
}
