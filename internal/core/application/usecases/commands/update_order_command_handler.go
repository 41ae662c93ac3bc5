package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// UpdateOrderCommandHandler edits order details. Shipped and cancelled orders
// are rejected before authorization; past the deadline only users holding the
// edit-overdue capability may edit.
type UpdateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	authorizer Authorizer
}

func NewUpdateOrderCommandHandler(uowFactory OrderUoWFactory, authorizer Authorizer) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
	}
}

// Handle applies the edit within a transaction and returns the updated order.
func (h UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.CheckEdit(); err != nil {
		return nil, err
	}

	if err = h.authorizer.Authorize(ctx, order.ActionEdit, cmd.ActorID(), o); err != nil {
		return nil, err
	}

	if err = o.UpdateDetails(cmd.Edit()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
