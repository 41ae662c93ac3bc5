package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// DeleteOrderCommandHandler deletes an order. Deleting needs the same
// permission as editing.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	authorizer Authorizer
}

func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory, authorizer Authorizer) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
	}
}

func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.authorizer.Authorize(ctx, order.ActionDelete, cmd.ActorID(), o); err != nil {
		return err
	}

	if err = orderRepo.Delete(ctx, o.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
