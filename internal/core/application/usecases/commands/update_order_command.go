package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// UpdateOrderCommand replaces the editable details of an order.
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	edit    order.Edit

	guard guard.ConstructorGuard
}

// NewUpdateOrderCommand validates the identities; edit is validated by the aggregate.
func NewUpdateOrderCommand(orderID, actorID kernel.UUID, edit order.Edit) (UpdateOrderCommand, error) {
	command := UpdateOrderCommand{
		edit:  edit,
		guard: guard.NewConstructorGuard(),
	}

	var result []error
	if err := orderID.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("orderID", err))
	}
	if err := actorID.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("actorID", err))
	}
	if err := errors.Join(result...); err != nil {
		return UpdateOrderCommand{}, err
	}

	command.orderID = orderID
	command.actorID = actorID
	return command, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c UpdateOrderCommand) ActorID() kernel.UUID { return c.actorID }
func (c UpdateOrderCommand) Edit() order.Edit     { return c.edit }
