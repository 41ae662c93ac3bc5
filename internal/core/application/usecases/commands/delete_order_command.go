package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrDeleteOrderCommandIsNotConstructed = errors.New(
	"DeleteOrderCommand must be created via NewDeleteOrderCommand constructor",
)

// DeleteOrderCommand removes an order and its grants. It is an administrative
// operation, not a workflow transition.
type DeleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteOrderCommand(orderID, actorID kernel.UUID) (DeleteOrderCommand, error) {
	var result []error
	if err := orderID.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("orderID", err))
	}
	if err := actorID.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("actorID", err))
	}
	if err := errors.Join(result...); err != nil {
		return DeleteOrderCommand{}, err
	}

	return DeleteOrderCommand{
		orderID: orderID,
		actorID: actorID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}

func (c DeleteOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c DeleteOrderCommand) ActorID() kernel.UUID { return c.actorID }
