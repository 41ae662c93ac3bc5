package commands

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrOrderTransitionCommandIsNotConstructed = errors.New(
	"OrderTransitionCommand must be created via NewOrderTransitionCommand constructor",
)

// OrderTransitionCommand asks for one lifecycle transition of an order on
// behalf of an acting user. The same command serves every transition of
// OrderLifecycleCommandHandler; Reason is only read by Cancel.
//
// Example:
//
//	cmd, err := NewOrderTransitionCommand(orderID, userID, "")
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Approve(ctx, cmd)
type OrderTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewOrderTransitionCommand validates the order and actor identifiers.
func NewOrderTransitionCommand(orderID, actorID kernel.UUID, reason string) (OrderTransitionCommand, error) {
	command := OrderTransitionCommand{
		reason: strings.TrimSpace(reason),
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setActorID(actorID),
	); err != nil {
		return OrderTransitionCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c OrderTransitionCommand) Validate() error {
	return c.guard.Validate(ErrOrderTransitionCommandIsNotConstructed)
}

func (c OrderTransitionCommand) OrderID() kernel.UUID { return c.orderID }
func (c OrderTransitionCommand) ActorID() kernel.UUID { return c.actorID }
func (c OrderTransitionCommand) Reason() string       { return c.reason }

func (c *OrderTransitionCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	c.orderID = id
	return nil
}

func (c *OrderTransitionCommand) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actorID", err)
	}
	c.actorID = id
	return nil
}
