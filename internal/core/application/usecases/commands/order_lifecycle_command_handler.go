package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// OrderLifecycleCommandHandler performs the workflow transitions of an order:
// approve, unapprove, approve and ship, ship, recall shipment, cancel and restore.
//
// Every transition runs in its own unit of work:
//  1. the order row is loaded with GetForUpdate, so concurrent transitions on
//     the same order serialise
//  2. state preconditions are checked (errs.ErrInvalidTransition)
//  3. the acting user is authorized (errs.ErrPermissionDenied)
//  4. the aggregate is mutated and written back in a single update
//  5. the transaction commits and the raised events are published
//
// A failure in steps 1-4 rolls the transaction back and leaves the order
// untouched. Publishing failures are logged; they never undo a committed
// transition.
//
// Example:
//
//	handler := NewOrderLifecycleCommandHandler(uowFactory, evaluator, kernel.SystemClock{}, publisher, nil, logger)
//	cmd, _ := NewOrderTransitionCommand(orderID, userID, "")
//	o, err := handler.Ship(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // e.g. "cannot ship: not yet approved"
//	case errors.Is(err, errs.ErrPermissionDenied):
//	    // user lacks the ship grant
//	}
type OrderLifecycleCommandHandler struct {
	uowFactory OrderUoWFactory
	authorizer Authorizer
	clock      kernel.Clock
	publisher  ports.EventPublisher
	observer   TransitionObserver
	logger     *slog.Logger
}

// NewOrderLifecycleCommandHandler wires the handler. observer may be nil; a
// nil logger falls back to slog.Default.
func NewOrderLifecycleCommandHandler(
	uowFactory OrderUoWFactory,
	authorizer Authorizer,
	clock kernel.Clock,
	publisher ports.EventPublisher,
	observer TransitionObserver,
	logger *slog.Logger,
) OrderLifecycleCommandHandler {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return OrderLifecycleCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		clock:      clock,
		publisher:  publisher,
		observer:   observer,
		logger:     logger.With("component", "order-lifecycle"),
	}
}

// transition describes one lifecycle operation.
type transition struct {
	action order.Action
	check  func(o *order.Order) error
	apply  func(o *order.Order, now time.Time) error
}

// Approve records the approval of a pending order. Fails if already approved.
func (h OrderLifecycleCommandHandler) Approve(ctx context.Context, cmd OrderTransitionCommand) (*order.Order, error) {
	return h.handle(ctx, cmd, transition{
		action: order.ActionApprove,
		check:  (*order.Order).CheckApprove,
		apply: func(o *order.Order, now time.Time) error {
			return o.Approve(cmd.ActorID(), now)
		},
	})
}

// Unapprove clears the approval of an order that is not shipped.
func (h OrderLifecycleCommandHandler) Unapprove(ctx context.Context, cmd OrderTransitionCommand) (*order.Order, error) {
	return h.handle(ctx, cmd, transition{
		action: order.ActionUnapprove,
		check:  (*order.Order).CheckUnapprove,
		apply: func(o *order.Order, _ time.Time) error {
			return o.Unapprove()
		},
	})
}

// ApproveAndShip approves and ships in one write. Both the approve and the
// ship permission are decided before anything changes; the ship permission
// is evaluated against the order as it would look once approved.
func (h OrderLifecycleCommandHandler) ApproveAndShip(ctx context.Context, cmd OrderTransitionCommand) (*order.Order, error) {
	return h.handle(ctx, cmd, transition{
		action: order.ActionApproveAndShip,
		check:  (*order.Order).CheckApproveAndShip,
		apply: func(o *order.Order, now time.Time) error {
			return o.ApproveAndShip(cmd.ActorID(), now)
		},
	})
}

// Ship records the shipment of an approved order.
func (h OrderLifecycleCommandHandler) Ship(ctx context.Context, cmd OrderTransitionCommand) (*order.Order, error) {
	return h.handle(ctx, cmd, transition{
		action: order.ActionShip,
		check:  (*order.Order).CheckShip,
		apply: func(o *order.Order, now time.Time) error {
			return o.Ship(cmd.ActorID(), now)
		},
	})
}

// RecallShipment clears the shipment of a shipped order.
func (h OrderLifecycleCommandHandler) RecallShipment(ctx context.Context, cmd OrderTransitionCommand) (*order.Order, error) {
	return h.handle(ctx, cmd, transition{
		action: order.ActionRecallShipment,
		check:  (*order.Order).CheckRecallShipment,
		apply: func(o *order.Order, _ time.Time) error {
			return o.RecallShipment()
		},
	})
}

// Cancel cancels an order that is neither cancelled nor shipped, recording
// the optional reason of the command.
func (h OrderLifecycleCommandHandler) Cancel(ctx context.Context, cmd OrderTransitionCommand) (*order.Order, error) {
	return h.handle(ctx, cmd, transition{
		action: order.ActionCancel,
		check:  (*order.Order).CheckCancel,
		apply: func(o *order.Order, now time.Time) error {
			return o.Cancel(cmd.ActorID(), cmd.Reason(), now)
		},
	})
}

// Restore reverts the cancellation of an order.
func (h OrderLifecycleCommandHandler) Restore(ctx context.Context, cmd OrderTransitionCommand) (*order.Order, error) {
	return h.handle(ctx, cmd, transition{
		action: order.ActionRestore,
		check:  (*order.Order).CheckRestore,
		apply: func(o *order.Order, _ time.Time) error {
			return o.Restore()
		},
	})
}

func (h OrderLifecycleCommandHandler) handle(
	ctx context.Context,
	cmd OrderTransitionCommand,
	t transition,
) (*order.Order, error) {
	o, events, err := h.execute(ctx, cmd, t)
	h.observer.ObserveTransition(t.action, OutcomeOf(err))
	if err != nil {
		h.logger.DebugContext(ctx, "transition rejected",
			"action", string(t.action),
			"order_id", cmd.OrderID().String(),
			"actor_id", cmd.ActorID().String(),
			"error", err)
		return nil, err
	}

	h.logger.InfoContext(ctx, "transition applied",
		"action", string(t.action),
		"order_id", o.ID().String(),
		"actor_id", cmd.ActorID().String())

	h.publish(ctx, events)
	return o, nil
}

func (h OrderLifecycleCommandHandler) execute(
	ctx context.Context,
	cmd OrderTransitionCommand,
	t transition,
) (*order.Order, []order.DomainEvent, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, nil, err
	}

	if err = t.check(o); err != nil {
		return nil, nil, err
	}

	if err = h.authorizer.Authorize(ctx, t.action, cmd.ActorID(), o); err != nil {
		return nil, nil, err
	}

	if err = t.apply(o, h.clock.Now()); err != nil {
		return nil, nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return o, uow.PullDomainEvents(), nil
}

func (h OrderLifecycleCommandHandler) publish(ctx context.Context, events []order.DomainEvent) {
	if len(events) == 0 || h.publisher == nil {
		return
	}

	if err := h.publisher.Publish(ctx, events...); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish domain events",
			"count", len(events),
			"error", err)
	}
}
