package http

import (
	"context"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

type transitionFunc func(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error)

// Approve handles POST /api/orders/:id/approve.
func (s *Server) Approve(ctx echo.Context) error {
	return s.transition(ctx, s.handlers.Lifecycle.Approve, "", "Order approved successfully")
}

// Ship handles POST /api/orders/:id/ship.
func (s *Server) Ship(ctx echo.Context) error {
	return s.transition(ctx, s.handlers.Lifecycle.Ship, "", "Order shipped successfully")
}

// ApproveAndShip handles POST /api/orders/:id/approve-and-ship.
func (s *Server) ApproveAndShip(ctx echo.Context) error {
	return s.transition(ctx, s.handlers.Lifecycle.ApproveAndShip, "", "Order approved and shipped successfully")
}

// Unapprove handles POST /api/orders/:id/unapprove.
func (s *Server) Unapprove(ctx echo.Context) error {
	return s.transition(ctx, s.handlers.Lifecycle.Unapprove, "", "Order unapproved successfully")
}

// Cancel handles POST /api/orders/:id/cancel with an optional {"reason": "..."} body.
func (s *Server) Cancel(ctx echo.Context) error {
	var req CancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return s.fail(ctx, err)
	}
	return s.transition(ctx, s.handlers.Lifecycle.Cancel, req.Reason, "Order cancelled successfully")
}

// Restore handles POST /api/orders/:id/restore.
func (s *Server) Restore(ctx echo.Context) error {
	return s.transition(ctx, s.handlers.Lifecycle.Restore, "", "Order restored successfully")
}

// RecallShipment handles POST /api/orders/:id/recall-shipment.
func (s *Server) RecallShipment(ctx echo.Context) error {
	return s.transition(ctx, s.handlers.Lifecycle.RecallShipment, "", "Shipment recalled successfully")
}

func (s *Server) transition(ctx echo.Context, run transitionFunc, reason, message string) error {
	userID, err := actor(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewOrderTransitionCommand(orderID, userID, reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := run(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{Message: message, Data: s.toOrder(o)})
}
