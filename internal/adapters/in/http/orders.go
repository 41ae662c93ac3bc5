package http

import (
	"errors"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// defaultApproachingDays is the window of GET /api/orders/approaching without ?days.
const defaultApproachingDays = 3

// pendingStatus is the only status filter GET /api/orders accepts.
const pendingStatus = "pending"

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	userID, err := actor(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var req CreateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return s.fail(ctx, err)
	}

	details, err := req.details()
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), userID, details)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, Envelope{Message: "Order created successfully", Data: s.toOrder(o)})
}

// GetOrder handles GET /api/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	userID, err := actor(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderDetailsQuery(orderID, userID)
	if err != nil {
		return s.fail(ctx, err)
	}

	details, err := s.handlers.Details.Details(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{Data: toOrderDetails(details)})
}

// UpdateOrder handles PUT /api/orders/:id.
func (s *Server) UpdateOrder(ctx echo.Context) error {
	userID, err := actor(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}

	var req UpdateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return s.fail(ctx, err)
	}
	edit, err := req.edit()
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderCommand(orderID, userID, edit)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.UpdateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{Message: "Order updated successfully", Data: s.toOrder(o)})
}

// DeleteOrder handles DELETE /api/orders/:id.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	userID, err := actor(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID, userID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.DeleteOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{Message: "Order deleted successfully"})
}

// GetPermissions handles GET /api/orders/:id/permissions.
func (s *Server) GetPermissions(ctx echo.Context) error {
	userID, err := actor(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderPermissionsQuery(orderID, userID)
	if err != nil {
		return s.fail(ctx, err)
	}

	perms, err := s.handlers.Details.Permissions(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{
		Data: Permissions{Permissions: perms.Permissions, ApproveAndShip: perms.ApproveAndShip},
	})
}

// ListOverdueOrders handles GET /api/orders/overdue.
func (s *Server) ListOverdueOrders(ctx echo.Context) error {
	if _, err := actor(ctx); err != nil {
		return s.fail(ctx, err)
	}

	summaries, err := s.handlers.Deadlines.Overdue(ctx.Request().Context(), queries.NewGetOverdueOrdersQuery())
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{Data: toOrderList(summaries)})
}

// ListApproachingOrders handles GET /api/orders/approaching?days=N.
func (s *Server) ListApproachingOrders(ctx echo.Context) error {
	if _, err := actor(ctx); err != nil {
		return s.fail(ctx, err)
	}

	var days *int
	if err := queryParam(ctx, "days", &days); err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetApproachingDeadlineOrdersQueryInDays(kernel.Effective(defaultApproachingDays, days))
	if err != nil {
		return s.fail(ctx, err)
	}

	summaries, err := s.handlers.Deadlines.ApproachingDeadline(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{Data: toOrderList(summaries)})
}

// ListOrders handles GET /api/orders. Exactly one of ?assigned_to, ?status=pending
// or ?product_id selects the orders. The first two are paginated by ?page.
func (s *Server) ListOrders(ctx echo.Context) error {
	if _, err := actor(ctx); err != nil {
		return s.fail(ctx, err)
	}

	var (
		assignedTo *uuid.UUID
		productID  *uuid.UUID
		status     *string
		page       *int
	)
	if err := errors.Join(
		queryParam(ctx, "assigned_to", &assignedTo),
		queryParam(ctx, "product_id", &productID),
		queryParam(ctx, "status", &status),
		queryParam(ctx, "page", &page),
	); err != nil {
		return s.fail(ctx, err)
	}

	filters := 0
	for _, set := range []bool{assignedTo != nil, productID != nil, status != nil} {
		if set {
			filters++
		}
	}
	if filters != 1 {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("filter",
			errors.New("exactly one of assigned_to, status or product_id is required")))
	}

	reqCtx := ctx.Request().Context()
	pageNumber := kernel.Effective(1, page)

	switch {
	case assignedTo != nil:
		userID, err := requiredID("assigned_to", *assignedTo)
		if err != nil {
			return s.fail(ctx, err)
		}
		query, err := queries.NewGetAssignedOrdersQuery(userID, pageNumber)
		if err != nil {
			return s.fail(ctx, err)
		}
		result, err := s.handlers.Lists.Assigned(reqCtx, query)
		if err != nil {
			return s.fail(ctx, err)
		}
		return ctx.JSON(http.StatusOK, toOrderPage(result))

	case status != nil:
		if *status != pendingStatus {
			return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("status",
				errors.New("only "+pendingStatus+" is supported")))
		}
		query, err := queries.NewGetPendingOrdersQuery(pageNumber)
		if err != nil {
			return s.fail(ctx, err)
		}
		result, err := s.handlers.Lists.Pending(reqCtx, query)
		if err != nil {
			return s.fail(ctx, err)
		}
		return ctx.JSON(http.StatusOK, toOrderPage(result))

	default:
		id, err := requiredID("product_id", *productID)
		if err != nil {
			return s.fail(ctx, err)
		}
		query, err := queries.NewGetProductOrdersQuery(id)
		if err != nil {
			return s.fail(ctx, err)
		}
		summaries, err := s.handlers.Lists.ByProduct(reqCtx, query)
		if err != nil {
			return s.fail(ctx, err)
		}
		return ctx.JSON(http.StatusOK, Envelope{Data: toOrderList(summaries)})
	}
}
