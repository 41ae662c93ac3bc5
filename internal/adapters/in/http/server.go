package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	openapi "orderflow/api"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// HeaderUserID carries the identifier of the acting user. Authentication
// happens in front of this service.
const HeaderUserID = "X-User-ID"

// Handler contracts consumed by the server. The command and query handlers of
// the application layer implement them.
type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}

	OrderUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderCommand) (*order.Order, error)
	}

	OrderDeleter interface {
		Handle(ctx context.Context, cmd commands.DeleteOrderCommand) error
	}

	OrderLifecycle interface {
		Approve(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error)
		Unapprove(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error)
		ApproveAndShip(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error)
		Ship(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error)
		RecallShipment(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error)
		Cancel(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error)
		Restore(ctx context.Context, cmd commands.OrderTransitionCommand) (*order.Order, error)
	}

	GrantManager interface {
		Grant(ctx context.Context, cmd commands.GrantPermissionCommand) (*grant.Grant, error)
		Revoke(ctx context.Context, cmd commands.RevokePermissionsCommand) (bool, error)
	}

	CustomWorkflowCreator interface {
		Handle(ctx context.Context, cmd commands.CreateCustomWorkflowCommand) (*workflow.Workflow, error)
	}

	OrderDetailsReader interface {
		Details(ctx context.Context, query queries.GetOrderDetailsQuery) (queries.GetOrderDetailsQueryResponse, error)
		Permissions(ctx context.Context, query queries.GetOrderPermissionsQuery) (queries.GetOrderPermissionsQueryResponse, error)
	}

	DeadlineReader interface {
		Overdue(ctx context.Context, query queries.GetOverdueOrdersQuery) ([]queries.OrderSummary, error)
		ApproachingDeadline(ctx context.Context, query queries.GetApproachingDeadlineOrdersQuery) ([]queries.OrderSummary, error)
	}

	OrderListReader interface {
		Assigned(ctx context.Context, query queries.GetAssignedOrdersQuery) (queries.OrderPage, error)
		Pending(ctx context.Context, query queries.GetPendingOrdersQuery) (queries.OrderPage, error)
		ByProduct(ctx context.Context, query queries.GetProductOrdersQuery) ([]queries.OrderSummary, error)
	}

	CapabilityManager interface {
		AllowCapability(ctx context.Context, cmd commands.AllowCapabilityCommand) error
		AssignRole(ctx context.Context, cmd commands.AssignRoleCommand) error
	}
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder    OrderCreator
	UpdateOrder    OrderUpdater
	DeleteOrder    OrderDeleter
	Lifecycle      OrderLifecycle
	Grants         GrantManager
	CustomWorkflow CustomWorkflowCreator
	Details        OrderDetailsReader
	Deadlines      DeadlineReader
	Lists          OrderListReader
	Capabilities   CapabilityManager
}

// Server maps HTTP requests onto application use cases.
type Server struct {
	handlers   Handlers
	calculator order.StatusCalculator
	clock      kernel.Clock
	logger     *slog.Logger
}

// NewServer creates the HTTP server. calculator and clock render the status of
// orders returned by write operations.
func NewServer(handlers Handlers, calculator order.StatusCalculator, clock kernel.Clock, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers:   handlers,
		calculator: calculator,
		clock:      clock,
		logger:     logger.With("component", "http"),
	}
}

// Register mounts every route on e. Requests under /api are validated against
// the embedded OpenAPI document before they reach a handler.
func (s *Server) Register(e *echo.Echo) error {
	doc, err := openapi.Load(context.Background())
	if err != nil {
		return err
	}

	e.GET("/health", s.Health)

	api := e.Group("/api", s.validateRequests(doc))
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/overdue", s.ListOverdueOrders)
	api.GET("/orders/approaching", s.ListApproachingOrders)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.PUT("/orders/:id", s.UpdateOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)

	api.POST("/orders/:id/approve", s.Approve)
	api.POST("/orders/:id/ship", s.Ship)
	api.POST("/orders/:id/approve-and-ship", s.ApproveAndShip)
	api.POST("/orders/:id/unapprove", s.Unapprove)
	api.POST("/orders/:id/cancel", s.Cancel)
	api.POST("/orders/:id/restore", s.Restore)
	api.POST("/orders/:id/recall-shipment", s.RecallShipment)

	api.GET("/orders/:id/permissions", s.GetPermissions)
	api.POST("/orders/:id/grants", s.GrantPermission)
	api.DELETE("/orders/:id/grants/:userId", s.RevokePermissions)

	api.POST("/templates/:id/workflows", s.CreateCustomWorkflow)

	api.POST("/capabilities/policies", s.AllowCapability)
	api.POST("/capabilities/roles", s.AssignRole)

	return nil
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// actor reads the acting user from HeaderUserID.
func actor(ctx echo.Context) (kernel.UUID, error) {
	id, err := parseActor(ctx.Request().Header.Get(HeaderUserID))
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return id, nil
}

func parseActor(raw string) (kernel.UUID, error) {
	if raw == "" {
		return kernel.UUID{}, errors.New(HeaderUserID + " header is required")
	}
	id, err := kernel.UUIDFromString(raw)
	if err == nil {
		err = id.Validate()
	}
	if err != nil {
		return kernel.UUID{}, errors.New("invalid " + HeaderUserID + " header")
	}
	return id, nil
}

// pathID binds a UUID path parameter.
func pathID(ctx echo.Context, name string) (kernel.UUID, error) {
	var raw uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &raw, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}

	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// queryParam binds an optional form style query parameter into dest, which
// must point to a pointer. dest is left nil when the parameter is absent.
func queryParam(ctx echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

// fail writes the JSON error body matching err.
func (s *Server) fail(ctx echo.Context, err error) error {
	code, message := s.classify(err)
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err)
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func (s *Server) classify(err error) (int, string) {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}
		return httpErr.Code, http.StatusText(httpErr.Code)
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, errs.ErrPermissionDenied):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, errs.ErrInvalidTransition), errors.Is(err, errs.ErrDuplicateIdentifier):
		return http.StatusConflict, err.Error()
	case errs.IsValidation(err):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
