package queries

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"
)

// GetOrderDetailsQueryResponse is the detail read model of an order.
type GetOrderDetailsQueryResponse struct {
	OrderSummary

	ProductID    kernel.UUID
	TemplateID   kernel.UUID
	WorkflowID   *kernel.UUID
	StoreID      *kernel.UUID
	CustomerID   *kernel.UUID
	CreatedBy    *kernel.UUID
	ApprovedBy   *kernel.UUID
	ShippedBy    *kernel.UUID
	CancelledBy  *kernel.UUID
	Notes        string
	CancelReason string
	Timeline     order.Timeline

	WorkflowName         string
	Frequency            string
	IsRecurring          bool
	ApprovalStyle        workflow.ApprovalStyle
	Permissions          services.Permissions
	CanApproveAndShip    bool
	WarningThresholdDays float64
}

// GetOrderPermissionsQueryResponse is the permission matrix of the caller.
type GetOrderPermissionsQueryResponse struct {
	services.Permissions
	ApproveAndShip bool
}

// OrderDetailsQueryHandler builds order detail and permission read models.
// Orders the caller may not view are reported as errs.PermissionDeniedError.
// Missing templates, workflows, stores or companies degrade to defaults
// instead of failing the read.
//
// Example:
//
//	handler := NewOrderDetailsQueryHandler(orderRepo, workflowRepo, evaluator, calculator, clock)
//	query, _ := NewGetOrderDetailsQuery(orderID, userID)
//	details, err := handler.Details(ctx, query)
//	fmt.Println(details.Badge.Label, details.Frequency, details.Permissions.Ship)
type OrderDetailsQueryHandler struct {
	orders      OrderReader
	workflows   WorkflowReader
	permissions PermissionReader
	calculator  order.StatusCalculator
	resolver    services.WorkflowResolver
	clock       kernel.Clock
}

func NewOrderDetailsQueryHandler(
	orders OrderReader,
	workflows WorkflowReader,
	permissions PermissionReader,
	calculator order.StatusCalculator,
	clock kernel.Clock,
) OrderDetailsQueryHandler {
	return OrderDetailsQueryHandler{
		orders:      orders,
		workflows:   workflows,
		permissions: permissions,
		calculator:  calculator,
		resolver:    services.NewWorkflowResolver(),
		clock:       clock,
	}
}

// Details returns the order with its derived status, workflow description
// and the permission matrix of the caller.
func (h OrderDetailsQueryHandler) Details(
	ctx context.Context,
	query GetOrderDetailsQuery,
) (GetOrderDetailsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	o, perms, err := h.load(ctx, query.OrderID(), query.UserID())
	if err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	approveAndShip, err := h.permissions.CanApproveAndShip(ctx, query.UserID(), o)
	if err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	template, err := optional(h.workflows.GetTemplate(ctx, o.TemplateID()))
	if err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	var wf *workflow.Workflow
	if o.WorkflowID() != nil {
		if wf, err = optional(h.workflows.GetWorkflow(ctx, *o.WorkflowID())); err != nil {
			return GetOrderDetailsQueryResponse{}, err
		}
	}

	style, err := h.approvalStyle(ctx, template)
	if err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	now := h.clock.Now()
	response := GetOrderDetailsQueryResponse{
		OrderSummary:         summarize(h.calculator, o, now),
		ProductID:            o.ProductID(),
		TemplateID:           o.TemplateID(),
		WorkflowID:           o.WorkflowID(),
		StoreID:              o.StoreID(),
		CustomerID:           o.CustomerID(),
		CreatedBy:            o.CreatedBy(),
		ApprovedBy:           o.ApprovedBy(),
		ShippedBy:            o.ShippedBy(),
		CancelledBy:          o.CancelledBy(),
		Notes:                o.Notes(),
		CancelReason:         o.CancelReason(),
		Timeline:             o.Timeline(),
		Frequency:            workflow.OneTimeLabel,
		ApprovalStyle:        style,
		Permissions:          perms,
		CanApproveAndShip:    approveAndShip,
		WarningThresholdDays: h.calculator.WarningThreshold().Hours() / 24,
	}
	if template != nil {
		response.WorkflowName = template.WorkflowName()
		response.Frequency = h.resolver.FrequencyDescription(wf, template)
		response.IsRecurring = h.resolver.IsRecurring(wf, template)
	}

	return response, nil
}

// Permissions returns the permission matrix of the caller. Unlike Details it
// does not require view permission: a stranger simply gets an empty matrix.
func (h OrderDetailsQueryHandler) Permissions(
	ctx context.Context,
	query GetOrderPermissionsQuery,
) (GetOrderPermissionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderPermissionsQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderPermissionsQueryResponse{}, err
	}

	perms, err := h.permissions.UserPermissions(ctx, query.UserID(), o)
	if err != nil {
		return GetOrderPermissionsQueryResponse{}, err
	}

	approveAndShip, err := h.permissions.CanApproveAndShip(ctx, query.UserID(), o)
	if err != nil {
		return GetOrderPermissionsQueryResponse{}, err
	}

	return GetOrderPermissionsQueryResponse{Permissions: perms, ApproveAndShip: approveAndShip}, nil
}

func (h OrderDetailsQueryHandler) load(
	ctx context.Context,
	orderID, userID kernel.UUID,
) (*order.Order, services.Permissions, error) {
	o, err := h.orders.Get(ctx, orderID)
	if err != nil {
		return nil, services.Permissions{}, err
	}

	perms, err := h.permissions.UserPermissions(ctx, userID, o)
	if err != nil {
		return nil, services.Permissions{}, err
	}
	if !perms.View {
		return nil, services.Permissions{}, errs.NewPermissionDeniedError(string(order.ActionView), userID)
	}

	return o, perms, nil
}

func (h OrderDetailsQueryHandler) approvalStyle(
	ctx context.Context,
	template *workflow.Template,
) (workflow.ApprovalStyle, error) {
	if template == nil {
		return workflow.DefaultApprovalStyle, nil
	}

	var store *workflow.Store
	if template.StoreID() != nil {
		s, err := optional(h.workflows.GetStore(ctx, *template.StoreID()))
		if err != nil {
			return "", err
		}
		store = s
	}

	company, err := optional(h.workflows.GetCompany(ctx, template.CompanyID()))
	if err != nil {
		return "", err
	}

	return h.resolver.ApprovalStyle(template, store, company), nil
}

// optional turns a not found lookup into a nil result.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return v, err
}
