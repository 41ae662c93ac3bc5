package http

import (
	"time"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
)

// Error is the body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps successful responses.
type Envelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// PagedEnvelope wraps one page of a paginated listing.
type PagedEnvelope struct {
	Data []OrderListItem `json:"data"`
	Meta PageMeta        `json:"meta"`
}

type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

type CreateOrderRequest struct {
	ProductID  uuid.UUID  `json:"product_id"`
	TemplateID uuid.UUID  `json:"template_id"`
	WorkflowID *uuid.UUID `json:"workflow_id"`
	StoreID    *uuid.UUID `json:"store_id"`
	CustomerID *uuid.UUID `json:"customer_id"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes"`
	Required   *time.Time `json:"dt_required"`
	Deadline   *time.Time `json:"dt_deadline"`
}

type UpdateOrderRequest struct {
	Title      string     `json:"title"`
	Notes      string     `json:"notes"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
	Required   *time.Time `json:"dt_required"`
	Deadline   *time.Time `json:"dt_deadline"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type GrantPermissionRequest struct {
	UserID         uuid.UUID `json:"user_id"`
	Module         *string   `json:"module"`
	PermissionType string    `json:"permission_type"`
	CanApprove     bool      `json:"can_approve"`
	CanEdit        bool      `json:"can_edit"`
	CanShip        bool      `json:"can_ship"`
	CanCancel      bool      `json:"can_cancel"`
}

type CustomWorkflowRequest struct {
	Frequency     string `json:"frequency"`
	CustomAllowed bool   `json:"custom_allowed"`
}

type CapabilityPolicyRequest struct {
	UserID     *uuid.UUID `json:"user_id"`
	Role       string     `json:"role"`
	Capability string     `json:"capability"`
}

type RoleAssignmentRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

type StatusBadge struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// Order is the JSON representation of an order.
type Order struct {
	ID                    string      `json:"id"`
	ProductID             string      `json:"product_id"`
	TemplateID            string      `json:"template_id"`
	WorkflowID            *string     `json:"workflow_id"`
	StoreID               *string     `json:"store_id"`
	CustomerID            *string     `json:"customer_id"`
	AssignedTo            *string     `json:"assigned_to"`
	CreatedBy             *string     `json:"created_by"`
	ApprovedBy            *string     `json:"approved_by"`
	ShippedBy             *string     `json:"shipped_by"`
	CancelledBy           *string     `json:"cancelled_by"`
	Title                 string      `json:"title"`
	Notes                 string      `json:"notes"`
	Created               *time.Time  `json:"dt_created"`
	Required              *time.Time  `json:"dt_required"`
	Deadline              *time.Time  `json:"dt_deadline"`
	Completed             *time.Time  `json:"dt_completed"`
	Approved              *time.Time  `json:"dt_approved"`
	Shipped               *time.Time  `json:"dt_shipped"`
	Cancelled             *time.Time  `json:"dt_cancelled"`
	CancelReason          string      `json:"cancel_reason,omitempty"`
	Status                string      `json:"status"`
	StatusBadge           StatusBadge `json:"status_badge"`
	IsApproachingDeadline bool        `json:"is_approaching_deadline"`
	IsInWarningState      bool        `json:"is_in_warning_state"`
}

// OrderDetails adds workflow information and the caller's permissions.
type OrderDetails struct {
	Order
	WorkflowName         string      `json:"workflow_name"`
	Frequency            string      `json:"frequency"`
	IsRecurring          bool        `json:"is_recurring"`
	ApprovalStyle        string      `json:"approval_style"`
	WarningThresholdDays float64     `json:"warning_threshold_days"`
	Can                  Permissions `json:"can"`
}

type Permissions struct {
	services.Permissions
	ApproveAndShip bool `json:"approve_and_ship"`
}

type OrderListItem struct {
	ID                    string      `json:"id"`
	Title                 string      `json:"title"`
	AssignedTo            *string     `json:"assigned_to"`
	Required              *time.Time  `json:"dt_required"`
	Deadline              *time.Time  `json:"dt_deadline"`
	Status                string      `json:"status"`
	StatusBadge           StatusBadge `json:"status_badge"`
	IsApproachingDeadline bool        `json:"is_approaching_deadline"`
	IsInWarningState      bool        `json:"is_in_warning_state"`
}

type Grant struct {
	OrderID        string `json:"order_id"`
	UserID         string `json:"user_id"`
	Module         string `json:"module"`
	PermissionType string `json:"permission_type"`
	CanApprove     bool   `json:"can_approve"`
	CanEdit        bool   `json:"can_edit"`
	CanShip        bool   `json:"can_ship"`
	CanCancel      bool   `json:"can_cancel"`
}

type Workflow struct {
	ID            string `json:"id"`
	TemplateID    string `json:"template_id"`
	Frequency     string `json:"frequency"`
	CustomAllowed bool   `json:"custom_allowed"`
}

func (r CreateOrderRequest) details() (order.Details, error) {
	var d order.Details
	var err error
	if d.ProductID, err = requiredID("product_id", r.ProductID); err != nil {
		return order.Details{}, err
	}
	if d.TemplateID, err = requiredID("template_id", r.TemplateID); err != nil {
		return order.Details{}, err
	}
	if d.WorkflowID, err = optionalID("workflow_id", r.WorkflowID); err != nil {
		return order.Details{}, err
	}
	if d.StoreID, err = optionalID("store_id", r.StoreID); err != nil {
		return order.Details{}, err
	}
	if d.CustomerID, err = optionalID("customer_id", r.CustomerID); err != nil {
		return order.Details{}, err
	}
	if d.AssignedTo, err = optionalID("assigned_to", r.AssignedTo); err != nil {
		return order.Details{}, err
	}
	d.Title = r.Title
	d.Notes = r.Notes
	d.Required = r.Required
	d.Deadline = r.Deadline
	return d, nil
}

func (r UpdateOrderRequest) edit() (order.Edit, error) {
	assignee, err := optionalID("assigned_to", r.AssignedTo)
	if err != nil {
		return order.Edit{}, err
	}
	return order.Edit{
		Title:      r.Title,
		Notes:      r.Notes,
		AssignedTo: assignee,
		Required:   r.Required,
		Deadline:   r.Deadline,
	}, nil
}

func (r GrantPermissionRequest) capabilities() grant.Capabilities {
	return grant.Capabilities{
		Approve: r.CanApprove,
		Edit:    r.CanEdit,
		Ship:    r.CanShip,
		Cancel:  r.CanCancel,
	}
}

func (r CustomWorkflowRequest) settings() workflow.Settings {
	return workflow.Settings{
		Frequency:     workflow.Frequency(r.Frequency),
		CustomAllowed: r.CustomAllowed,
	}
}

func requiredID(name string, raw uuid.UUID) (kernel.UUID, error) {
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return id, nil
}

func optionalID(name string, raw *uuid.UUID) (*kernel.UUID, error) {
	id, err := kernel.OptionalUUIDFromBytes(raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func badge(s order.Status) StatusBadge {
	b := s.Badge()
	return StatusBadge{Status: b.Status, Label: b.Label, Color: b.Color}
}

func (s *Server) toOrder(o *order.Order) Order {
	now := s.clock.Now()
	tl := o.Timeline()
	status := s.calculator.Calculate(tl, now)

	return Order{
		ID:                    o.ID().String(),
		ProductID:             o.ProductID().String(),
		TemplateID:            o.TemplateID().String(),
		WorkflowID:            idString(o.WorkflowID()),
		StoreID:               idString(o.StoreID()),
		CustomerID:            idString(o.CustomerID()),
		AssignedTo:            idString(o.AssignedTo()),
		CreatedBy:             idString(o.CreatedBy()),
		ApprovedBy:            idString(o.ApprovedBy()),
		ShippedBy:             idString(o.ShippedBy()),
		CancelledBy:           idString(o.CancelledBy()),
		Title:                 o.Title(),
		Notes:                 o.Notes(),
		Created:               tl.Created,
		Required:              tl.Required,
		Deadline:              tl.Deadline,
		Completed:             tl.Completed,
		Approved:              tl.Approved,
		Shipped:               tl.Shipped,
		Cancelled:             tl.Cancelled,
		CancelReason:          o.CancelReason(),
		Status:                status.String(),
		StatusBadge:           badge(status),
		IsApproachingDeadline: s.calculator.IsApproachingDeadline(tl, now),
		IsInWarningState:      s.calculator.IsInWarningState(tl, now),
	}
}

func toOrderDetails(d queries.GetOrderDetailsQueryResponse) OrderDetails {
	tl := d.Timeline
	return OrderDetails{
		Order: Order{
			ID:                    d.ID.String(),
			ProductID:             d.ProductID.String(),
			TemplateID:            d.TemplateID.String(),
			WorkflowID:            idString(d.WorkflowID),
			StoreID:               idString(d.StoreID),
			CustomerID:            idString(d.CustomerID),
			AssignedTo:            idString(d.AssignedTo),
			CreatedBy:             idString(d.CreatedBy),
			ApprovedBy:            idString(d.ApprovedBy),
			ShippedBy:             idString(d.ShippedBy),
			CancelledBy:           idString(d.CancelledBy),
			Title:                 d.Title,
			Notes:                 d.Notes,
			Created:               tl.Created,
			Required:              tl.Required,
			Deadline:              tl.Deadline,
			Completed:             tl.Completed,
			Approved:              tl.Approved,
			Shipped:               tl.Shipped,
			Cancelled:             tl.Cancelled,
			CancelReason:          d.CancelReason,
			Status:                d.Status.String(),
			StatusBadge:           StatusBadge{Status: d.Badge.Status, Label: d.Badge.Label, Color: d.Badge.Color},
			IsApproachingDeadline: d.IsApproachingDeadline,
			IsInWarningState:      d.IsInWarningState,
		},
		WorkflowName:         d.WorkflowName,
		Frequency:            d.Frequency,
		IsRecurring:          d.IsRecurring,
		ApprovalStyle:        string(d.ApprovalStyle),
		WarningThresholdDays: d.WarningThresholdDays,
		Can:                  Permissions{Permissions: d.Permissions, ApproveAndShip: d.CanApproveAndShip},
	}
}

func toOrderList(summaries []queries.OrderSummary) []OrderListItem {
	items := make([]OrderListItem, len(summaries))
	for i, s := range summaries {
		items[i] = OrderListItem{
			ID:                    s.ID.String(),
			Title:                 s.Title,
			AssignedTo:            idString(s.AssignedTo),
			Required:              s.Required,
			Deadline:              s.Deadline,
			Status:                s.Status.String(),
			StatusBadge:           StatusBadge{Status: s.Badge.Status, Label: s.Badge.Label, Color: s.Badge.Color},
			IsApproachingDeadline: s.IsApproachingDeadline,
			IsInWarningState:      s.IsInWarningState,
		}
	}
	return items
}

func toOrderPage(p queries.OrderPage) PagedEnvelope {
	lastPage := 1
	if p.PerPage > 0 && p.Total > 0 {
		lastPage = int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	return PagedEnvelope{
		Data: toOrderList(p.Items),
		Meta: PageMeta{
			CurrentPage: p.Page,
			PerPage:     p.PerPage,
			Total:       p.Total,
			LastPage:    lastPage,
		},
	}
}

func toGrant(g *grant.Grant) Grant {
	return Grant{
		OrderID:        g.OrderID().String(),
		UserID:         g.UserID().String(),
		Module:         g.Module(),
		PermissionType: g.PermissionType(),
		CanApprove:     g.CanApprove(),
		CanEdit:        g.CanEdit(),
		CanShip:        g.CanShip(),
		CanCancel:      g.CanCancel(),
	}
}

func toWorkflow(w *workflow.Workflow) Workflow {
	return Workflow{
		ID:            w.ID().String(),
		TemplateID:    w.TemplateID().String(),
		Frequency:     string(w.Settings().Frequency),
		CustomAllowed: w.Settings().CustomAllowed,
	}
}
