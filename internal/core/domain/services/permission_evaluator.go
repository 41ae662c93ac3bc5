package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// DefaultEditOverduePermission is the capability that lifts the deadline
// restriction on editing and unapproving overdue orders.
const DefaultEditOverduePermission = "edit_overdue_orders"

// GrantFinder looks up the explicit grant of a user on an order. It returns
// an error wrapping errs.ErrObjectNotFound when the user has none.
type GrantFinder interface {
	Find(ctx context.Context, orderID, userID kernel.UUID, module string) (*grant.Grant, error)
}

// CapabilityChecker answers whether a user holds a global, order independent
// capability such as DefaultEditOverduePermission.
type CapabilityChecker interface {
	HasCapability(ctx context.Context, userID kernel.UUID, capability string) (bool, error)
}

// Subject is everything the permission rules look at. It is assembled by
// PermissionEvaluator.Subject and evaluated by Evaluate without further I/O.
type Subject struct {
	UserID         kernel.UUID
	Order          *order.Order
	Grant          grant.Capabilities
	CanEditOverdue bool
	Now            time.Time
}

// Permissions is the full permission matrix of a user on an order.
type Permissions struct {
	View           bool `json:"view"`
	Edit           bool `json:"edit"`
	Approve        bool `json:"approve"`
	Unapprove      bool `json:"unapprove"`
	Ship           bool `json:"ship"`
	RecallShipment bool `json:"recall_shipment"`
	Cancel         bool `json:"cancel"`
	Restore        bool `json:"restore"`
	IsOwner        bool `json:"is_owner"`
}

// Allows maps an action to its entry in the matrix. Delete follows Edit.
// ApproveAndShip is not answered here because it needs a second evaluation
// against the approved order; see PermissionEvaluator.CanApproveAndShip.
func (p Permissions) Allows(action order.Action) bool {
	switch action {
	case order.ActionView:
		return p.View
	case order.ActionEdit, order.ActionDelete:
		return p.Edit
	case order.ActionApprove:
		return p.Approve
	case order.ActionUnapprove:
		return p.Unapprove
	case order.ActionShip:
		return p.Ship
	case order.ActionRecallShipment:
		return p.RecallShipment
	case order.ActionCancel:
		return p.Cancel
	case order.ActionRestore:
		return p.Restore
	default:
		return false
	}
}

// Evaluate applies the permission rules to s. It is pure: the same subject
// always yields the same matrix.
//
// Rules:
//   - view: owner or edit grant
//   - edit: not shipped, not cancelled, deadline rule; owner or edit grant
//   - approve: not approved, not cancelled, not shipped; owner or approve grant
//   - unapprove: approved, not shipped, deadline rule; owner, approve or ship grant
//   - ship: approved, not shipped, not cancelled; ship grant only
//   - recall shipment: shipped; ship grant only
//   - cancel: not cancelled, not shipped; cancel grant
//   - restore: cancelled; cancel grant
//
// The deadline rule denies the action on an order past its deadline unless the
// user holds the edit-overdue capability. Ownership never bypasses the ship,
// recall, cancel or restore rules.
func Evaluate(s Subject) Permissions {
	t := s.Order.Timeline()
	owner := s.Order.IsOwnedBy(s.UserID)
	g := s.Grant
	deadlineBlocked := t.IsPastDeadline(s.Now) && !s.CanEditOverdue

	return Permissions{
		View: owner || g.Edit,
		Edit: !t.IsShipped() && !t.IsCancelled() && !deadlineBlocked &&
			(owner || g.Edit),
		Approve: !t.IsApproved() && !t.IsCancelled() && !t.IsShipped() &&
			(owner || g.Approve),
		Unapprove: t.IsApproved() && !t.IsShipped() && !deadlineBlocked &&
			(owner || g.Approve || g.Ship),
		Ship: t.IsApproved() && !t.IsShipped() && !t.IsCancelled() &&
			g.Ship,
		RecallShipment: t.IsShipped() && g.Ship,
		Cancel:         !t.IsCancelled() && !t.IsShipped() && g.Cancel,
		Restore:        t.IsCancelled() && g.Cancel,
		IsOwner:        owner,
	}
}

// PermissionEvaluatorConfig configures PermissionEvaluator. Empty fields take
// their defaults.
type PermissionEvaluatorConfig struct {
	// Module is the grant namespace consulted, grant.DefaultModule by default.
	Module string

	// EditOverduePermission is the capability asked of the CapabilityChecker
	// for orders past their deadline.
	EditOverduePermission string
}

// PermissionEvaluator answers whether a user may perform an action on an
// order. It combines ownership, the user's explicit grant in the configured
// module and the edit-overdue capability.
//
// Grants are looked up on every call; nothing is cached, so a revoked grant
// takes effect immediately.
//
// Example usage:
//
//	evaluator, _ := services.NewPermissionEvaluator(grantRepo, checker, kernel.SystemClock{}, services.PermissionEvaluatorConfig{})
//	if err := evaluator.Authorize(ctx, order.ActionApprove, userID, o); err != nil {
//	    return err // errs.ErrPermissionDenied
//	}
type PermissionEvaluator struct {
	grants         GrantFinder
	capabilities   CapabilityChecker
	clock          kernel.Clock
	module         string
	editOverdueKey string
}

// NewPermissionEvaluator wires the evaluator. All dependencies are required.
func NewPermissionEvaluator(
	grants GrantFinder,
	capabilities CapabilityChecker,
	clock kernel.Clock,
	cfg PermissionEvaluatorConfig,
) (*PermissionEvaluator, error) {
	if grants == nil {
		return nil, errs.NewValueIsRequiredError("grants")
	}
	if capabilities == nil {
		return nil, errs.NewValueIsRequiredError("capabilities")
	}
	if clock == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}

	module := strings.TrimSpace(cfg.Module)
	if module == "" {
		module = grant.DefaultModule
	}
	key := strings.TrimSpace(cfg.EditOverduePermission)
	if key == "" {
		key = DefaultEditOverduePermission
	}

	return &PermissionEvaluator{
		grants:         grants,
		capabilities:   capabilities,
		clock:          clock,
		module:         module,
		editOverdueKey: key,
	}, nil
}

// Module returns the grant namespace the evaluator consults.
func (e *PermissionEvaluator) Module() string {
	return e.module
}

// Subject loads the user's grant and, for orders past their deadline, the
// edit-overdue capability.
func (e *PermissionEvaluator) Subject(ctx context.Context, userID kernel.UUID, o *order.Order) (Subject, error) {
	if err := o.Validate(); err != nil {
		return Subject{}, err
	}
	if err := userID.Validate(); err != nil {
		return Subject{}, errs.NewValueIsRequiredErrorWithCause("userID", err)
	}

	s := Subject{UserID: userID, Order: o, Now: e.clock.Now()}

	g, err := e.grants.Find(ctx, o.ID(), userID, e.module)
	switch {
	case err == nil:
		s.Grant = g.Capabilities()
	case errors.Is(err, errs.ErrObjectNotFound):
		// no grant, ownership rules only
	default:
		return Subject{}, fmt.Errorf("find grant: %w", err)
	}

	if o.Timeline().IsPastDeadline(s.Now) {
		ok, err := e.capabilities.HasCapability(ctx, userID, e.editOverdueKey)
		if err != nil {
			return Subject{}, fmt.Errorf("check %s capability: %w", e.editOverdueKey, err)
		}
		s.CanEditOverdue = ok
	}

	return s, nil
}

// UserPermissions returns the whole matrix with a single grant lookup.
func (e *PermissionEvaluator) UserPermissions(ctx context.Context, userID kernel.UUID, o *order.Order) (Permissions, error) {
	s, err := e.Subject(ctx, userID, o)
	if err != nil {
		return Permissions{}, err
	}
	return Evaluate(s), nil
}

// Can reports whether userID may perform action on o.
func (e *PermissionEvaluator) Can(ctx context.Context, action order.Action, userID kernel.UUID, o *order.Order) (bool, error) {
	if action == order.ActionApproveAndShip {
		return e.CanApproveAndShip(ctx, userID, o)
	}

	p, err := e.UserPermissions(ctx, userID, o)
	if err != nil {
		return false, err
	}
	return p.Allows(action), nil
}

// CanApproveAndShip requires approve permission on o and ship permission on o
// as it would be once approved. Both are decided before anything changes.
func (e *PermissionEvaluator) CanApproveAndShip(ctx context.Context, userID kernel.UUID, o *order.Order) (bool, error) {
	s, err := e.Subject(ctx, userID, o)
	if err != nil {
		return false, err
	}
	if !Evaluate(s).Approve {
		return false, nil
	}

	approved, err := o.PreviewApproval(userID, s.Now)
	if err != nil {
		return false, nil
	}
	s.Order = approved
	return Evaluate(s).Ship, nil
}

// Authorize returns an errs.PermissionDeniedError naming action when the user
// is not allowed to perform it.
func (e *PermissionEvaluator) Authorize(ctx context.Context, action order.Action, userID kernel.UUID, o *order.Order) error {
	ok, err := e.Can(ctx, action, userID, o)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NewPermissionDeniedError(string(action), userID)
	}
	return nil
}

func (e *PermissionEvaluator) CanView(ctx context.Context, userID kernel.UUID, o *order.Order) (bool, error) {
	return e.Can(ctx, order.ActionView, userID, o)
}

func (e *PermissionEvaluator) CanEdit(ctx context.Context, userID kernel.UUID, o *order.Order) (bool, error) {
	return e.Can(ctx, order.ActionEdit, userID, o)
}

func (e *PermissionEvaluator) CanApprove(ctx context.Context, userID kernel.UUID, o *order.Order) (bool, error) {
	return e.Can(ctx, order.ActionApprove, userID, o)
}

func (e *PermissionEvaluator) CanUnapprove(ctx context.Context, userID kernel.UUID, o *order.Order) (bool, error) {
	return e.Can(ctx, order.ActionUnapprove, userID, o)
}

func (e *PermissionEvaluator) CanShip(ctx context.Context, userID kernel.UUID, o *order.Order) (bool, error) {
	return e.Can(ctx, order.ActionShip, userID, o)
}

func (e *PermissionEvaluator) CanCancel(ctx context.Context, userID kernel.UUID, o *order.Order) (bool, error) {
	return e.Can(ctx, order.ActionCancel, userID, o)
}

func (e *PermissionEvaluator) CanRestore(ctx context.Context, userID kernel.UUID, o *order.Order) (bool, error) {
	return e.Can(ctx, order.ActionRestore, userID, o)
}
