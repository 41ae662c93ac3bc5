package grant

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrGrantIsNotConstructed is returned when a Grant was not created through NewGrant.
var ErrGrantIsNotConstructed = errors.New("grant must be created via NewGrant")

// DefaultModule is the namespace used for order workflow grants.
const DefaultModule = "orders"

// Capabilities are the per-order abilities a grant confers.
type Capabilities struct {
	Approve bool
	Edit    bool
	Ship    bool
	Cancel  bool
}

// None reports whether no capability is set.
func (c Capabilities) None() bool {
	return !c.Approve && !c.Edit && !c.Ship && !c.Cancel
}

// Merge returns the union of both capability sets.
func (c Capabilities) Merge(other Capabilities) Capabilities {
	return Capabilities{
		Approve: c.Approve || other.Approve,
		Edit:    c.Edit || other.Edit,
		Ship:    c.Ship || other.Ship,
		Cancel:  c.Cancel || other.Cancel,
	}
}

// Grant is an explicit per-order permission record for one user inside a
// module namespace. At most one grant exists per (order, user, module).
type Grant struct {
	orderID        kernel.UUID
	userID         kernel.UUID
	module         string
	permissionType string
	capabilities   Capabilities
	guard          guard.ConstructorGuard
}

// NewGrant validates and creates a grant. permissionType is a free text role
// label such as "manager" and may be empty.
func NewGrant(orderID, userID kernel.UUID, module, permissionType string, caps Capabilities) (*Grant, error) {
	g := &Grant{
		permissionType: strings.TrimSpace(permissionType),
		capabilities:   caps,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		g.setOrderID(orderID),
		g.setUserID(userID),
		g.setModule(module),
	); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grant) Validate() error {
	if g == nil {
		return ErrGrantIsNotConstructed
	}
	return g.guard.Validate(ErrGrantIsNotConstructed)
}

func (g *Grant) OrderID() kernel.UUID       { return g.orderID }
func (g *Grant) UserID() kernel.UUID        { return g.userID }
func (g *Grant) Module() string             { return g.module }
func (g *Grant) PermissionType() string     { return g.permissionType }
func (g *Grant) Capabilities() Capabilities { return g.capabilities }
func (g *Grant) CanApprove() bool           { return g.capabilities.Approve }
func (g *Grant) CanEdit() bool              { return g.capabilities.Edit }
func (g *Grant) CanShip() bool              { return g.capabilities.Ship }
func (g *Grant) CanCancel() bool            { return g.capabilities.Cancel }

func (g *Grant) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	g.orderID = id
	return nil
}

func (g *Grant) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("userID", err)
	}
	g.userID = id
	return nil
}

func (g *Grant) setModule(module string) error {
	module = strings.TrimSpace(module)
	if module == "" {
		return errs.NewValueIsRequiredError("module")
	}
	g.module = module
	return nil
}
