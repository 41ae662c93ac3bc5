package commands

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ManageCapabilitiesPermission is the global capability required to change
// the capability policy itself.
const ManageCapabilitiesPermission = "manage_capabilities"

type (
	// CapabilityChecker answers global capability questions.
	CapabilityChecker interface {
		HasCapability(ctx context.Context, userID kernel.UUID, capability string) (bool, error)
	}

	// CapabilityPolicy stores global capabilities and role memberships.
	CapabilityPolicy interface {
		CapabilityChecker
		Allow(ctx context.Context, userID kernel.UUID, capability string) error
		AllowRole(ctx context.Context, role, capability string) error
		AssignRole(ctx context.Context, userID kernel.UUID, role string) error
	}
)

// ManageCapabilitiesCommandHandler edits the global capability policy on
// behalf of users holding ManageCapabilitiesPermission.
type ManageCapabilitiesCommandHandler struct {
	policy CapabilityPolicy
}

func NewManageCapabilitiesCommandHandler(policy CapabilityPolicy) ManageCapabilitiesCommandHandler {
	return ManageCapabilitiesCommandHandler{policy: policy}
}

// AllowCapability grants the capability to the user or role named in cmd.
func (h ManageCapabilitiesCommandHandler) AllowCapability(ctx context.Context, cmd AllowCapabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.authorize(ctx, cmd.ActorID()); err != nil {
		return err
	}

	if userID := cmd.UserID(); userID != nil {
		return h.policy.Allow(ctx, *userID, cmd.Capability())
	}
	return h.policy.AllowRole(ctx, cmd.Role(), cmd.Capability())
}

// AssignRole adds the user to the role.
func (h ManageCapabilitiesCommandHandler) AssignRole(ctx context.Context, cmd AssignRoleCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.authorize(ctx, cmd.ActorID()); err != nil {
		return err
	}

	return h.policy.AssignRole(ctx, cmd.UserID(), cmd.Role())
}

func (h ManageCapabilitiesCommandHandler) authorize(ctx context.Context, actorID kernel.UUID) error {
	ok, err := h.policy.HasCapability(ctx, actorID, ManageCapabilitiesPermission)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %s may not manage capabilities", errs.ErrPermissionDenied, actorID)
	}
	return nil
}
