package commands

import (
	"errors"
	"slices"
	"strings"

	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGrantPermissionCommandIsNotConstructed = errors.New(
		"GrantPermissionCommand must be created via NewGrantPermissionCommand constructor",
	)
	ErrRevokePermissionsCommandIsNotConstructed = errors.New(
		"RevokePermissionsCommand must be created via NewRevokePermissionsCommand constructor",
	)
)

// GrantPermissionCommand gives a user explicit capabilities on an order.
// An existing grant with the same (order, user, module) is replaced.
type GrantPermissionCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	actorID        kernel.UUID
	userID         kernel.UUID
	module         string
	permissionType string
	capabilities   grant.Capabilities

	guard guard.ConstructorGuard
}

func NewGrantPermissionCommand(
	orderID, actorID, userID kernel.UUID,
	module, permissionType string,
	capabilities grant.Capabilities,
) (GrantPermissionCommand, error) {
	module = strings.TrimSpace(module)

	var result []error
	result = append(result, requireIDs(map[string]kernel.UUID{
		"orderID": orderID,
		"actorID": actorID,
		"userID":  userID,
	})...)
	if module == "" {
		result = append(result, errs.NewValueIsRequiredError("module"))
	}
	if err := errors.Join(result...); err != nil {
		return GrantPermissionCommand{}, err
	}

	return GrantPermissionCommand{
		orderID:        orderID,
		actorID:        actorID,
		userID:         userID,
		module:         module,
		permissionType: strings.TrimSpace(permissionType),
		capabilities:   capabilities,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c GrantPermissionCommand) Validate() error {
	return c.guard.Validate(ErrGrantPermissionCommandIsNotConstructed)
}

func (c GrantPermissionCommand) OrderID() kernel.UUID             { return c.orderID }
func (c GrantPermissionCommand) ActorID() kernel.UUID             { return c.actorID }
func (c GrantPermissionCommand) UserID() kernel.UUID              { return c.userID }
func (c GrantPermissionCommand) Module() string                   { return c.module }
func (c GrantPermissionCommand) PermissionType() string           { return c.permissionType }
func (c GrantPermissionCommand) Capabilities() grant.Capabilities { return c.capabilities }

// RevokePermissionsCommand removes the grants of a user on an order, in one
// module or, when module is empty, in all of them.
type RevokePermissionsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	userID  kernel.UUID
	module  string

	guard guard.ConstructorGuard
}

func NewRevokePermissionsCommand(orderID, actorID, userID kernel.UUID, module string) (RevokePermissionsCommand, error) {
	if err := errors.Join(requireIDs(map[string]kernel.UUID{
		"orderID": orderID,
		"actorID": actorID,
		"userID":  userID,
	})...); err != nil {
		return RevokePermissionsCommand{}, err
	}

	return RevokePermissionsCommand{
		orderID: orderID,
		actorID: actorID,
		userID:  userID,
		module:  strings.TrimSpace(module),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RevokePermissionsCommand) Validate() error {
	return c.guard.Validate(ErrRevokePermissionsCommandIsNotConstructed)
}

func (c RevokePermissionsCommand) OrderID() kernel.UUID { return c.orderID }
func (c RevokePermissionsCommand) ActorID() kernel.UUID { return c.actorID }
func (c RevokePermissionsCommand) UserID() kernel.UUID  { return c.userID }
func (c RevokePermissionsCommand) Module() string       { return c.module }

// requireIDs reports every unset identifier, sorted by field name.
func requireIDs(ids map[string]kernel.UUID) []error {
	names := make([]string, 0, len(ids))
	for name := range ids {
		names = append(names, name)
	}
	slices.Sort(names)

	var result []error
	for _, name := range names {
		if err := ids[name].Validate(); err != nil {
			result = append(result, errs.NewValueIsRequiredErrorWithCause(name, err))
		}
	}
	return result
}
