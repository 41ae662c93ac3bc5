package commands

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrAllowCapabilityCommandIsNotConstructed = errors.New(
		"AllowCapabilityCommand must be created via NewAllowCapabilityCommand constructor",
	)
	ErrAssignRoleCommandIsNotConstructed = errors.New(
		"AssignRoleCommand must be created via NewAssignRoleCommand constructor",
	)
)

// AllowCapabilityCommand grants a global capability to exactly one of a user
// or a role.
type AllowCapabilityCommand struct { //nolint:recvcheck //using for validation
	actorID    kernel.UUID
	userID     *kernel.UUID
	role       string
	capability string

	guard guard.ConstructorGuard
}

func NewAllowCapabilityCommand(
	actorID kernel.UUID,
	userID *kernel.UUID,
	role, capability string,
) (AllowCapabilityCommand, error) {
	role = strings.TrimSpace(role)
	capability = strings.TrimSpace(capability)

	var result []error
	if err := actorID.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("actorID", err))
	}
	switch {
	case userID == nil && role == "":
		result = append(result, errs.NewValueIsRequiredErrorWithCause(
			"subject", errors.New("either user_id or role must be set")))
	case userID != nil && role != "":
		result = append(result, errs.NewValueIsInvalidErrorWithCause(
			"subject", errors.New("user_id and role are mutually exclusive")))
	case userID != nil:
		if err := userID.Validate(); err != nil {
			result = append(result, errs.NewValueIsInvalidErrorWithCause("userID", err))
		}
	}
	if capability == "" {
		result = append(result, errs.NewValueIsRequiredError("capability"))
	}
	if err := errors.Join(result...); err != nil {
		return AllowCapabilityCommand{}, err
	}

	return AllowCapabilityCommand{
		actorID:    actorID,
		userID:     userID,
		role:       role,
		capability: capability,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AllowCapabilityCommand) Validate() error {
	return c.guard.Validate(ErrAllowCapabilityCommandIsNotConstructed)
}

func (c AllowCapabilityCommand) ActorID() kernel.UUID { return c.actorID }

// UserID is nil when the capability goes to a role.
func (c AllowCapabilityCommand) UserID() *kernel.UUID { return c.userID }
func (c AllowCapabilityCommand) Role() string         { return c.role }
func (c AllowCapabilityCommand) Capability() string   { return c.capability }

// AssignRoleCommand puts a user into a capability role.
type AssignRoleCommand struct { //nolint:recvcheck //using for validation
	actorID kernel.UUID
	userID  kernel.UUID
	role    string

	guard guard.ConstructorGuard
}

func NewAssignRoleCommand(actorID, userID kernel.UUID, role string) (AssignRoleCommand, error) {
	role = strings.TrimSpace(role)

	result := requireIDs(map[string]kernel.UUID{
		"actorID": actorID,
		"userID":  userID,
	})
	if role == "" {
		result = append(result, errs.NewValueIsRequiredError("role"))
	}
	if err := errors.Join(result...); err != nil {
		return AssignRoleCommand{}, err
	}

	return AssignRoleCommand{
		actorID: actorID,
		userID:  userID,
		role:    role,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssignRoleCommand) Validate() error {
	return c.guard.Validate(ErrAssignRoleCommandIsNotConstructed)
}

func (c AssignRoleCommand) ActorID() kernel.UUID { return c.actorID }
func (c AssignRoleCommand) UserID() kernel.UUID  { return c.userID }
func (c AssignRoleCommand) Role() string         { return c.role }
