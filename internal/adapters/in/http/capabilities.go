package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

// AllowCapability handles POST /api/capabilities/policies. The body names
// either a user_id or a role.
func (s *Server) AllowCapability(ctx echo.Context) error {
	actorID, err := actor(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var req CapabilityPolicyRequest
	if err = ctx.Bind(&req); err != nil {
		return s.fail(ctx, err)
	}
	userID, err := optionalID("user_id", req.UserID)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewAllowCapabilityCommand(actorID, userID, req.Role, req.Capability)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.Capabilities.AllowCapability(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{Message: "Capability granted successfully"})
}

// AssignRole handles POST /api/capabilities/roles.
func (s *Server) AssignRole(ctx echo.Context) error {
	actorID, err := actor(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var req RoleAssignmentRequest
	if err = ctx.Bind(&req); err != nil {
		return s.fail(ctx, err)
	}
	userID, err := requiredID("user_id", req.UserID)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewAssignRoleCommand(actorID, userID, req.Role)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.Capabilities.AssignRole(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{Message: "Role assigned successfully"})
}
