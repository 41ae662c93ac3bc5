package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// GrantPermission handles POST /api/orders/:id/grants. The module defaults to
// the order workflow module.
func (s *Server) GrantPermission(ctx echo.Context) error {
	actorID, err := actor(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}

	var req GrantPermissionRequest
	if err = ctx.Bind(&req); err != nil {
		return s.fail(ctx, err)
	}
	userID, err := requiredID("user_id", req.UserID)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewGrantPermissionCommand(
		orderID, actorID, userID,
		kernel.Effective(grant.DefaultModule, req.Module),
		req.PermissionType,
		req.capabilities(),
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	g, err := s.handlers.Grants.Grant(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{Message: "Permission granted successfully", Data: toGrant(g)})
}

// RevokePermissions handles DELETE /api/orders/:id/grants/:userId. Without the
// ?module query parameter grants in every module are removed.
func (s *Server) RevokePermissions(ctx echo.Context) error {
	actorID, err := actor(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := pathID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}
	userID, err := pathID(ctx, "userId")
	if err != nil {
		return s.fail(ctx, err)
	}

	var module *string
	if err = queryParam(ctx, "module", &module); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewRevokePermissionsCommand(orderID, actorID, userID, kernel.Effective("", module))
	if err != nil {
		return s.fail(ctx, err)
	}

	revoked, err := s.handlers.Grants.Revoke(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Envelope{Data: map[string]bool{"revoked": revoked}})
}
