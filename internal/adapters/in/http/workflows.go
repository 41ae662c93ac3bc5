package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

// CreateCustomWorkflow handles POST /api/templates/:id/workflows. A template
// that does not allow custom workflows yields 204 and no workflow.
func (s *Server) CreateCustomWorkflow(ctx echo.Context) error {
	if _, err := actor(ctx); err != nil {
		return s.fail(ctx, err)
	}
	templateID, err := pathID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}

	var req CustomWorkflowRequest
	if err = ctx.Bind(&req); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateCustomWorkflowCommand(templateID, req.settings())
	if err != nil {
		return s.fail(ctx, err)
	}

	w, err := s.handlers.CustomWorkflow.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	if w == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	return ctx.JSON(http.StatusCreated, Envelope{Message: "Workflow created successfully", Data: toWorkflow(w)})
}
