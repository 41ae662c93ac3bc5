package commands

import (
	"context"

	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/core/domain/services"
)

// CreateCustomWorkflowCommandHandler creates custom workflows through
// services.WorkflowResolver. Templates that do not allow customisation yield
// (nil, nil).
type CreateCustomWorkflowCommandHandler struct {
	uowFactory WorkflowUoWFactory
	resolver   services.WorkflowResolver
}

func NewCreateCustomWorkflowCommandHandler(uowFactory WorkflowUoWFactory, resolver services.WorkflowResolver) CreateCustomWorkflowCommandHandler {
	return CreateCustomWorkflowCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
	}
}

func (h CreateCustomWorkflowCommandHandler) Handle(ctx context.Context, cmd CreateCustomWorkflowCommand) (*workflow.Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.WorkflowRepository()
	template, err := repo.GetTemplate(ctx, cmd.TemplateID())
	if err != nil {
		return nil, err
	}

	w, err := h.resolver.CreateCustomWorkflow(ctx, repo, template, cmd.Settings())
	if err != nil || w == nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return w, nil
}
