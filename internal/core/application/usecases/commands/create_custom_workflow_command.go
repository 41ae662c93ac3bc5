package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCreateCustomWorkflowCommandIsNotConstructed = errors.New(
	"CreateCustomWorkflowCommand must be created via NewCreateCustomWorkflowCommand constructor",
)

// CreateCustomWorkflowCommand asks for a workflow with custom settings based
// on a template.
type CreateCustomWorkflowCommand struct { //nolint:recvcheck //using for validation
	templateID kernel.UUID
	settings   workflow.Settings

	guard guard.ConstructorGuard
}

func NewCreateCustomWorkflowCommand(templateID kernel.UUID, settings workflow.Settings) (CreateCustomWorkflowCommand, error) {
	if err := templateID.Validate(); err != nil {
		return CreateCustomWorkflowCommand{}, errs.NewValueIsRequiredErrorWithCause("templateID", err)
	}

	return CreateCustomWorkflowCommand{
		templateID: templateID,
		settings:   settings,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateCustomWorkflowCommand) Validate() error {
	return c.guard.Validate(ErrCreateCustomWorkflowCommandIsNotConstructed)
}

func (c CreateCustomWorkflowCommand) TemplateID() kernel.UUID     { return c.templateID }
func (c CreateCustomWorkflowCommand) Settings() workflow.Settings { return c.settings }
