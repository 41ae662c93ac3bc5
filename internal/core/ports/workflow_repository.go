package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/workflow"
)

// WorkflowRepository stores templates, custom workflows and the stores and
// companies that own them. All lookups return an error wrapping
// errs.ErrObjectNotFound for unknown identifiers.
type WorkflowRepository interface {
	AddCompany(ctx context.Context, c *workflow.Company) error
	GetCompany(ctx context.Context, id kernel.UUID) (*workflow.Company, error)

	AddStore(ctx context.Context, s *workflow.Store) error
	GetStore(ctx context.Context, id kernel.UUID) (*workflow.Store, error)

	AddTemplate(ctx context.Context, t *workflow.Template) error
	GetTemplate(ctx context.Context, id kernel.UUID) (*workflow.Template, error)

	AddWorkflow(ctx context.Context, w *workflow.Workflow) error
	GetWorkflow(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error)
}
