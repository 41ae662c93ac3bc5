package services

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/pkg/errs"
)

// WorkflowCreator persists a new custom workflow.
type WorkflowCreator interface {
	AddWorkflow(ctx context.Context, w *workflow.Workflow) error
}

// WorkflowResolver decides which workflow settings apply to an order and how
// they are described to users.
//
// Override chains:
//   - settings: custom workflow settings, then template settings, then none
//   - approval style: store style, then company style, then "Per User"
type WorkflowResolver struct{}

func NewWorkflowResolver() WorkflowResolver {
	return WorkflowResolver{}
}

// EffectiveSettings returns the custom settings of w when it has any, else the
// template settings. Both may be nil; the result is then empty (one-time).
func (WorkflowResolver) EffectiveSettings(w *workflow.Workflow, t *workflow.Template) workflow.Settings {
	var custom, defaults workflow.Settings
	if w != nil {
		custom = w.Settings()
	}
	if t != nil {
		defaults = t.Settings()
	}
	return kernel.EffectiveBy(workflow.Settings.IsNotEmpty, workflow.Settings{}, custom, defaults)
}

// IsRecurring is true only when a workflow exists and its effective frequency
// is set and is not one-time.
func (r WorkflowResolver) IsRecurring(w *workflow.Workflow, t *workflow.Template) bool {
	if w == nil {
		return false
	}
	return r.EffectiveSettings(w, t).Frequency.IsRecurring()
}

// FrequencyDescription labels the effective frequency. Orders without a
// workflow, or with no frequency configured, read "One-Time Order".
func (r WorkflowResolver) FrequencyDescription(w *workflow.Workflow, t *workflow.Template) string {
	if w == nil {
		return workflow.OneTimeLabel
	}
	return r.EffectiveSettings(w, t).Frequency.Label()
}

// CreateCustomWorkflow stores a workflow with custom settings for t. When the
// template does not allow custom workflows it returns (nil, nil): no workflow
// and no error.
func (WorkflowResolver) CreateCustomWorkflow(
	ctx context.Context,
	repo WorkflowCreator,
	t *workflow.Template,
	settings workflow.Settings,
) (*workflow.Workflow, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, errs.NewValueIsRequiredError("repo")
	}
	if !t.AllowsCustomWorkflows() {
		return nil, nil
	}

	w, err := workflow.NewWorkflow(kernel.NewUUID(), t.ID(), settings)
	if err != nil {
		return nil, err
	}
	if err := repo.AddWorkflow(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// ApprovalStyle resolves the approval style of a template. Store templates use
// the store style first; company style and then DefaultApprovalStyle follow.
// store and company may be nil.
func (WorkflowResolver) ApprovalStyle(t *workflow.Template, store *workflow.Store, company *workflow.Company) workflow.ApprovalStyle {
	var candidates []workflow.ApprovalStyle
	if t != nil && t.BelongsToStore() && store != nil {
		candidates = append(candidates, store.ApprovalStyle)
	}
	if company != nil {
		candidates = append(candidates, company.ApprovalStyle)
	}
	return kernel.EffectiveBy(workflow.ApprovalStyle.IsSet, workflow.DefaultApprovalStyle, candidates...)
}
