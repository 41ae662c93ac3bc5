package workflow

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrTemplateIsNotConstructed = errors.New("template must be created via NewTemplate")
	ErrWorkflowIsNotConstructed = errors.New("workflow must be created via NewWorkflow")
)

// Company owns templates and stores.
type Company struct {
	ID            kernel.UUID
	Name          string
	ApprovalStyle ApprovalStyle
}

// Store belongs to a company and may override its approval style.
type Store struct {
	ID            kernel.UUID
	CompanyID     kernel.UUID
	Name          string
	ApprovalStyle ApprovalStyle
}

// Template describes a kind of order and its default workflow settings.
// A template belongs to a company and optionally to one of its stores.
type Template struct {
	id               kernel.UUID
	companyID        kernel.UUID
	storeID          *kernel.UUID
	name             string
	workflowName     string
	settings         Settings
	approvalRequired bool
	guard            guard.ConstructorGuard
}

// TemplateParams groups the attributes of NewTemplate.
type TemplateParams struct {
	CompanyID        kernel.UUID
	StoreID          *kernel.UUID
	Name             string
	WorkflowName     string
	Settings         Settings
	ApprovalRequired bool
}

// NewTemplate validates and creates a template.
func NewTemplate(id kernel.UUID, p TemplateParams) (*Template, error) {
	t := &Template{
		id:               id,
		companyID:        p.CompanyID,
		storeID:          p.StoreID,
		name:             strings.TrimSpace(p.Name),
		workflowName:     strings.TrimSpace(p.WorkflowName),
		settings:         p.Settings,
		approvalRequired: p.ApprovalRequired,
		guard:            guard.NewConstructorGuard(),
	}

	var result []error
	if err := id.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("id", err))
	}
	if err := p.CompanyID.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("companyID", err))
	}
	if t.name == "" {
		result = append(result, errs.NewValueIsRequiredError("name"))
	}
	if err := errors.Join(result...); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Template) Validate() error {
	if t == nil {
		return ErrTemplateIsNotConstructed
	}
	return t.guard.Validate(ErrTemplateIsNotConstructed)
}

func (t *Template) ID() kernel.UUID             { return t.id }
func (t *Template) CompanyID() kernel.UUID      { return t.companyID }
func (t *Template) StoreID() *kernel.UUID       { return t.storeID }
func (t *Template) Name() string                { return t.name }
func (t *Template) WorkflowName() string        { return t.workflowName }
func (t *Template) Settings() Settings          { return t.settings }
func (t *Template) ApprovalRequired() bool      { return t.approvalRequired }
func (t *Template) BelongsToStore() bool        { return t.storeID != nil }
func (t *Template) AllowsCustomWorkflows() bool { return t.settings.CustomAllowed }

// Workflow is a per-order customisation of a template's workflow settings.
// Empty settings mean "use the template's".
type Workflow struct {
	id         kernel.UUID
	templateID kernel.UUID
	settings   Settings
	guard      guard.ConstructorGuard
}

// NewWorkflow creates a workflow for templateID.
func NewWorkflow(id, templateID kernel.UUID, settings Settings) (*Workflow, error) {
	var result []error
	if err := id.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("id", err))
	}
	if err := templateID.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("templateID", err))
	}
	if err := errors.Join(result...); err != nil {
		return nil, err
	}

	return &Workflow{
		id:         id,
		templateID: templateID,
		settings:   settings,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (w *Workflow) Validate() error {
	if w == nil {
		return ErrWorkflowIsNotConstructed
	}
	return w.guard.Validate(ErrWorkflowIsNotConstructed)
}

func (w *Workflow) ID() kernel.UUID         { return w.id }
func (w *Workflow) TemplateID() kernel.UUID { return w.templateID }
func (w *Workflow) Settings() Settings      { return w.settings }
