package workflowrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWorkflowRepository implements ports.WorkflowRepository using GORM.
type GormWorkflowRepository struct {
	db *gorm.DB
}

func NewGormWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{db: db}
}

func (r *GormWorkflowRepository) AddCompany(ctx context.Context, c *workflow.Company) error {
	if err := c.ID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("company.ID", err)
	}
	dto := companyFromDomain(c)
	return r.create(ctx, &dto, "company", c.ID)
}

func (r *GormWorkflowRepository) GetCompany(ctx context.Context, id kernel.UUID) (*workflow.Company, error) {
	var dto CompanyDTO
	if err := r.first(ctx, &dto, "company", id); err != nil {
		return nil, err
	}
	return companyToDomain(dto)
}

func (r *GormWorkflowRepository) AddStore(ctx context.Context, s *workflow.Store) error {
	if err := s.ID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("store.ID", err)
	}
	dto := storeFromDomain(s)
	return r.create(ctx, &dto, "store", s.ID)
}

func (r *GormWorkflowRepository) GetStore(ctx context.Context, id kernel.UUID) (*workflow.Store, error) {
	var dto StoreDTO
	if err := r.first(ctx, &dto, "store", id); err != nil {
		return nil, err
	}
	return storeToDomain(dto)
}

func (r *GormWorkflowRepository) AddTemplate(ctx context.Context, t *workflow.Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	dto := templateFromDomain(t)
	return r.create(ctx, &dto, "template", t.ID())
}

func (r *GormWorkflowRepository) GetTemplate(ctx context.Context, id kernel.UUID) (*workflow.Template, error) {
	var dto TemplateDTO
	if err := r.first(ctx, &dto, "template", id); err != nil {
		return nil, err
	}
	return templateToDomain(dto)
}

func (r *GormWorkflowRepository) AddWorkflow(ctx context.Context, w *workflow.Workflow) error {
	if err := w.Validate(); err != nil {
		return err
	}
	dto := workflowFromDomain(w)
	return r.create(ctx, &dto, "workflow", w.ID())
}

func (r *GormWorkflowRepository) GetWorkflow(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error) {
	var dto WorkflowDTO
	if err := r.first(ctx, &dto, "workflow", id); err != nil {
		return nil, err
	}
	return workflowToDomain(dto)
}

func (r *GormWorkflowRepository) create(ctx context.Context, dto any, name string, id kernel.UUID) error {
	if err := r.db.WithContext(ctx).Create(dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewDuplicateIdentifierError(name, id.String())
		}
		return err
	}
	return nil
}

func (r *GormWorkflowRepository) first(ctx context.Context, dto any, name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).First(dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError(name, id.String())
		}
		return err
	}
	return nil
}
