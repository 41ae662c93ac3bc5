// Package workflowrepo persists templates, custom workflows and the stores and
// companies that own them. Workflow settings are stored as JSON documents.
package workflowrepo

import (
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/workflow"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CompanyDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:255;not null"`
	ApprovalStyle string    `gorm:"size:32"`
}

func (CompanyDTO) TableName() string { return "companies" }

type StoreDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID `gorm:"type:uuid;index"`
	Name          string    `gorm:"size:255;not null"`
	ApprovalStyle string    `gorm:"size:32"`
}

func (StoreDTO) TableName() string { return "stores" }

type TemplateDTO struct {
	ID               uuid.UUID                             `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID                             `gorm:"type:uuid;not null;index"`
	StoreID          *uuid.UUID                            `gorm:"type:uuid"`
	Name             string                                `gorm:"size:255;not null"`
	WorkflowName     string                                `gorm:"size:255"`
	Settings         datatypes.JSONType[workflow.Settings] `gorm:"type:jsonb"`
	ApprovalRequired bool
}

func (TemplateDTO) TableName() string { return "order_templates" }

type WorkflowDTO struct {
	ID         uuid.UUID                             `gorm:"type:uuid;primaryKey"`
	TemplateID uuid.UUID                             `gorm:"type:uuid;not null;index"`
	Settings   datatypes.JSONType[workflow.Settings] `gorm:"type:jsonb"`
}

func (WorkflowDTO) TableName() string { return "order_workflows" }

func companyFromDomain(c *workflow.Company) CompanyDTO {
	return CompanyDTO{ID: c.ID.Bytes(), Name: c.Name, ApprovalStyle: string(c.ApprovalStyle)}
}

func companyToDomain(dto CompanyDTO) (*workflow.Company, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return &workflow.Company{ID: id, Name: dto.Name, ApprovalStyle: workflow.ApprovalStyle(dto.ApprovalStyle)}, nil
}

func storeFromDomain(s *workflow.Store) StoreDTO {
	return StoreDTO{
		ID:            s.ID.Bytes(),
		CompanyID:     s.CompanyID.Bytes(),
		Name:          s.Name,
		ApprovalStyle: string(s.ApprovalStyle),
	}
}

func storeToDomain(dto StoreDTO) (*workflow.Store, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	companyID, err := kernel.UUIDFromBytes(dto.CompanyID[:])
	if err != nil {
		return nil, err
	}
	return &workflow.Store{
		ID:            id,
		CompanyID:     companyID,
		Name:          dto.Name,
		ApprovalStyle: workflow.ApprovalStyle(dto.ApprovalStyle),
	}, nil
}

func templateFromDomain(t *workflow.Template) TemplateDTO {
	return TemplateDTO{
		ID:               t.ID().Bytes(),
		CompanyID:        t.CompanyID().Bytes(),
		StoreID:          kernel.OptionalBytes(t.StoreID()),
		Name:             t.Name(),
		WorkflowName:     t.WorkflowName(),
		Settings:         datatypes.NewJSONType(t.Settings()),
		ApprovalRequired: t.ApprovalRequired(),
	}
}

func templateToDomain(dto TemplateDTO) (*workflow.Template, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	companyID, err := kernel.UUIDFromBytes(dto.CompanyID[:])
	if err != nil {
		return nil, err
	}
	storeID, err := kernel.OptionalUUIDFromBytes(dto.StoreID)
	if err != nil {
		return nil, err
	}

	return workflow.NewTemplate(id, workflow.TemplateParams{
		CompanyID:        companyID,
		StoreID:          storeID,
		Name:             dto.Name,
		WorkflowName:     dto.WorkflowName,
		Settings:         dto.Settings.Data(),
		ApprovalRequired: dto.ApprovalRequired,
	})
}

func workflowFromDomain(w *workflow.Workflow) WorkflowDTO {
	return WorkflowDTO{
		ID:         w.ID().Bytes(),
		TemplateID: w.TemplateID().Bytes(),
		Settings:   datatypes.NewJSONType(w.Settings()),
	}
}

func workflowToDomain(dto WorkflowDTO) (*workflow.Workflow, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	templateID, err := kernel.UUIDFromBytes(dto.TemplateID[:])
	if err != nil {
		return nil, err
	}
	return workflow.NewWorkflow(id, templateID, dto.Settings.Data())
}
