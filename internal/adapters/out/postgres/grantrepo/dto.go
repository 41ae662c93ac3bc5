// Package grantrepo persists explicit per-order permission grants.
package grantrepo

import (
	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// GrantDTO is one row per (order, user, module).
type GrantDTO struct {
	OrderID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Module         string    `gorm:"size:64;primaryKey"`
	PermissionType string    `gorm:"size:64"`
	CanApprove     bool
	CanEdit        bool
	CanShip        bool
	CanCancel      bool
}

func (GrantDTO) TableName() string {
	return "order_grants"
}

func fromDomain(g *grant.Grant) GrantDTO {
	caps := g.Capabilities()
	return GrantDTO{
		OrderID:        g.OrderID().Bytes(),
		UserID:         g.UserID().Bytes(),
		Module:         g.Module(),
		PermissionType: g.PermissionType(),
		CanApprove:     caps.Approve,
		CanEdit:        caps.Edit,
		CanShip:        caps.Ship,
		CanCancel:      caps.Cancel,
	}
}

func toDomain(dto GrantDTO) (*grant.Grant, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	return grant.NewGrant(orderID, userID, dto.Module, dto.PermissionType, grant.Capabilities{
		Approve: dto.CanApprove,
		Edit:    dto.CanEdit,
		Ship:    dto.CanShip,
		Cancel:  dto.CanCancel,
	})
}
