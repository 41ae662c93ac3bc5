// Package orderrepo persists order aggregates with GORM. Status is never
// stored: rows carry the workflow timestamps and status is derived on read.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Deadline and required columns are indexed for the deadline scans.
type OrderDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null"`
	TemplateID uuid.UUID  `gorm:"type:uuid;not null;index"`
	WorkflowID *uuid.UUID `gorm:"type:uuid"`
	StoreID    *uuid.UUID `gorm:"type:uuid"`
	CustomerID *uuid.UUID `gorm:"type:uuid"`
	AssignedTo *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid"`

	Title string `gorm:"size:255;not null"`
	Notes string `gorm:"type:text"`

	CreatedAt   *time.Time `gorm:"autoCreateTime:false"`
	RequiredAt  *time.Time `gorm:"index"`
	DeadlineAt  *time.Time `gorm:"index"`
	CompletedAt *time.Time
	ApprovedAt  *time.Time
	ShippedAt   *time.Time
	CancelledAt *time.Time

	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	ShippedBy    *uuid.UUID `gorm:"type:uuid"`
	CancelledBy  *uuid.UUID `gorm:"type:uuid"`
	CompletedBy  *uuid.UUID `gorm:"type:uuid"`
	CancelReason string     `gorm:"size:1000"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	return OrderDTO{
		ID:           s.ID.Bytes(),
		ProductID:    s.ProductID.Bytes(),
		TemplateID:   s.TemplateID.Bytes(),
		WorkflowID:   kernel.OptionalBytes(s.WorkflowID),
		StoreID:      kernel.OptionalBytes(s.StoreID),
		CustomerID:   kernel.OptionalBytes(s.CustomerID),
		AssignedTo:   kernel.OptionalBytes(s.AssignedTo),
		CreatedBy:    kernel.OptionalBytes(s.CreatedBy),
		Title:        s.Title,
		Notes:        s.Notes,
		CreatedAt:    utc(s.Timeline.Created),
		RequiredAt:   utc(s.Timeline.Required),
		DeadlineAt:   utc(s.Timeline.Deadline),
		CompletedAt:  utc(s.Timeline.Completed),
		ApprovedAt:   utc(s.Timeline.Approved),
		ShippedAt:    utc(s.Timeline.Shipped),
		CancelledAt:  utc(s.Timeline.Cancelled),
		ApprovedBy:   kernel.OptionalBytes(s.ApprovedBy),
		ShippedBy:    kernel.OptionalBytes(s.ShippedBy),
		CancelledBy:  kernel.OptionalBytes(s.CancelledBy),
		CompletedBy:  kernel.OptionalBytes(s.CompletedBy),
		CancelReason: s.CancelReason,
	}
}

// toDomain rebuilds the aggregate with order.RestoreOrder, which rejects rows
// that break the workflow invariants.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	templateID, err := kernel.UUIDFromBytes(dto.TemplateID[:])
	if err != nil {
		return nil, err
	}

	s := order.Snapshot{
		ID:         id,
		ProductID:  productID,
		TemplateID: templateID,
		Title:      dto.Title,
		Notes:      dto.Notes,
		Timeline: order.Timeline{
			Created:   utc(dto.CreatedAt),
			Required:  utc(dto.RequiredAt),
			Deadline:  utc(dto.DeadlineAt),
			Completed: utc(dto.CompletedAt),
			Approved:  utc(dto.ApprovedAt),
			Shipped:   utc(dto.ShippedAt),
			Cancelled: utc(dto.CancelledAt),
		},
		CancelReason: dto.CancelReason,
	}

	optionals := []struct {
		raw *uuid.UUID
		dst **kernel.UUID
	}{
		{dto.WorkflowID, &s.WorkflowID},
		{dto.StoreID, &s.StoreID},
		{dto.CustomerID, &s.CustomerID},
		{dto.AssignedTo, &s.AssignedTo},
		{dto.CreatedBy, &s.CreatedBy},
		{dto.ApprovedBy, &s.ApprovedBy},
		{dto.ShippedBy, &s.ShippedBy},
		{dto.CancelledBy, &s.CancelledBy},
		{dto.CompletedBy, &s.CompletedBy},
	}
	for _, opt := range optionals {
		if *opt.dst, err = kernel.OptionalUUIDFromBytes(opt.raw); err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(s)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
