package grantrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGrantRepository implements ports.GrantRepository using GORM.
type GormGrantRepository struct {
	db *gorm.DB
}

func NewGormGrantRepository(db *gorm.DB) *GormGrantRepository {
	return &GormGrantRepository{db: db}
}

// Find returns the grant of userID on orderID in module.
func (r *GormGrantRepository) Find(
	ctx context.Context,
	orderID, userID kernel.UUID,
	module string,
) (*grant.Grant, error) {
	var dto GrantDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND user_id = ? AND module = ?", orderID.Bytes(), userID.Bytes(), module).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("grant", userID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListForOrder returns every grant on the order ordered by user and module.
func (r *GormGrantRepository) ListForOrder(ctx context.Context, orderID kernel.UUID) ([]*grant.Grant, error) {
	var dtos []GrantDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("user_id, module").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	grants := make([]*grant.Grant, 0, len(dtos))
	for _, dto := range dtos {
		g, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, nil
}

// Upsert inserts the grant or overwrites the row with the same key.
func (r *GormGrantRepository) Upsert(ctx context.Context, g *grant.Grant) error {
	if err := g.Validate(); err != nil {
		return err
	}

	dto := fromDomain(g)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}, {Name: "user_id"}, {Name: "module"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"permission_type", "can_approve", "can_edit", "can_ship", "can_cancel",
		}),
	}).Create(&dto).Error
}

// Delete removes the user's grants on the order, in one module or in all of
// them when module is empty.
func (r *GormGrantRepository) Delete(
	ctx context.Context,
	orderID, userID kernel.UUID,
	module string,
) (bool, error) {
	db := r.db.WithContext(ctx).Where("order_id = ? AND user_id = ?", orderID.Bytes(), userID.Bytes())
	if module != "" {
		db = db.Where("module = ?", module)
	}

	result := db.Delete(&GrantDTO{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
