package orderrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/adapters/out/postgres/grantrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// openOrders restricts a query to orders that still move through the workflow.
	openOrders = "shipped_at IS NULL AND completed_at IS NULL AND cancelled_at IS NULL"

	// pendingOrders matches orders nobody has acted on yet.
	pendingOrders = "approved_at IS NULL AND shipped_at IS NULL AND cancelled_at IS NULL"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository. tracker may be
// nil for read-only use.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewDuplicateIdentifierError("order", aggregate.ID().String())
		}
		return err
	}

	r.track(aggregate)
	return nil
}

// Update writes every column of the order in one statement, including the
// ones cleared by unapprove, recall or restore.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.track(aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order with SELECT ... FOR UPDATE. It must run
// inside a transaction for the lock to outlive the statement.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(_ context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes the order and its grants.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id.Bytes()).Delete(&grantrepo.GrantDTO{}).Error; err != nil {
		return err
	}

	result := db.Delete(&OrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return nil
}

// ListOverdue returns open orders whose deadline is before now. Shipped,
// completed and cancelled orders never count as overdue.
func (r *GormOrderRepository) ListOverdue(ctx context.Context, now time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("deadline_at < ?", now.UTC()).
		Where(openOrders).
		Order("deadline_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// ListApproachingDeadline returns open orders required within [now, now+within].
func (r *GormOrderRepository) ListApproachingDeadline(
	ctx context.Context,
	now time.Time,
	within time.Duration,
) ([]*order.Order, error) {
	if within < 0 {
		return nil, errs.NewValueIsOutOfRangeError("within", within, 0, "unbounded")
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("required_at BETWEEN ? AND ?", now.UTC(), now.Add(within).UTC()).
		Where(openOrders).
		Order("required_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// ListAssignedTo returns a page of the user's orders ordered by required date.
func (r *GormOrderRepository) ListAssignedTo(
	ctx context.Context,
	userID kernel.UUID,
	page ports.Page,
) ([]*order.Order, int64, error) {
	if err := userID.Validate(); err != nil {
		return nil, 0, err
	}

	return r.paginate(ctx, page, func(db *gorm.DB) *gorm.DB {
		return db.Where("assigned_to = ?", userID.Bytes())
	})
}

// ListPending returns a page of untouched orders ordered by required date.
func (r *GormOrderRepository) ListPending(ctx context.Context, page ports.Page) ([]*order.Order, int64, error) {
	return r.paginate(ctx, page, func(db *gorm.DB) *gorm.DB {
		return db.Where(pendingOrders)
	})
}

// ListByProduct returns every order of the product, newest first.
func (r *GormOrderRepository) ListByProduct(ctx context.Context, productID kernel.UUID) ([]*order.Order, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID.Bytes()).
		Order("created_at DESC, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// paginate counts the rows matched by scope and loads the requested page.
// Rows without a required date sort last.
func (r *GormOrderRepository) paginate(
	ctx context.Context,
	page ports.Page,
	scope func(*gorm.DB) *gorm.DB,
) ([]*order.Order, int64, error) {
	page = ports.NewPage(page.Number, page.Size)

	var total int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("required_at ASC NULLS LAST, id").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, err
	}

	orders, err := toDomainAll(dtos)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormOrderRepository) track(aggregate *order.Order) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
