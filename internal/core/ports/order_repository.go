package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Status is never stored, so every query filters on the underlying timestamps.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists all fields of an existing order in a single write.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by identifier. A missing order yields an error
	// wrapping errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get with the row locked until the surrounding
	// transaction ends. Concurrent transitions on the same order serialise here.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Delete removes an order together with its grants.
	Delete(ctx context.Context, id kernel.UUID) error

	// ListOverdue returns orders whose deadline passed before now, earliest
	// deadline first. Shipped orders are excluded along with completed and
	// cancelled ones.
	ListOverdue(ctx context.Context, now time.Time) ([]*order.Order, error)

	// ListApproachingDeadline returns orders whose required date lies within
	// [now, now+within] and that are not yet shipped, completed or cancelled,
	// earliest required date first.
	ListApproachingDeadline(ctx context.Context, now time.Time, within time.Duration) ([]*order.Order, error)

	// ListAssignedTo returns one page of the orders assigned to a user,
	// earliest required date first, together with the total match count.
	ListAssignedTo(ctx context.Context, userID kernel.UUID, page Page) ([]*order.Order, int64, error)

	// ListPending returns one page of the orders that are neither approved,
	// shipped nor cancelled, earliest required date first, together with the
	// total match count.
	ListPending(ctx context.Context, page Page) ([]*order.Order, int64, error)

	// ListByProduct returns every order for a product, newest first.
	ListByProduct(ctx context.Context, productID kernel.UUID) ([]*order.Order, error)
}

// DefaultPageSize is the page length used when a caller does not pick one.
const DefaultPageSize = 15

// Page selects a window of a paginated listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// NewPage builds a page, falling back to the first page and DefaultPageSize
// for non-positive values.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
