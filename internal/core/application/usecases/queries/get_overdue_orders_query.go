package queries

import (
	"errors"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetOverdueOrdersQueryIsNotConstructed = errors.New(
		"GetOverdueOrdersQuery must be created via NewGetOverdueOrdersQuery constructor",
	)
	ErrGetApproachingDeadlineOrdersQueryIsNotConstructed = errors.New(
		"GetApproachingDeadlineOrdersQuery must be created via NewGetApproachingDeadlineOrdersQuery constructor",
	)
)

// GetOverdueOrdersQuery lists orders past their deadline that are neither
// shipped nor cancelled, earliest deadline first.
//
// Example:
//
//	query := NewGetOverdueOrdersQuery()
//	orders, err := handler.Overdue(ctx, query)
type GetOverdueOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetOverdueOrdersQuery() GetOverdueOrdersQuery {
	return GetOverdueOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetOverdueOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOverdueOrdersQueryIsNotConstructed)
}

// GetApproachingDeadlineOrdersQuery lists open orders whose required date
// falls within the given window from now.
type GetApproachingDeadlineOrdersQuery struct { //nolint:recvcheck //using for validation
	within time.Duration
	guard  guard.ConstructorGuard
}

// NewGetApproachingDeadlineOrdersQuery requires a positive window.
func NewGetApproachingDeadlineOrdersQuery(within time.Duration) (GetApproachingDeadlineOrdersQuery, error) {
	if within <= 0 {
		return GetApproachingDeadlineOrdersQuery{}, errs.NewValueIsOutOfRangeError("within", within, "1ns", "unbounded")
	}
	return GetApproachingDeadlineOrdersQuery{within: within, guard: guard.NewConstructorGuard()}, nil
}

// NewGetApproachingDeadlineOrdersQueryInDays is the day based form used by the API.
func NewGetApproachingDeadlineOrdersQueryInDays(days int) (GetApproachingDeadlineOrdersQuery, error) {
	if days <= 0 {
		return GetApproachingDeadlineOrdersQuery{}, errs.NewValueIsOutOfRangeError("days", days, 1, "unbounded")
	}
	return NewGetApproachingDeadlineOrdersQuery(time.Duration(days) * 24 * time.Hour)
}

func (q GetApproachingDeadlineOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetApproachingDeadlineOrdersQueryIsNotConstructed)
}

func (q GetApproachingDeadlineOrdersQuery) Within() time.Duration { return q.within }
