package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetAssignedOrdersQueryIsNotConstructed = errors.New(
		"GetAssignedOrdersQuery must be created via NewGetAssignedOrdersQuery constructor",
	)
	ErrGetPendingOrdersQueryIsNotConstructed = errors.New(
		"GetPendingOrdersQuery must be created via NewGetPendingOrdersQuery constructor",
	)
	ErrGetProductOrdersQueryIsNotConstructed = errors.New(
		"GetProductOrdersQuery must be created via NewGetProductOrdersQuery constructor",
	)
)

// GetAssignedOrdersQuery pages through the orders assigned to a user,
// earliest required date first.
//
// Example:
//
//	query, err := NewGetAssignedOrdersQuery(userID, 2)
//	page, err := handler.Assigned(ctx, query)
type GetAssignedOrdersQuery struct { //nolint:recvcheck //using for validation
	userID kernel.UUID
	page   ports.Page
	guard  guard.ConstructorGuard
}

func NewGetAssignedOrdersQuery(userID kernel.UUID, page int) (GetAssignedOrdersQuery, error) {
	var result []error
	if err := userID.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("userID", err))
	}
	if err := validatePage(page); err != nil {
		result = append(result, err)
	}
	if err := errors.Join(result...); err != nil {
		return GetAssignedOrdersQuery{}, err
	}

	return GetAssignedOrdersQuery{
		userID: userID,
		page:   ports.NewPage(page, ports.DefaultPageSize),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q GetAssignedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAssignedOrdersQueryIsNotConstructed)
}

func (q GetAssignedOrdersQuery) UserID() kernel.UUID { return q.userID }
func (q GetAssignedOrdersQuery) Page() ports.Page    { return q.page }

// GetPendingOrdersQuery pages through orders that are not yet approved,
// shipped or cancelled.
type GetPendingOrdersQuery struct { //nolint:recvcheck //using for validation
	page  ports.Page
	guard guard.ConstructorGuard
}

func NewGetPendingOrdersQuery(page int) (GetPendingOrdersQuery, error) {
	if err := validatePage(page); err != nil {
		return GetPendingOrdersQuery{}, err
	}
	return GetPendingOrdersQuery{page: ports.NewPage(page, ports.DefaultPageSize), guard: guard.NewConstructorGuard()}, nil
}

func (q GetPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOrdersQueryIsNotConstructed)
}

func (q GetPendingOrdersQuery) Page() ports.Page { return q.page }

// GetProductOrdersQuery lists every order of a product, newest first.
type GetProductOrdersQuery struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetProductOrdersQuery(productID kernel.UUID) (GetProductOrdersQuery, error) {
	if err := productID.Validate(); err != nil {
		return GetProductOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause("productID", err)
	}
	return GetProductOrdersQuery{productID: productID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetProductOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetProductOrdersQueryIsNotConstructed)
}

func (q GetProductOrdersQuery) ProductID() kernel.UUID { return q.productID }

func validatePage(page int) error {
	if page < 1 {
		return errs.NewValueIsOutOfRangeError("page", page, 1, "unbounded")
	}
	return nil
}
