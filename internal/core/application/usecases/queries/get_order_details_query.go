package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetOrderDetailsQueryIsNotConstructed = errors.New(
		"GetOrderDetailsQuery must be created via NewGetOrderDetailsQuery constructor",
	)
	ErrGetOrderPermissionsQueryIsNotConstructed = errors.New(
		"GetOrderPermissionsQuery must be created via NewGetOrderPermissionsQuery constructor",
	)
)

// GetOrderDetailsQuery loads one order as seen by userID.
type GetOrderDetailsQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderDetailsQuery(orderID, userID kernel.UUID) (GetOrderDetailsQuery, error) {
	if err := validateOrderAndUser(orderID, userID); err != nil {
		return GetOrderDetailsQuery{}, err
	}
	return GetOrderDetailsQuery{orderID: orderID, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderDetailsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailsQueryIsNotConstructed)
}

func (q GetOrderDetailsQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderDetailsQuery) UserID() kernel.UUID  { return q.userID }

// GetOrderPermissionsQuery asks for the permission matrix of userID on an order.
type GetOrderPermissionsQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderPermissionsQuery(orderID, userID kernel.UUID) (GetOrderPermissionsQuery, error) {
	if err := validateOrderAndUser(orderID, userID); err != nil {
		return GetOrderPermissionsQuery{}, err
	}
	return GetOrderPermissionsQuery{orderID: orderID, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderPermissionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderPermissionsQueryIsNotConstructed)
}

func (q GetOrderPermissionsQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderPermissionsQuery) UserID() kernel.UUID  { return q.userID }

func validateOrderAndUser(orderID, userID kernel.UUID) error {
	var result []error
	if err := orderID.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("orderID", err))
	}
	if err := userID.Validate(); err != nil {
		result = append(result, errs.NewValueIsRequiredErrorWithCause("userID", err))
	}
	return errors.Join(result...)
}
