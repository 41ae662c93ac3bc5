package ports

import (
	"context"

	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"
)

// GrantRepository stores explicit per-order permission grants.
type GrantRepository interface {
	// Find returns the grant of userID on orderID in module, or an error
	// wrapping errs.ErrObjectNotFound.
	Find(ctx context.Context, orderID, userID kernel.UUID, module string) (*grant.Grant, error)

	// ListForOrder returns every grant on an order.
	ListForOrder(ctx context.Context, orderID kernel.UUID) ([]*grant.Grant, error)

	// Upsert creates the grant or replaces the existing one with the same
	// (order, user, module) key.
	Upsert(ctx context.Context, g *grant.Grant) error

	// Delete removes the grants of userID on orderID. An empty module removes
	// grants in every module. It reports whether anything was deleted.
	Delete(ctx context.Context, orderID, userID kernel.UUID, module string) (bool, error)
}
