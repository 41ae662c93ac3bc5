// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models built from plain records fetched explicitly;
// status and warning flags are derived at read time and never stored.
package queries

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

type (
	// OrderReader loads a single order outside of a transaction.
	OrderReader interface {
		Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	}

	// OrderLister lists orders by deadline.
	OrderLister interface {
		ListOverdue(ctx context.Context, now time.Time) ([]*order.Order, error)
		ListApproachingDeadline(ctx context.Context, now time.Time, within time.Duration) ([]*order.Order, error)
	}

	// OrderBrowser pages through orders by assignee, pending state or product.
	OrderBrowser interface {
		ListAssignedTo(ctx context.Context, userID kernel.UUID, page ports.Page) ([]*order.Order, int64, error)
		ListPending(ctx context.Context, page ports.Page) ([]*order.Order, int64, error)
		ListByProduct(ctx context.Context, productID kernel.UUID) ([]*order.Order, error)
	}

	// WorkflowReader resolves the reference data shown with an order.
	WorkflowReader interface {
		GetCompany(ctx context.Context, id kernel.UUID) (*workflow.Company, error)
		GetStore(ctx context.Context, id kernel.UUID) (*workflow.Store, error)
		GetTemplate(ctx context.Context, id kernel.UUID) (*workflow.Template, error)
		GetWorkflow(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error)
	}

	// PermissionReader computes what a user may do with an order.
	// services.PermissionEvaluator implements it.
	PermissionReader interface {
		UserPermissions(ctx context.Context, userID kernel.UUID, o *order.Order) (services.Permissions, error)
		CanApproveAndShip(ctx context.Context, userID kernel.UUID, o *order.Order) (bool, error)
	}
)
