// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// authorization, mutation of the aggregate, persistence and, after commit,
// publication of domain events.
package commands

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// GrantRepoFactory provides access to grant repository within a transaction.
	GrantRepoFactory interface {
		GrantRepository() ports.GrantRepository
	}

	// WorkflowRepoFactory provides access to workflow repository within a transaction.
	WorkflowRepoFactory interface {
		WorkflowRepository() ports.WorkflowRepository
	}

	// EventSource drains the domain events of aggregates written in the transaction.
	EventSource interface {
		PullDomainEvents() []order.DomainEvent
	}

	// OrderUoW manages transactions for order-only operations such as the
	// lifecycle transitions.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		EventSource
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// GrantUoW manages transactions that change grants of an order.
	GrantUoW interface {
		TxManager
		OrderRepoFactory
		GrantRepoFactory
	}

	// GrantUoWFactory creates new grant unit of work instances.
	GrantUoWFactory interface {
		Create() GrantUoW
	}

	// WorkflowUoW manages transactions on workflow reference data.
	WorkflowUoW interface {
		TxManager
		WorkflowRepoFactory
	}

	// WorkflowUoWFactory creates new workflow unit of work instances.
	WorkflowUoWFactory interface {
		Create() WorkflowUoW
	}

	// UoW manages transactions across orders, grants and workflow data.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   template, err := uow.WorkflowRepository().GetTemplate(ctx, id)
	//   err = uow.OrderRepository().Add(ctx, o)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		GrantRepoFactory
		WorkflowRepoFactory
		EventSource
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// Authorizer rejects actions the user is not allowed to perform with an
// errs.PermissionDeniedError. services.PermissionEvaluator implements it.
type Authorizer interface {
	Authorize(ctx context.Context, action order.Action, userID kernel.UUID, o *order.Order) error
}
