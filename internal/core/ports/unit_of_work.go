package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks the aggregates written through
// its repositories so their domain events can be published after commit.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and forgets tracked aggregates.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// GrantRepository returns a GrantRepository bound to the current transaction.
	GrantRepository() GrantRepository

	// WorkflowRepository returns a WorkflowRepository bound to the current transaction.
	WorkflowRepository() WorkflowRepository

	// PullDomainEvents drains the events raised by tracked aggregates, in the
	// order the aggregates were written.
	PullDomainEvents() []order.DomainEvent
}
