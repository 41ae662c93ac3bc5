// Package order implements the Order aggregate of the approval and shipping
// workflow.
//
// The package includes:
//   - Order: the aggregate root with guarded lifecycle transitions
//   - Timeline: the nullable workflow timestamps of an order
//   - Status: the workflow stage, always derived from a Timeline by Calculate
//   - StatusCalculator: Calculate plus the configurable deadline warning rules
//   - DomainEvent: facts raised by transitions and published after commit
//
// Key business rules:
//   - Status is never stored; it is computed from timestamps and the current instant
//   - A cancelled and shipped order is Cancelled, otherwise shipment wins over approval
//   - Shipping requires a prior approval
//   - Cancelling keeps the approval and shipment timestamps untouched
//   - Every transition checks its preconditions before any field changes
//
// Permission checks are not part of this package. They live in the domain
// services and run in the command handlers before a transition is applied.
package order
