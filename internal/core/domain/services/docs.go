// Package services holds the domain services of the order workflow: rules that
// need more than a single aggregate.
//
// The package includes:
//   - PermissionEvaluator: decides which actions a user may perform on an order
//     from ownership, explicit grants and the edit-overdue capability
//   - Evaluate: the pure permission rules behind PermissionEvaluator
//   - WorkflowResolver: resolves effective workflow settings, frequency labels
//     and approval styles through their override chains
//
// Services depend on small interfaces (GrantFinder, CapabilityChecker,
// WorkflowCreator) satisfied by the outbound adapters.
package services
