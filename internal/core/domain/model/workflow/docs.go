// Package workflow contains the reference data an order is created from:
// companies, stores, order templates and per-order custom workflows, together
// with the Frequency vocabulary and ApprovalStyle values.
//
// Templates carry default Settings. A Workflow may override them when the
// template allows custom workflows. Resolving which settings apply to an order
// is done by services.WorkflowResolver.
package workflow
