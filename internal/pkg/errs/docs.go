// Package errs provides the error taxonomy shared by the order workflow service.
//
// The package includes:
//   - ObjectNotFoundError: a referenced order, grant or template does not exist
//   - PermissionDeniedError: the acting user is not authorized for an action
//   - InvalidTransitionError: an order state precondition was violated
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: input validation
//
// Each error type follows the same pattern: a sentinel variable for errors.Is,
// a struct carrying the details, constructors with and without cause, and an
// Unwrap method returning the sentinel. Multiple validation failures are combined
// with errors.Join so callers receive per-field detail.
package errs
