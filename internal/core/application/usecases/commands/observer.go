package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// Outcome classifies how a lifecycle operation ended.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeDenied    Outcome = "denied"
	OutcomeRejected  Outcome = "rejected"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeFailed    Outcome = "failed"
)

// TransitionObserver is notified once per lifecycle operation.
type TransitionObserver interface {
	ObserveTransition(action order.Action, outcome Outcome)
}

// OutcomeOf maps an operation result to its Outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, errs.ErrPermissionDenied):
		return OutcomeDenied
	case errors.Is(err, errs.ErrInvalidTransition):
		return OutcomeRejected
	case errors.Is(err, errs.ErrObjectNotFound):
		return OutcomeNotFound
	case errs.IsValidation(err):
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}

type noopObserver struct{}

func (noopObserver) ObserveTransition(order.Action, Outcome) {}
