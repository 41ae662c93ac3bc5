package order

import (
	"fmt"
	"time"

	"orderflow/internal/pkg/errs"
)

// DefaultWarningThreshold is how long before the required date an order starts
// reporting the warning state.
const DefaultWarningThreshold = 3 * 24 * time.Hour

// StatusCalculator bundles Calculate with the configured warning threshold.
type StatusCalculator struct {
	warningThreshold time.Duration
}

// NewStatusCalculator returns a calculator using threshold for the warning state.
// A negative threshold is rejected.
func NewStatusCalculator(threshold time.Duration) (StatusCalculator, error) {
	if threshold < 0 {
		return StatusCalculator{}, errs.NewValueIsInvalidErrorWithCause(
			"warning threshold",
			fmt.Errorf("%s is negative", threshold),
		)
	}
	return StatusCalculator{warningThreshold: threshold}, nil
}

// WarningThreshold returns the configured threshold.
func (c StatusCalculator) WarningThreshold() time.Duration {
	return c.warningThreshold
}

// Calculate derives the status of t at now.
func (c StatusCalculator) Calculate(t Timeline, now time.Time) Status {
	return Calculate(t, now)
}

// IsApproachingDeadline reports whether the required date is set, not yet
// passed, and falls within the warning threshold from now. It is independent
// of Status.
func (c StatusCalculator) IsApproachingDeadline(t Timeline, now time.Time) bool {
	if t.Required == nil || t.IsPastRequired(now) {
		return false
	}
	return !t.Required.After(now.Add(c.warningThreshold))
}

// IsInWarningState is true for a Pending order approaching its required date,
// and for every Late or Overdue order.
func (c StatusCalculator) IsInWarningState(t Timeline, now time.Time) bool {
	switch Calculate(t, now) {
	case Pending:
		return c.IsApproachingDeadline(t, now)
	case Late, Overdue:
		return true
	default:
		return false
	}
}
