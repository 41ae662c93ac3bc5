package order

import (
	"fmt"
	"time"

	"orderflow/internal/pkg/errs"
)

// Status is the workflow stage of an order. It is never stored: Calculate
// derives it from the order Timeline whenever it is needed.
//
// Priority (first match wins):
//
//	cancelled && shipped ──> Cancelled
//	shipped              ──> Shipped
//	approved             ──> Approved
//	now > deadline       ──> Overdue
//	now > required       ──> Late
//	otherwise            ──> Pending
type Status int

const (
	// Unknown is the zero value and never returned by Calculate.
	Unknown Status = iota
	Pending
	Late
	Overdue
	Approved
	Shipped
	Cancelled
)

type statusInfo struct {
	name  string
	color string
}

func getStatusInfo() map[Status]statusInfo {
	return map[Status]statusInfo{
		Pending:   {name: "Pending", color: "secondary"},
		Late:      {name: "Late", color: "warning"},
		Overdue:   {name: "Overdue", color: "danger"},
		Approved:  {name: "Approved", color: "info"},
		Shipped:   {name: "Shipped", color: "success"},
		Cancelled: {name: "Cancelled", color: "dark"},
	}
}

// AllStatuses lists every status Calculate can return, in priority order of display.
func AllStatuses() []Status {
	return []Status{Pending, Late, Overdue, Approved, Shipped, Cancelled}
}

// Calculate derives the status of a timeline at instant now.
// It is pure and total: every timeline maps to exactly one of AllStatuses.
func Calculate(t Timeline, now time.Time) Status {
	switch {
	case t.Cancelled != nil && t.Shipped != nil:
		return Cancelled
	case t.Shipped != nil:
		return Shipped
	case t.Approved != nil:
		return Approved
	case t.IsPastDeadline(now):
		return Overdue
	case t.IsPastRequired(now):
		return Late
	default:
		return Pending
	}
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if _, ok := getStatusInfo()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the status name, "Unknown" for invalid values.
func (s Status) String() string {
	if info, ok := getStatusInfo()[s]; ok {
		return info.name
	}
	return "Unknown"
}

// BadgeColor returns the UI colour class used to render the status.
func (s Status) BadgeColor() string {
	if info, ok := getStatusInfo()[s]; ok {
		return info.color
	}
	return "light"
}

// Badge is the display form of a status.
type Badge struct {
	Status string
	Label  string
	Color  string
}

// Badge returns the label and colour used to render the status.
func (s Status) Badge() Badge {
	return Badge{Status: s.String(), Label: s.String(), Color: s.BadgeColor()}
}

// IsTerminal reports whether no further workflow progress is expected.
func (s Status) IsTerminal() bool {
	return s == Shipped || s == Cancelled
}

// AllowsEditing reports whether the order details may still change.
func (s Status) AllowsEditing() bool {
	switch s {
	case Pending, Late, Overdue, Approved:
		return true
	default:
		return false
	}
}
