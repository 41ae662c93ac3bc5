package order

import "time"

// Timeline is the set of nullable workflow timestamps of an order.
// It is the only input of Calculate besides the current instant.
type Timeline struct {
	Created   *time.Time
	Required  *time.Time
	Deadline  *time.Time
	Completed *time.Time
	Approved  *time.Time
	Shipped   *time.Time
	Cancelled *time.Time
}

func (t Timeline) IsApproved() bool  { return t.Approved != nil }
func (t Timeline) IsShipped() bool   { return t.Shipped != nil }
func (t Timeline) IsCancelled() bool { return t.Cancelled != nil }

// IsPastDeadline reports whether a deadline is set and already passed at now.
func (t Timeline) IsPastDeadline(now time.Time) bool {
	return t.Deadline != nil && now.After(*t.Deadline)
}

// IsPastRequired reports whether a required date is set and already passed at now.
func (t Timeline) IsPastRequired(now time.Time) bool {
	return t.Required != nil && now.After(*t.Required)
}

// clone copies every timestamp so callers cannot alias the aggregate state.
func (t Timeline) clone() Timeline {
	return Timeline{
		Created:   cloneTime(t.Created),
		Required:  cloneTime(t.Required),
		Deadline:  cloneTime(t.Deadline),
		Completed: cloneTime(t.Completed),
		Approved:  cloneTime(t.Approved),
		Shipped:   cloneTime(t.Shipped),
		Cancelled: cloneTime(t.Cancelled),
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
