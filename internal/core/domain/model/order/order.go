package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder or RestoreOrder")
)

const (
	// MaxTitleLength is the maximum number of characters in an order title.
	MaxTitleLength = 255

	// MaxCancelReasonLength is the maximum number of characters in a cancel reason.
	MaxCancelReasonLength = 1000
)

// Action names a user-facing operation on an order. The value is used verbatim
// in permission and transition error messages.
type Action string

const (
	ActionView           Action = "view"
	ActionEdit           Action = "edit"
	ActionDelete         Action = "delete"
	ActionApprove        Action = "approve"
	ActionUnapprove      Action = "unapprove"
	ActionShip           Action = "ship"
	ActionApproveAndShip Action = "approve and ship"
	ActionRecallShipment Action = "recall shipment of"
	ActionCancel         Action = "cancel"
	ActionRestore        Action = "restore"
)

// Preconditions reported by InvalidTransitionError.
const (
	PreconditionAlreadyApproved  = "already approved"
	PreconditionNotYetApproved   = "not yet approved"
	PreconditionAlreadyShipped   = "already shipped"
	PreconditionNotShipped       = "not shipped"
	PreconditionAlreadyCancelled = "already cancelled"
	PreconditionNotCancelled     = "not cancelled"
)

// Details are the attributes supplied when an order is created.
type Details struct {
	ProductID  kernel.UUID
	TemplateID kernel.UUID
	WorkflowID *kernel.UUID
	StoreID    *kernel.UUID
	CustomerID *kernel.UUID
	AssignedTo *kernel.UUID
	Title      string
	Notes      string
	Required   *time.Time
	Deadline   *time.Time
}

// Edit is the set of attributes that may change after creation. UpdateDetails
// replaces all of them at once.
type Edit struct {
	Title      string
	Notes      string
	AssignedTo *kernel.UUID
	Required   *time.Time
	Deadline   *time.Time
}

// Snapshot is the complete persisted state of an order. Repositories build
// orders from a Snapshot with RestoreOrder and persist them via Order.Snapshot.
type Snapshot struct {
	ID           kernel.UUID
	ProductID    kernel.UUID
	TemplateID   kernel.UUID
	WorkflowID   *kernel.UUID
	StoreID      *kernel.UUID
	CustomerID   *kernel.UUID
	AssignedTo   *kernel.UUID
	CreatedBy    *kernel.UUID
	Title        string
	Notes        string
	Timeline     Timeline
	ApprovedBy   *kernel.UUID
	ShippedBy    *kernel.UUID
	CancelledBy  *kernel.UUID
	CompletedBy  *kernel.UUID
	CancelReason string
}

// Order is the aggregate root of the approval and shipping workflow.
//
// Order follows these invariants:
//   - product, template and title are always present
//   - a shipped order is approved, and approval never happens after shipment
//   - a cancel reason is only present on a cancelled order
//   - the deadline, when set together with the required date, comes after it
//
// The status is not stored. It is derived from the Timeline with Calculate.
// All state changes go through the transition methods, which check their
// preconditions first and mutate nothing when they fail.
type Order struct {
	id         kernel.UUID
	productID  kernel.UUID
	templateID kernel.UUID
	workflowID *kernel.UUID
	storeID    *kernel.UUID
	customerID *kernel.UUID

	// assignedTo is the owner of the order
	assignedTo *kernel.UUID
	createdBy  *kernel.UUID

	title string
	notes string

	timeline Timeline

	approvedBy  *kernel.UUID
	shippedBy   *kernel.UUID
	cancelledBy *kernel.UUID
	completedBy *kernel.UUID

	cancelReason string

	// events are raised by transitions and drained after commit
	events []DomainEvent

	guard guard.ConstructorGuard
}

// NewOrder creates a pending order. All validation failures are reported
// together through errors.Join.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
//	    ProductID:  productID,
//	    TemplateID: templateID,
//	    Title:      "Weekly restock",
//	}, &creator, clock.Now())
func NewOrder(id kernel.UUID, d Details, createdBy *kernel.UUID, now time.Time) (*Order, error) {
	o := &Order{
		workflowID: d.WorkflowID,
		storeID:    d.StoreID,
		customerID: d.CustomerID,
		assignedTo: d.AssignedTo,
		createdBy:  createdBy,
		notes:      d.Notes,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setProductID(d.ProductID),
		o.setTemplateID(d.TemplateID),
		o.setTitle(d.Title),
		o.setSchedule(d.Required, d.Deadline),
	); err != nil {
		return nil, err
	}

	o.timeline.Created = &now
	return o, nil
}

// RestoreOrder rebuilds an order from persisted state and checks the workflow
// invariants. It raises no events.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		workflowID:   s.WorkflowID,
		storeID:      s.StoreID,
		customerID:   s.CustomerID,
		assignedTo:   s.AssignedTo,
		createdBy:    s.CreatedBy,
		notes:        s.Notes,
		timeline:     s.Timeline.clone(),
		approvedBy:   s.ApprovedBy,
		shippedBy:    s.ShippedBy,
		cancelledBy:  s.CancelledBy,
		completedBy:  s.CompletedBy,
		cancelReason: s.CancelReason,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setProductID(s.ProductID),
		o.setTemplateID(s.TemplateID),
		o.setTitle(s.Title),
		o.checkTimeline(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID           { return o.id }
func (o *Order) ProductID() kernel.UUID    { return o.productID }
func (o *Order) TemplateID() kernel.UUID   { return o.templateID }
func (o *Order) WorkflowID() *kernel.UUID  { return o.workflowID }
func (o *Order) StoreID() *kernel.UUID     { return o.storeID }
func (o *Order) CustomerID() *kernel.UUID  { return o.customerID }
func (o *Order) AssignedTo() *kernel.UUID  { return o.assignedTo }
func (o *Order) CreatedBy() *kernel.UUID   { return o.createdBy }
func (o *Order) Title() string             { return o.title }
func (o *Order) Notes() string             { return o.notes }
func (o *Order) ApprovedBy() *kernel.UUID  { return o.approvedBy }
func (o *Order) ShippedBy() *kernel.UUID   { return o.shippedBy }
func (o *Order) CancelledBy() *kernel.UUID { return o.cancelledBy }
func (o *Order) CompletedBy() *kernel.UUID { return o.completedBy }
func (o *Order) CancelReason() string      { return o.cancelReason }

// Timeline returns a copy of the workflow timestamps.
func (o *Order) Timeline() Timeline {
	return o.timeline.clone()
}

// Status derives the current status at now.
func (o *Order) Status(now time.Time) Status {
	return Calculate(o.timeline, now)
}

// IsOwnedBy reports whether user is the assignee of the order.
func (o *Order) IsOwnedBy(user kernel.UUID) bool {
	return kernel.SameOptional(o.assignedTo, user)
}

// Snapshot returns the complete state of the order for persistence.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:           o.id,
		ProductID:    o.productID,
		TemplateID:   o.templateID,
		WorkflowID:   o.workflowID,
		StoreID:      o.storeID,
		CustomerID:   o.customerID,
		AssignedTo:   o.assignedTo,
		CreatedBy:    o.createdBy,
		Title:        o.title,
		Notes:        o.notes,
		Timeline:     o.timeline.clone(),
		ApprovedBy:   o.approvedBy,
		ShippedBy:    o.shippedBy,
		CancelledBy:  o.cancelledBy,
		CompletedBy:  o.completedBy,
		CancelReason: o.cancelReason,
	}
}

// Clone returns an independent copy of the order including pending events.
func (o *Order) Clone() *Order {
	c := *o
	c.timeline = o.timeline.clone()
	c.events = slices.Clone(o.events)
	return &c
}

// PreviewApproval returns a copy of the order with the approval applied and
// no events recorded. The receiver is not modified. It is used to evaluate
// permissions that depend on approval before the approval is persisted.
func (o *Order) PreviewApproval(actor kernel.UUID, now time.Time) (*Order, error) {
	c := o.Clone()
	if err := c.Approve(actor, now); err != nil {
		return nil, err
	}
	c.events = nil
	return c, nil
}

// DomainEvents returns the events raised since the last ClearDomainEvents.
func (o *Order) DomainEvents() []DomainEvent {
	return slices.Clone(o.events)
}

// ClearDomainEvents drops all recorded events.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

// CheckEdit returns an InvalidTransitionError if the details can no longer change.
func (o *Order) CheckEdit() error {
	switch {
	case o.timeline.IsShipped():
		return transitionError(ActionEdit, PreconditionAlreadyShipped)
	case o.timeline.IsCancelled():
		return transitionError(ActionEdit, PreconditionAlreadyCancelled)
	}
	return nil
}

// CheckApprove returns an InvalidTransitionError unless the order is awaiting approval.
func (o *Order) CheckApprove() error {
	return o.checkApprove(ActionApprove)
}

// CheckApproveAndShip has the same preconditions as CheckApprove.
func (o *Order) CheckApproveAndShip() error {
	return o.checkApprove(ActionApproveAndShip)
}

func (o *Order) checkApprove(action Action) error {
	switch {
	case o.timeline.IsApproved():
		return transitionError(action, PreconditionAlreadyApproved)
	case o.timeline.IsShipped():
		return transitionError(action, PreconditionAlreadyShipped)
	case o.timeline.IsCancelled():
		return transitionError(action, PreconditionAlreadyCancelled)
	}
	return nil
}

// CheckUnapprove requires an approved order that is not shipped.
func (o *Order) CheckUnapprove() error {
	switch {
	case !o.timeline.IsApproved():
		return transitionError(ActionUnapprove, PreconditionNotYetApproved)
	case o.timeline.IsShipped():
		return transitionError(ActionUnapprove, PreconditionAlreadyShipped)
	}
	return nil
}

// CheckShip requires an approved order that is neither shipped nor cancelled.
func (o *Order) CheckShip() error {
	switch {
	case !o.timeline.IsApproved():
		return transitionError(ActionShip, PreconditionNotYetApproved)
	case o.timeline.IsShipped():
		return transitionError(ActionShip, PreconditionAlreadyShipped)
	case o.timeline.IsCancelled():
		return transitionError(ActionShip, PreconditionAlreadyCancelled)
	}
	return nil
}

// CheckRecallShipment requires a shipped order.
func (o *Order) CheckRecallShipment() error {
	if !o.timeline.IsShipped() {
		return transitionError(ActionRecallShipment, PreconditionNotShipped)
	}
	return nil
}

// CheckCancel requires an order that is neither cancelled nor shipped.
func (o *Order) CheckCancel() error {
	switch {
	case o.timeline.IsCancelled():
		return transitionError(ActionCancel, PreconditionAlreadyCancelled)
	case o.timeline.IsShipped():
		return transitionError(ActionCancel, PreconditionAlreadyShipped)
	}
	return nil
}

// CheckRestore requires a cancelled order.
func (o *Order) CheckRestore() error {
	if !o.timeline.IsCancelled() {
		return transitionError(ActionRestore, PreconditionNotCancelled)
	}
	return nil
}

// UpdateDetails replaces the editable attributes. It fails with an
// InvalidTransitionError on shipped or cancelled orders and with joined
// validation errors on bad input. Nothing changes on failure.
func (o *Order) UpdateDetails(e Edit) error {
	if err := o.CheckEdit(); err != nil {
		return err
	}

	next := *o
	if err := errors.Join(
		next.setTitle(e.Title),
		next.setSchedule(e.Required, e.Deadline),
	); err != nil {
		return err
	}

	o.title = next.title
	o.timeline.Required = next.timeline.Required
	o.timeline.Deadline = next.timeline.Deadline
	o.notes = e.Notes
	o.assignedTo = e.AssignedTo
	return nil
}

// Approve records the approval by actor and raises ApprovedEvent.
func (o *Order) Approve(actor kernel.UUID, now time.Time) error {
	if err := errors.Join(validateActor(actor), o.CheckApprove()); err != nil {
		return err
	}

	o.applyApproval(actor, now)
	return nil
}

// Unapprove clears the approval. No event is raised.
func (o *Order) Unapprove() error {
	if err := o.CheckUnapprove(); err != nil {
		return err
	}

	o.timeline.Approved = nil
	o.approvedBy = nil
	return nil
}

// Ship records the shipment by actor and raises ShippedEvent.
func (o *Order) Ship(actor kernel.UUID, now time.Time) error {
	if err := errors.Join(validateActor(actor), o.CheckShip()); err != nil {
		return err
	}

	o.applyShipment(actor, now)
	return nil
}

// ApproveAndShip records approval and shipment at the same instant and raises
// ApprovedEvent followed by ShippedEvent.
func (o *Order) ApproveAndShip(actor kernel.UUID, now time.Time) error {
	if err := errors.Join(validateActor(actor), o.CheckApproveAndShip()); err != nil {
		return err
	}

	o.applyApproval(actor, now)
	o.applyShipment(actor, now)
	return nil
}

// RecallShipment clears the shipment and keeps the approval. No event is raised.
func (o *Order) RecallShipment() error {
	if err := o.CheckRecallShipment(); err != nil {
		return err
	}

	o.timeline.Shipped = nil
	o.shippedBy = nil
	return nil
}

// Cancel records the cancellation with an optional reason and raises
// CancelledEvent. Approval and shipment timestamps are left untouched.
func (o *Order) Cancel(actor kernel.UUID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if err := errors.Join(validateActor(actor), validateCancelReason(reason), o.CheckCancel()); err != nil {
		return err
	}

	at := now
	o.timeline.Cancelled = &at
	o.cancelledBy = &actor
	o.cancelReason = reason
	o.raise(CancelledEvent{OrderID: o.id, Title: o.title, Canceller: actor, Reason: reason, At: at})
	return nil
}

// Restore clears the cancellation and its reason. No event is raised.
func (o *Order) Restore() error {
	if err := o.CheckRestore(); err != nil {
		return err
	}

	o.timeline.Cancelled = nil
	o.cancelledBy = nil
	o.cancelReason = ""
	return nil
}

func (o *Order) applyApproval(actor kernel.UUID, now time.Time) {
	at := now
	o.timeline.Approved = &at
	o.approvedBy = &actor
	o.raise(ApprovedEvent{OrderID: o.id, Title: o.title, Approver: actor, At: at})
}

func (o *Order) applyShipment(actor kernel.UUID, now time.Time) {
	at := now
	o.timeline.Shipped = &at
	o.shippedBy = &actor
	o.raise(ShippedEvent{OrderID: o.id, Title: o.title, Shipper: actor, At: at})
}

func (o *Order) raise(e DomainEvent) {
	o.events = append(o.events, e)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	o.id = id
	return nil
}

func (o *Order) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("productID", err)
	}
	o.productID = id
	return nil
}

func (o *Order) setTemplateID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("templateID", err)
	}
	o.templateID = id
	return nil
}

func (o *Order) setTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return errs.NewValueIsOutOfRangeError("title length", n, 1, MaxTitleLength)
	}
	o.title = title
	return nil
}

func (o *Order) setSchedule(required, deadline *time.Time) error {
	if required != nil && deadline != nil && !deadline.After(*required) {
		return errs.NewValueIsInvalidErrorWithCause(
			"deadline",
			fmt.Errorf("deadline %s must be after required date %s",
				deadline.Format(time.RFC3339), required.Format(time.RFC3339)),
		)
	}
	o.timeline.Required = cloneTime(required)
	o.timeline.Deadline = cloneTime(deadline)
	return nil
}

func (o *Order) checkTimeline() error {
	t := o.timeline
	var result []error

	if t.Shipped != nil {
		if t.Approved == nil {
			result = append(result, errs.NewValueIsInvalidErrorWithCause(
				"shipped", errors.New("shipped order has no approval")))
		} else if t.Approved.After(*t.Shipped) {
			result = append(result, errs.NewValueIsInvalidErrorWithCause(
				"approved", errors.New("approval is later than shipment")))
		}
	}
	if o.cancelReason != "" && t.Cancelled == nil {
		result = append(result, errs.NewValueIsInvalidErrorWithCause(
			"cancelReason", errors.New("reason present on an order that is not cancelled")))
	}

	return errors.Join(result...)
}

func validateActor(actor kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actor", err)
	}
	return nil
}

func validateCancelReason(reason string) error {
	if n := utf8.RuneCountInString(reason); n > MaxCancelReasonLength {
		return errs.NewValueIsOutOfRangeError("reason length", n, 0, MaxCancelReasonLength)
	}
	return nil
}

func transitionError(action Action, precondition string) error {
	return errs.NewInvalidTransitionError(string(action), precondition)
}
