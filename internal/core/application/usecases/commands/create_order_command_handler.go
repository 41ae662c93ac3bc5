package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// The referenced template, and the workflow when one is given, must exist.
// New orders start Pending with only the creation timestamp set.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, kernel.SystemClock{})
//	o, err := handler.Handle(ctx, cmd)
//	if errs.IsValidation(err) {
//	    // report field errors to the caller
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, clock kernel.Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle validates the references, creates the order and persists it.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	details := cmd.Details()
	if err := h.checkReferences(ctx, uow, details); err != nil {
		return nil, err
	}

	creator := cmd.CreatorID()
	o, err := order.NewOrder(cmd.OrderID(), details, &creator, h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// checkReferences turns unknown template or workflow identifiers into
// validation errors on the corresponding field.
func (h CreateOrderCommandHandler) checkReferences(ctx context.Context, uow UoW, d order.Details) error {
	workflows := uow.WorkflowRepository()

	var result []error
	if err := d.TemplateID.Validate(); err == nil {
		if _, err = workflows.GetTemplate(ctx, d.TemplateID); err != nil {
			result = append(result, referenceError("templateID", err))
		}
	}
	if d.WorkflowID != nil {
		w, err := workflows.GetWorkflow(ctx, *d.WorkflowID)
		switch {
		case err != nil:
			result = append(result, referenceError("workflowID", err))
		case !w.TemplateID().IsEqual(d.TemplateID):
			result = append(result, errs.NewValueIsInvalidErrorWithCause(
				"workflowID", errors.New("workflow belongs to another template")))
		}
	}

	return errors.Join(result...)
}

func referenceError(field string, err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return err
}
