package commands

import (
	"context"

	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/order"
)

// GrantPermissionCommandHandler manages explicit grants. Only users who may
// edit an order may change who else has access to it.
type GrantPermissionCommandHandler struct {
	uowFactory GrantUoWFactory
	authorizer Authorizer
}

func NewGrantPermissionCommandHandler(uowFactory GrantUoWFactory, authorizer Authorizer) GrantPermissionCommandHandler {
	return GrantPermissionCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
	}
}

// Grant upserts the grant described by cmd and returns it.
func (h GrantPermissionCommandHandler) Grant(ctx context.Context, cmd GrantPermissionCommand) (*grant.Grant, error) {
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

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.authorizer.Authorize(ctx, order.ActionEdit, cmd.ActorID(), o); err != nil {
		return nil, err
	}

	g, err := grant.NewGrant(o.ID(), cmd.UserID(), cmd.Module(), cmd.PermissionType(), cmd.Capabilities())
	if err != nil {
		return nil, err
	}

	if err = uow.GrantRepository().Upsert(ctx, g); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return g, nil
}

// Revoke deletes the matching grants and reports whether any existed.
func (h GrantPermissionCommandHandler) Revoke(ctx context.Context, cmd RevokePermissionsCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return false, err
	}

	if err = h.authorizer.Authorize(ctx, order.ActionEdit, cmd.ActorID(), o); err != nil {
		return false, err
	}

	deleted, err := uow.GrantRepository().Delete(ctx, o.ID(), cmd.UserID(), cmd.Module())
	if err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return deleted, nil
}
