package commands_test

import (
	"context"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) ListOverdue(ctx context.Context, now time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListApproachingDeadline(
	ctx context.Context, now time.Time, within time.Duration,
) ([]*order.Order, error) {
	args := m.Called(ctx, now, within)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAssignedTo(
	ctx context.Context, userID kernel.UUID, page ports.Page,
) ([]*order.Order, int64, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListPending(ctx context.Context, page ports.Page) ([]*order.Order, int64, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByProduct(ctx context.Context, productID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockGrantRepository struct{ mock.Mock }

func (m *MockGrantRepository) Find(ctx context.Context, orderID, userID kernel.UUID, module string) (*grant.Grant, error) {
	args := m.Called(ctx, orderID, userID, module)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grant.Grant), args.Error(1)
}

func (m *MockGrantRepository) ListForOrder(ctx context.Context, orderID kernel.UUID) ([]*grant.Grant, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*grant.Grant), args.Error(1)
}

func (m *MockGrantRepository) Upsert(ctx context.Context, g *grant.Grant) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGrantRepository) Delete(ctx context.Context, orderID, userID kernel.UUID, module string) (bool, error) {
	args := m.Called(ctx, orderID, userID, module)
	return args.Bool(0), args.Error(1)
}

type MockWorkflowRepository struct{ mock.Mock }

func (m *MockWorkflowRepository) AddCompany(ctx context.Context, c *workflow.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockWorkflowRepository) GetCompany(ctx context.Context, id kernel.UUID) (*workflow.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Company), args.Error(1)
}

func (m *MockWorkflowRepository) AddStore(ctx context.Context, s *workflow.Store) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockWorkflowRepository) GetStore(ctx context.Context, id kernel.UUID) (*workflow.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Store), args.Error(1)
}

func (m *MockWorkflowRepository) AddTemplate(ctx context.Context, t *workflow.Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockWorkflowRepository) GetTemplate(ctx context.Context, id kernel.UUID) (*workflow.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Template), args.Error(1)
}

func (m *MockWorkflowRepository) AddWorkflow(ctx context.Context, w *workflow.Workflow) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWorkflowRepository) GetWorkflow(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Workflow), args.Error(1)
}

// MockUoW satisfies every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) GrantRepository() ports.GrantRepository {
	args := m.Called()
	return args.Get(0).(ports.GrantRepository)
}

func (m *MockUoW) WorkflowRepository() ports.WorkflowRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkflowRepository)
}

func (m *MockUoW) PullDomainEvents() []order.DomainEvent {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]order.DomainEvent)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockGrantUoWFactory struct{ mock.Mock }

func (m *MockGrantUoWFactory) Create() commands.GrantUoW {
	args := m.Called()
	return args.Get(0).(commands.GrantUoW)
}

type MockWorkflowUoWFactory struct{ mock.Mock }

func (m *MockWorkflowUoWFactory) Create() commands.WorkflowUoW {
	args := m.Called()
	return args.Get(0).(commands.WorkflowUoW)
}

type MockAuthorizer struct{ mock.Mock }

func (m *MockAuthorizer) Authorize(ctx context.Context, action order.Action, userID kernel.UUID, o *order.Order) error {
	args := m.Called(ctx, action, userID, o)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, events ...order.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockTransitionObserver struct{ mock.Mock }

func (m *MockTransitionObserver) ObserveTransition(action order.Action, outcome commands.Outcome) {
	m.Called(action, outcome)
}
