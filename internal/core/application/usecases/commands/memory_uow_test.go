package commands_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

var errNoTransaction = errors.New("no active transaction")

// memoryStore keeps committed orders. tx is held from Begin until Commit or
// Rollback, which serialises units of work the way a row lock would.
type memoryStore struct {
	tx     sync.Mutex
	mu     sync.Mutex
	orders map[kernel.UUID]order.Snapshot
	grants map[string]grant.Capabilities
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders: make(map[kernel.UUID]order.Snapshot),
		grants: make(map[string]grant.Capabilities),
	}
}

func (s *memoryStore) put(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = o.Snapshot()
}

func (s *memoryStore) load(id kernel.UUID) (*order.Order, error) {
	s.mu.Lock()
	snap, ok := s.orders[id]
	s.mu.Unlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snap)
}

func grantKey(orderID, userID kernel.UUID) string {
	return orderID.String() + "/" + userID.String()
}

func (s *memoryStore) grant(orderID, userID kernel.UUID, caps grant.Capabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey(orderID, userID)] = caps
}

// Find implements services.GrantFinder.
func (s *memoryStore) Find(_ context.Context, orderID, userID kernel.UUID, module string) (*grant.Grant, error) {
	s.mu.Lock()
	caps, ok := s.grants[grantKey(orderID, userID)]
	s.mu.Unlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("grant", userID.String())
	}
	return grant.NewGrant(orderID, userID, module, "", caps)
}

func (s *memoryStore) factory() memoryUoWFactory {
	return memoryUoWFactory{store: s}
}

type memoryUoWFactory struct {
	store *memoryStore
}

func (f memoryUoWFactory) Create() commands.OrderUoW {
	return &memoryUoW{store: f.store}
}

type memoryUoW struct {
	store   *memoryStore
	active  bool
	staged  map[kernel.UUID]order.Snapshot
	tracked []*order.Order
}

func (u *memoryUoW) Begin(context.Context) error {
	u.store.tx.Lock()
	u.active = true
	u.staged = make(map[kernel.UUID]order.Snapshot)
	u.tracked = nil
	return nil
}

func (u *memoryUoW) Commit(context.Context) error {
	if !u.active {
		return errNoTransaction
	}
	u.store.mu.Lock()
	for id, snap := range u.staged {
		u.store.orders[id] = snap
	}
	u.store.mu.Unlock()
	u.end()
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	if !u.active {
		return errNoTransaction
	}
	u.tracked = nil
	u.end()
	return nil
}

func (u *memoryUoW) end() {
	u.active = false
	u.staged = nil
	u.store.tx.Unlock()
}

func (u *memoryUoW) OrderRepository() ports.OrderRepository {
	return memoryOrderRepository{uow: u}
}

func (u *memoryUoW) PullDomainEvents() []order.DomainEvent {
	var events []order.DomainEvent
	for _, o := range u.tracked {
		events = append(events, o.DomainEvents()...)
		o.ClearDomainEvents()
	}
	u.tracked = nil
	return events
}

type memoryOrderRepository struct {
	uow *memoryUoW
}

func (r memoryOrderRepository) Add(_ context.Context, o *order.Order) error {
	r.uow.staged[o.ID()] = o.Snapshot()
	r.uow.tracked = append(r.uow.tracked, o)
	return nil
}

func (r memoryOrderRepository) Update(ctx context.Context, o *order.Order) error {
	if _, err := r.Get(ctx, o.ID()); err != nil {
		return err
	}
	r.uow.staged[o.ID()] = o.Snapshot()
	r.uow.tracked = append(r.uow.tracked, o)
	return nil
}

func (r memoryOrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if snap, ok := r.uow.staged[id]; ok {
		return order.RestoreOrder(snap)
	}
	return r.uow.store.load(id)
}

func (r memoryOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r memoryOrderRepository) Delete(context.Context, kernel.UUID) error {
	return errors.New("not supported")
}

func (r memoryOrderRepository) ListOverdue(context.Context, time.Time) ([]*order.Order, error) {
	return nil, errors.New("not supported")
}

func (r memoryOrderRepository) ListApproachingDeadline(context.Context, time.Time, time.Duration) ([]*order.Order, error) {
	return nil, errors.New("not supported")
}

func (r memoryOrderRepository) ListAssignedTo(context.Context, kernel.UUID, ports.Page) ([]*order.Order, int64, error) {
	return nil, 0, errors.New("not supported")
}

func (r memoryOrderRepository) ListPending(context.Context, ports.Page) ([]*order.Order, int64, error) {
	return nil, 0, errors.New("not supported")
}

func (r memoryOrderRepository) ListByProduct(context.Context, kernel.UUID) ([]*order.Order, error) {
	return nil, errors.New("not supported")
}

// recordingPublisher collects everything it is asked to publish.
type recordingPublisher struct {
	mu     sync.Mutex
	events []order.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...order.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) Published() []order.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]order.DomainEvent(nil), p.events...)
}

type staticCapabilities map[kernel.UUID]bool

func (c staticCapabilities) HasCapability(_ context.Context, userID kernel.UUID, _ string) (bool, error) {
	return c[userID], nil
}
