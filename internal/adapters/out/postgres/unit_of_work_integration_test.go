package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	postgres_adapter "orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/pgtest"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/grant"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/workflow"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

// UnitOfWorkIntegrationTestSuite exercises the unit of work against a real
// PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background(), postgres_adapter.Models()...)
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE order_grants, orders, order_workflows, order_templates, stores, companies").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(owner kernel.UUID) *order.Order {
	required := testNow.Add(24 * time.Hour)
	deadline := testNow.Add(48 * time.Hour)
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		ProductID:  kernel.NewUUID(),
		TemplateID: kernel.NewUUID(),
		AssignedTo: &owner,
		Title:      "Integration order",
		Required:   &required,
		Deadline:   &deadline,
	}, &owner, testNow)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) countOrders() int64 {
	var n int64
	suite.Require().NoError(suite.db.Table("orders").Count(&n).Error)
	return n
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitSpansRepositories() {
	ctx := context.Background()
	owner := kernel.NewUUID()
	o := suite.newOrder(owner)
	tpl, err := workflow.NewTemplate(o.TemplateID(), workflow.TemplateParams{
		CompanyID: kernel.NewUUID(),
		Name:      "Bakery",
		Settings:  workflow.Settings{Frequency: workflow.Daily},
	})
	suite.Require().NoError(err)
	g, err := grant.NewGrant(o.ID(), kernel.NewUUID(), grant.DefaultModule, "", grant.Capabilities{Ship: true})
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WorkflowRepository().AddTemplate(ctx, tpl))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.GrantRepository().Upsert(ctx, g))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	_, err = reader.WorkflowRepository().GetTemplate(ctx, tpl.ID())
	suite.Require().NoError(err)
	_, err = reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	grants, err := reader.GrantRepository().ListForOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Len(grants, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsChangesAndEvents() {
	ctx := context.Background()
	owner := kernel.NewUUID()
	o := suite.newOrder(owner)

	seed := suite.factory.Create()
	suite.Require().NoError(seed.OrderRepository().Add(ctx, o))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Approve(owner, testNow))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Empty(uow.PullDomainEvents())

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.False(stored.Timeline().IsApproved())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PullDomainEventsAfterCommit() {
	ctx := context.Background()
	owner := kernel.NewUUID()
	o := suite.newOrder(owner)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	repo := uow.OrderRepository()
	loaded, err := repo.GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.ApproveAndShip(owner, testNow))
	suite.Require().NoError(repo.Update(ctx, loaded))
	suite.Require().NoError(uow.Commit(ctx))

	events := uow.PullDomainEvents()
	suite.Require().Len(events, 2)
	suite.Equal(order.EventOrderApproved, events[0].Name())
	suite.Equal(order.EventOrderShipped, events[1].Name())
	suite.Empty(uow.PullDomainEvents(), "events are drained once")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	o := suite.newOrder(kernel.NewUUID())

	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))
	suite.Equal(int64(1), suite.countOrders())
}

// TestUnitOfWork_ConcurrentApprovals runs the lifecycle handler against the
// real database: the row lock lets exactly one approval through.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentApprovals() {
	ctx := context.Background()
	owner := kernel.NewUUID()
	o := suite.newOrder(owner)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	clock := kernel.FixedClock(testNow)
	grants := postgres_adapter.NewGormUnitOfWorkFactory(suite.db).Create().GrantRepository()
	evaluator, err := services.NewPermissionEvaluator(grants, noCapabilities{}, clock, services.PermissionEvaluatorConfig{})
	suite.Require().NoError(err)

	factory := orderUoWFactory(func() commands.OrderUoW { return suite.factory.Create() })
	handler := commands.NewOrderLifecycleCommandHandler(factory, evaluator, clock, nil, nil, nil)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
		failures  []error
	)
	for range attempts {
		cmd, err := commands.NewOrderTransitionCommand(o.ID(), owner, "")
		suite.Require().NoError(err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := handler.Approve(ctx, cmd)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, errs.ErrInvalidTransition):
				rejected++
			default:
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	suite.Empty(failures)
	suite.Equal(1, succeeded)
	suite.Equal(attempts-1, rejected)

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(stored.Timeline().IsApproved())
}

type orderUoWFactory func() commands.OrderUoW

func (f orderUoWFactory) Create() commands.OrderUoW { return f() }

type noCapabilities struct{}

func (noCapabilities) HasCapability(context.Context, kernel.UUID, string) (bool, error) {
	return false, nil
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
