package cmd

import (
	"log/slog"

	httpadapter "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/casbin"
	"orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/metrics"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/grantrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/workflowrepo"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"

	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services and use cases.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      kernel.Clock
	logger     *slog.Logger

	calculator   order.StatusCalculator
	capabilities *casbin.CapabilityChecker
	evaluator    *services.PermissionEvaluator
	publisher    ports.EventPublisher
	kafkaWriter  *kafkago.Writer
	transitions  *metrics.TransitionCounter
	deadlines    *metrics.DeadlineGauges
}

// NewCompositionRoot builds the shared services. Transition counters and
// deadline gauges are registered on reg.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	reg prometheus.Registerer,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	clock := kernel.SystemClock{}

	calculator, err := order.NewStatusCalculator(config.WarningThreshold)
	if err != nil {
		return nil, err
	}

	capabilities, err := casbin.NewCapabilityChecker(config.CapabilityPolicyPath)
	if err != nil {
		return nil, err
	}

	evaluator, err := services.NewPermissionEvaluator(
		grantrepo.NewGormGrantRepository(gormDB),
		capabilities,
		clock,
		services.PermissionEvaluatorConfig{
			Module:                config.PermissionModule,
			EditOverduePermission: config.EditOverduePermission,
		},
	)
	if err != nil {
		return nil, err
	}

	transitions, err := metrics.NewTransitionCounter(reg)
	if err != nil {
		return nil, err
	}
	deadlines, err := metrics.NewDeadlineGauges(reg)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		config:       config,
		gormDB:       gormDB,
		uowFactory:   postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:        clock,
		logger:       logger,
		calculator:   calculator,
		capabilities: capabilities,
		evaluator:    evaluator,
		transitions:  transitions,
		deadlines:    deadlines,
	}

	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		root.kafkaWriter = kafka.NewWriter(brokers, config.KafkaOrderEventsTopic)
		root.publisher = kafka.NewEventPublisher(root.kafkaWriter, logger)
	} else {
		logger.Warn("KAFKA_HOST is empty, order events are only logged")
		root.publisher = kafka.NewLogPublisher(logger)
	}

	return root, nil
}

// Close releases the event writer.
func (c *CompositionRoot) Close() error {
	if c.kafkaWriter != nil {
		return c.kafkaWriter.Close()
	}
	return nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	return commands.NewUpdateOrderCommandHandler(c.orderUoWFactory(), c.evaluator)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory(), c.evaluator)
}

func (c *CompositionRoot) CreateOrderLifecycleCommandHandler() commands.OrderLifecycleCommandHandler {
	return commands.NewOrderLifecycleCommandHandler(
		c.orderUoWFactory(), c.evaluator, c.clock, c.publisher, c.transitions, c.logger)
}

func (c *CompositionRoot) CreateGrantPermissionCommandHandler() commands.GrantPermissionCommandHandler {
	var f commands.GrantUoWFactory = FuncGrantUoWFactory(func() commands.GrantUoW {
		return c.uowFactory.Create()
	})
	return commands.NewGrantPermissionCommandHandler(f, c.evaluator)
}

func (c *CompositionRoot) CreateCreateCustomWorkflowCommandHandler() commands.CreateCustomWorkflowCommandHandler {
	var f commands.WorkflowUoWFactory = FuncWorkflowUoWFactory(func() commands.WorkflowUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCustomWorkflowCommandHandler(f, services.NewWorkflowResolver())
}

func (c *CompositionRoot) CreateManageCapabilitiesCommandHandler() commands.ManageCapabilitiesCommandHandler {
	return commands.NewManageCapabilitiesCommandHandler(c.capabilities)
}

func (c *CompositionRoot) CreateOrderDetailsQueryHandler() queries.OrderDetailsQueryHandler {
	return queries.NewOrderDetailsQueryHandler(
		orderrepo.NewGormOrderRepository(c.gormDB, nil),
		workflowrepo.NewGormWorkflowRepository(c.gormDB),
		c.evaluator,
		c.calculator,
		c.clock,
	)
}

func (c *CompositionRoot) CreateDeadlineQueryHandler() queries.DeadlineQueryHandler {
	return queries.NewDeadlineQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil), c.calculator, c.clock)
}

func (c *CompositionRoot) CreateOrderListQueryHandler() queries.OrderListQueryHandler {
	return queries.NewOrderListQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil), c.calculator, c.clock)
}

// CreateHTTPServer wires every use case into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	lifecycle := c.CreateOrderLifecycleCommandHandler()
	grants := c.CreateGrantPermissionCommandHandler()
	details := c.CreateOrderDetailsQueryHandler()
	deadlines := c.CreateDeadlineQueryHandler()

	return httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:    c.CreateCreateOrderCommandHandler(),
		UpdateOrder:    c.CreateUpdateOrderCommandHandler(),
		DeleteOrder:    c.CreateDeleteOrderCommandHandler(),
		Lifecycle:      lifecycle,
		Grants:         grants,
		CustomWorkflow: c.CreateCreateCustomWorkflowCommandHandler(),
		Details:        details,
		Deadlines:      deadlines,
		Lists:          c.CreateOrderListQueryHandler(),
		Capabilities:   c.CreateManageCapabilitiesCommandHandler(),
	}, c.calculator, c.clock, c.logger)
}

// CreateJobManager registers the scheduled jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	jm := jobs.NewJobManager()
	jm.Add("deadline scan", jobs.NewDeadlineScanJob(
		c.CreateDeadlineQueryHandler(),
		c.config.WarningThreshold,
		c.config.DeadlineScanSchedule,
		c.deadlines,
		c.logger,
	))
	return jm
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncGrantUoWFactory func() commands.GrantUoW

func (f FuncGrantUoWFactory) Create() commands.GrantUoW {
	return f()
}

type FuncWorkflowUoWFactory func() commands.WorkflowUoW

func (f FuncWorkflowUoWFactory) Create() commands.WorkflowUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
