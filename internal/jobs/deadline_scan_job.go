package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// DefaultDeadlineScanSchedule runs the scan every fifteen minutes.
const DefaultDeadlineScanSchedule = "0 */15 * * * *"

// DeadlineReader lists orders by deadline. queries.DeadlineQueryHandler implements it.
type DeadlineReader interface {
	Overdue(ctx context.Context, query queries.GetOverdueOrdersQuery) ([]queries.OrderSummary, error)
	ApproachingDeadline(ctx context.Context, query queries.GetApproachingDeadlineOrdersQuery) ([]queries.OrderSummary, error)
}

// ScanObserver receives the result of every successful scan.
type ScanObserver interface {
	ObserveDeadlineScan(overdue, approaching int)
}

// ScanResult is what one run of DeadlineScanJob found.
type ScanResult struct {
	Overdue     []queries.OrderSummary
	Approaching []queries.OrderSummary
}

// DeadlineScanJob periodically reports orders past their deadline and orders
// whose required date falls within the warning window.
type DeadlineScanJob struct {
	reader   DeadlineReader
	window   time.Duration
	schedule string
	observer ScanObserver
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewDeadlineScanJob creates the job. An empty schedule falls back to
// DefaultDeadlineScanSchedule; observer may be nil.
func NewDeadlineScanJob(
	reader DeadlineReader,
	window time.Duration,
	schedule string,
	observer ScanObserver,
	logger *slog.Logger,
) *DeadlineScanJob {
	if schedule == "" {
		schedule = DefaultDeadlineScanSchedule
	}
	return &DeadlineScanJob{
		reader:   reader,
		window:   window,
		schedule: schedule,
		observer: observer,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "deadline_scan_job"),
	}
}

// Run performs one scan.
func (j *DeadlineScanJob) Run(ctx context.Context) (ScanResult, error) {
	overdue, err := j.reader.Overdue(ctx, queries.NewGetOverdueOrdersQuery())
	if err != nil {
		return ScanResult{}, fmt.Errorf("list overdue orders: %w", err)
	}

	query, err := queries.NewGetApproachingDeadlineOrdersQuery(j.window)
	if err != nil {
		return ScanResult{}, err
	}
	approaching, err := j.reader.ApproachingDeadline(ctx, query)
	if err != nil {
		return ScanResult{}, fmt.Errorf("list orders approaching deadline: %w", err)
	}

	for _, o := range overdue {
		j.logger.WarnContext(ctx, "Order is overdue",
			"order_id", o.ID.String(),
			"title", o.Title,
			"deadline", o.Deadline)
	}
	j.logger.InfoContext(ctx, "Deadline scan finished",
		"overdue", len(overdue),
		"approaching", len(approaching),
		"window", j.window.String())

	if j.observer != nil {
		j.observer.ObserveDeadlineScan(len(overdue), len(approaching))
	}

	return ScanResult{Overdue: overdue, Approaching: approaching}, nil
}

// Start schedules the scan.
func (j *DeadlineScanJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Deadline scan job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Deadline scan job started", "schedule", j.schedule)
	return nil
}

// Stop stops the schedule and waits for a running scan to finish.
func (j *DeadlineScanJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Deadline scan job stopped")
}
