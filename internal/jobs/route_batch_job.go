package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// RouteBatchJob runs the dispatch pass over every hub. A hub is
// dispatched when its held-parcel count reaches the batch threshold, or
// when parcels have been waiting a full hold interval, whichever comes
// first. Hubs below both triggers are skipped until the next tick.
type RouteBatchJob struct {
	handler    commands.RunRouteBatchCommandHandler
	warehouses ports.WarehouseRepository
	orders     ports.OrderRepository

	threshold int
	maxHold   time.Duration
	schedule  string

	cron   *cron.Cron
	logger *slog.Logger

	mu           sync.Mutex
	lastDispatch map[string]time.Time
}

// NewRouteBatchJob creates the dispatch job. The schedule is a six-field
// cron expression; threshold and maxHold come from configuration.
func NewRouteBatchJob(
	handler commands.RunRouteBatchCommandHandler,
	warehouses ports.WarehouseRepository,
	orders ports.OrderRepository,
	threshold int,
	maxHold time.Duration,
	schedule string,
	logger *slog.Logger,
) *RouteBatchJob {
	return &RouteBatchJob{
		handler:      handler,
		warehouses:   warehouses,
		orders:       orders,
		threshold:    threshold,
		maxHold:      maxHold,
		schedule:     schedule,
		cron:         cron.New(cron.WithSeconds()),
		logger:       logger.With("component", "route_batch_job"),
		lastDispatch: make(map[string]time.Time),
	}
}

// Start schedules the dispatch ticks.
func (j *RouteBatchJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.tick)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Route batch job started",
		"schedule", j.schedule, "threshold", j.threshold, "max_hold", j.maxHold)
	return nil
}

// Stop stops the dispatch ticks.
func (j *RouteBatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Route batch job stopped")
}

func (j *RouteBatchJob) tick() {
	ctx := context.Background()

	hubs, err := j.warehouses.GetAll(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Listing warehouses failed", "error", err)
		return
	}

	now := time.Now()
	for _, hub := range hubs {
		held, heldErr := j.orders.GetAllAtWarehouse(ctx, hub.ID())
		if heldErr != nil {
			j.logger.ErrorContext(ctx, "Counting held orders failed",
				"warehouse_id", hub.ID(), "error", heldErr)
			continue
		}
		if len(held) == 0 {
			continue
		}
		if !j.shouldDispatch(hub.ID().String(), len(held), now) {
			continue
		}

		j.dispatch(ctx, hub.ID(), now)
	}
}

func (j *RouteBatchJob) shouldDispatch(hubKey string, heldCount int, now time.Time) bool {
	if heldCount >= j.threshold {
		return true
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	last, ok := j.lastDispatch[hubKey]
	if !ok {
		// First sighting starts the hold clock instead of dispatching a
		// below-threshold hub immediately.
		j.lastDispatch[hubKey] = now
		return false
	}
	return now.Sub(last) >= j.maxHold
}

func (j *RouteBatchJob) dispatch(ctx context.Context, warehouseID kernel.UUID, now time.Time) {
	cmd, err := commands.NewRunRouteBatchCommand(warehouseID)
	if err != nil {
		j.logger.ErrorContext(ctx, "Building batch command failed",
			"warehouse_id", warehouseID, "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Route batch run failed",
			"warehouse_id", warehouseID, "error", err)
		return
	}

	j.mu.Lock()
	j.lastDispatch[warehouseID.String()] = now
	j.mu.Unlock()

	if len(result.Routes) > 0 || len(result.Unassigned) > 0 {
		j.logger.InfoContext(ctx, "Route batch run completed",
			"warehouse_id", warehouseID,
			"routes", len(result.Routes),
			"unassigned", len(result.Unassigned))
	}
}
