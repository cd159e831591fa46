package cmd

import (
	"context"
	"log/slog"

	"parcelhub/internal/adapters/in/http"
	"parcelhub/internal/adapters/out/geo"
	"parcelhub/internal/adapters/out/postgres"
	"parcelhub/internal/adapters/out/postgres/orderrepo"
	"parcelhub/internal/adapters/out/postgres/warehouserepo"
	redisadapter "parcelhub/internal/adapters/out/redis"
	"parcelhub/internal/core/application/usecases/commands"
	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/services"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services and use case handlers.
// It is built once at startup; every Create method hands out a handler
// over the shared dependencies.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	geocoder  ports.Geocoder
	distances ports.DistanceSource
	otpStore  ports.OTPRepository

	pricing services.PricingEngine
	surge   *services.SurgeZoneTracker

	logger *slog.Logger
}

// NewCompositionRoot creates the root over an open database handle and
// Redis client. The surge zones are fixed for the process lifetime.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *goredis.Client,
	zones []services.SurgeZone,
	logger *slog.Logger,
) CompositionRoot {
	provider := geo.NewClient(config.GeoServiceURL, config.GeoServiceKey)
	cache := redisadapter.NewGeoCache(redisClient, provider, provider)

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		geocoder:   cache,
		distances:  cache,
		otpStore:   redisadapter.NewOTPStore(redisClient),
		pricing:    services.NewPricingEngine(),
		surge:      services.NewSurgeZoneTracker(zones),
		logger:     logger,
	}
}

// LoadSurgeZones builds one surge zone per warehouse: hub-and-spoke
// demand concentrates around the hubs, so each hub's catchment is a
// zone.
func LoadSurgeZones(
	ctx context.Context, gormDB *gorm.DB, radiusKM float64,
) ([]services.SurgeZone, error) {
	repo := warehouserepo.NewGormWarehouseRepository(gormDB, noopTracker{})

	hubs, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	zones := make([]services.SurgeZone, 0, len(hubs))
	for _, hub := range hubs {
		zone, zoneErr := services.NewSurgeZone(hub.ID(), hub.Name(), hub.Location(), radiusKM)
		if zoneErr != nil {
			return nil, zoneErr
		}
		zones = append(zones, zone)
	}
	return zones, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.CreateOrderUoWFactory = FuncCreateOrderUoWFactory(func() commands.CreateOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.geocoder, c.distances, c.pricing, c.surge)
}

func (c *CompositionRoot) CreateRequestTransitionCommandHandler() commands.RequestTransitionCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestTransitionCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkReceivedAtWarehouseCommandHandler() commands.MarkReceivedAtWarehouseCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkReceivedAtWarehouseCommandHandler(f)
}

func (c *CompositionRoot) CreateIssueOTPCommandHandler() commands.IssueOTPCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewIssueOTPCommandHandler(f, c.otpStore, commands.OTPPolicy{
		TTL:         c.config.OTPTTL,
		MaxAttempts: c.config.OTPMaxAttempts,
	})
}

func (c *CompositionRoot) CreateVerifyOTPCommandHandler() commands.VerifyOTPCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewVerifyOTPCommandHandler(f, c.otpStore)
}

func (c *CompositionRoot) CreateUpdateRiderLocationCommandHandler() commands.UpdateRiderLocationCommandHandler {
	var f commands.RiderUoWFactory = FuncRiderUoWFactory(func() commands.RiderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateRiderLocationCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateRiderStatusCommandHandler() commands.UpdateRiderStatusCommandHandler {
	var f commands.RiderUoWFactory = FuncRiderUoWFactory(func() commands.RiderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateRiderStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateRunRouteBatchCommandHandler() commands.RunRouteBatchCommandHandler {
	var f commands.BatchUoWFactory = FuncBatchUoWFactory(func() commands.BatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunRouteBatchCommandHandler(f, services.NewRouteBatcher(services.BatchConfig{
		MaxParcelsPerRoute: c.config.MaxParcelsPerRoute,
		MaxDetourKM:        c.config.MaxDetourKM,
		MaxReturnPickups:   c.config.MaxReturnPickups,
	}))
}

func (c *CompositionRoot) CreateRecomputeSurgeCommandHandler() commands.RecomputeSurgeCommandHandler {
	var f commands.FleetScanUoWFactory = FuncFleetScanUoWFactory(func() commands.FleetScanUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecomputeSurgeCommandHandler(f, c.surge)
}

func (c *CompositionRoot) CreateEstimatePriceQueryHandler() queries.EstimatePriceQueryHandler {
	return queries.NewEstimatePriceQueryHandler(c.geocoder, c.distances, c.pricing, c.surge)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderDetailQueryHandler() queries.GetOrderDetailQueryHandler {
	return queries.NewGetOrderDetailQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetFleetSummaryQueryHandler() queries.GetFleetSummaryQueryHandler {
	return queries.NewGetFleetSummaryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRevenueSummaryQueryHandler() queries.GetRevenueSummaryQueryHandler {
	return queries.NewGetRevenueSummaryQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the API server over all handlers.
func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	return http.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateRequestTransitionCommandHandler(),
		c.CreateMarkReceivedAtWarehouseCommandHandler(),
		c.CreateIssueOTPCommandHandler(),
		c.CreateVerifyOTPCommandHandler(),
		c.CreateUpdateRiderLocationCommandHandler(),
		c.CreateUpdateRiderStatusCommandHandler(),
		c.CreateRunRouteBatchCommandHandler(),
		c.CreateEstimatePriceQueryHandler(),
		c.CreateGetOrdersQueryHandler(),
		c.CreateGetOrderDetailQueryHandler(),
		c.CreateGetFleetSummaryQueryHandler(),
		c.CreateGetRevenueSummaryQueryHandler(),
	)
}

// CreateJobManager assembles the background jobs. The dispatch job reads
// hubs and held orders outside any transaction; the batch run itself is
// transactional inside its handler.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	warehouses := warehouserepo.NewGormWarehouseRepository(c.gormDB, noopTracker{})
	orders := orderrepo.NewGormOrderRepository(c.gormDB, noopTracker{})

	batchHandler := c.CreateRunRouteBatchCommandHandler()
	surgeHandler := c.CreateRecomputeSurgeCommandHandler()

	routeBatchJob := jobs.NewRouteBatchJob(
		batchHandler, warehouses, orders,
		c.config.BatchThreshold, c.config.BatchMaxHold, c.config.BatchSchedule,
		c.logger)
	surgeJob := jobs.NewSurgeRecomputeJob(surgeHandler, c.config.SurgeSchedule, c.logger)

	return jobs.NewJobManager(routeBatchJob, surgeJob)
}

// noopTracker satisfies the repositories' tracker dependency for reads
// that happen outside a unit of work.
type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

type FuncCreateOrderUoWFactory func() commands.CreateOrderUoW

func (f FuncCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	return f()
}

type FuncTransitionUoWFactory func() commands.TransitionUoW

func (f FuncTransitionUoWFactory) Create() commands.TransitionUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRiderUoWFactory func() commands.RiderUoW

func (f FuncRiderUoWFactory) Create() commands.RiderUoW {
	return f()
}

type FuncBatchUoWFactory func() commands.BatchUoW

func (f FuncBatchUoWFactory) Create() commands.BatchUoW {
	return f()
}

type FuncFleetScanUoWFactory func() commands.FleetScanUoW

func (f FuncFleetScanUoWFactory) Create() commands.FleetScanUoW {
	return f()
}
