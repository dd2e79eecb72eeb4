package cmd

import (
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/payment"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/auditrepo"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/clientrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/redis/ratecache"
	"fulfillment/internal/adapters/out/shiprocket"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/keylock"
	"fulfillment/internal/pkg/resilience"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	carriers   ports.CarrierClientFactory
	locker     keylock.Locker
	logger     *slog.Logger
}

// NewCompositionRoot wires the use cases. rates may be nil, in which case courier
// quotes always go to the carrier.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, rates ports.RateCache, logger *slog.Logger) CompositionRoot {
	var carriers ports.CarrierClientFactory = newCarrierFactory(cfg, logger)
	if rates != nil {
		carriers = ratecache.NewCachingFactory(carriers, rates, logger)
	}

	var locker keylock.Locker = keylock.Noop{}
	if cfg.StockLocking {
		locker = keylock.NewLocal()
	}

	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		carriers:   carriers,
		locker:     locker,
		logger:     logger,
	}
}

func newCarrierFactory(cfg Config, logger *slog.Logger) *shiprocket.Factory {
	retry := resilience.DefaultRetryConfig()
	if cfg.RetryMaxAttempts > 0 {
		retry.MaxAttempts = cfg.RetryMaxAttempts
	}
	if cfg.RetryInitialDelay > 0 {
		retry.InitialDelay = cfg.RetryInitialDelay
	}
	if cfg.RetryMaxDelay > 0 {
		retry.MaxDelay = cfg.RetryMaxDelay
	}

	breaker := resilience.DefaultCircuitBreakerConfig("shiprocket")
	if cfg.BreakerFailureThreshold > 0 {
		breaker.FailureThreshold = cfg.BreakerFailureThreshold
	}
	if cfg.BreakerOpenTimeout > 0 {
		breaker.Timeout = cfg.BreakerOpenTimeout
	}

	opts := []shiprocket.Option{
		shiprocket.WithBaseURL(cfg.ShiprocketBaseURL),
		shiprocket.WithTokenTTL(cfg.ShiprocketTokenTTL),
		shiprocket.WithRetry(retry),
		shiprocket.WithCircuitBreaker(breaker),
	}
	if cfg.ShiprocketTimeout > 0 {
		opts = append(opts, shiprocket.WithHTTPClient(&http.Client{Timeout: cfg.ShiprocketTimeout}))
	}
	return shiprocket.NewFactory(logger, opts...)
}

func (c *CompositionRoot) CreateProcessPaymentApprovalCommandHandler() commands.ProcessPaymentApprovalCommandHandler {
	var f commands.PaymentApprovalUoWFactory = FuncPaymentApprovalUoWFactory(func() commands.PaymentApprovalUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessPaymentApprovalCommandHandler(
		f,
		c.locker,
		payment.NewSignatureVerifier(c.cfg.PaymentSecret, c.logger),
		c.carriers,
		auditrepo.NewGormAuditLog(c.gormDB),
		c.logger,
	)
}

func (c *CompositionRoot) CreateCancelShipmentCommandHandler() commands.CancelShipmentCommandHandler {
	return commands.NewCancelShipmentCommandHandler(c.shipmentUoWFactory(), c.carriers, c.logger)
}

func (c *CompositionRoot) CreateRefreshTrackingCommandHandler() commands.RefreshTrackingCommandHandler {
	return commands.NewRefreshTrackingCommandHandler(c.shipmentUoWFactory(), c.carriers, c.logger)
}

func (c *CompositionRoot) CreateCreateReturnCommandHandler() commands.CreateReturnCommandHandler {
	return commands.NewCreateReturnCommandHandler(c.returnUoWFactory(), c.carriers, c.logger)
}

func (c *CompositionRoot) CreateCancelReturnShipmentCommandHandler() commands.CancelReturnShipmentCommandHandler {
	return commands.NewCancelReturnShipmentCommandHandler(c.returnUoWFactory(), c.carriers, c.logger)
}

func (c *CompositionRoot) CreateGetShipmentQueryHandler() queries.GetShipmentQueryHandler {
	return queries.NewGetShipmentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderShipmentsQueryHandler() queries.GetOrderShipmentsQueryHandler {
	return queries.NewGetOrderShipmentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateCalculateShippingQueryHandler() queries.CalculateShippingQueryHandler {
	return queries.NewCalculateShippingQueryHandler(clientrepo.NewGormClientRepository(c.gormDB), c.carriers, c.logger)
}

func (c *CompositionRoot) CreateOptimizeOrderQueryHandler() queries.OptimizeOrderQueryHandler {
	return queries.NewOptimizeOrderQueryHandler(
		catalogrepo.NewGormCatalogRepository(c.gormDB),
		inventoryrepo.NewGormInventoryRepository(c.gormDB),
		clientrepo.NewGormClientRepository(c.gormDB),
		c.carriers,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetWalletBalanceQueryHandler() queries.GetWalletBalanceQueryHandler {
	return queries.NewGetWalletBalanceQueryHandler(clientrepo.NewGormClientRepository(c.gormDB), c.carriers, c.logger)
}

// HTTPHandlers collects every use case the API serves.
func (c *CompositionRoot) HTTPHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		PaymentApproval:   c.CreateProcessPaymentApprovalCommandHandler(),
		CancelShipment:    c.CreateCancelShipmentCommandHandler(),
		CreateReturn:      c.CreateCreateReturnCommandHandler(),
		CancelReturn:      c.CreateCancelReturnShipmentCommandHandler(),
		GetShipment:       c.CreateGetShipmentQueryHandler(),
		GetOrderShipments: c.CreateGetOrderShipmentsQueryHandler(),
		CalculateShipping: c.CreateCalculateShippingQueryHandler(),
		OptimizeOrder:     c.CreateOptimizeOrderQueryHandler(),
		WalletBalance:     c.CreateGetWalletBalanceQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateRefreshTrackingCommandHandler(), jobs.Config{
		TrackingSchedule:  c.cfg.TrackingSchedule,
		TrackingBatchSize: c.cfg.TrackingBatchSize,
	}, c.logger)
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) returnUoWFactory() commands.ReturnUoWFactory {
	return FuncReturnUoWFactory(func() commands.ReturnUoW {
		return c.uowFactory.Create()
	})
}

type FuncPaymentApprovalUoWFactory func() commands.PaymentApprovalUoW

func (f FuncPaymentApprovalUoWFactory) Create() commands.PaymentApprovalUoW {
	return f()
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncReturnUoWFactory func() commands.ReturnUoW

func (f FuncReturnUoWFactory) Create() commands.ReturnUoW {
	return f()
}
