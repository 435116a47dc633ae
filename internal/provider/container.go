package provider

import (
	"github.com/thread-next/internal/cache"
	"github.com/thread-next/internal/config"
	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/models"
	"github.com/thread-next/internal/queue"
	"github.com/thread-next/internal/repository"
	"github.com/thread-next/internal/service"
)

// Container is the dependency injection container.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo          repository.UserRepository
	ProductRepo       repository.ProductRepository
	ProductDetailRepo repository.ProductDetailRepository
	InventoryRepo     repository.InventoryRepository
	VoucherRepo       repository.VoucherRepository
	PaymentMethodRepo repository.PaymentMethodRepository
	OrderRepo         repository.OrderRepository

	// Services
	EmailService        *service.EmailService
	NotificationService *service.NotificationService
	VoucherService      *service.VoucherService
	StockStatusService  *service.StockStatusService
	OrderService        *service.OrderService
	OrderStatusService  *service.OrderStatusService
	AutoCancelService   *service.AutoCancelService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ProductDetailRepo = repository.NewProductDetailRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.VoucherRepo = repository.NewVoucherRepository(db)
	c.PaymentMethodRepo = repository.NewPaymentMethodRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.NotificationService = service.NewNotificationService(c.OrderRepo, c.UserRepo, c.EmailService)
	c.VoucherService = service.NewVoucherService(c.VoucherRepo)
	c.StockStatusService = service.NewStockStatusService(c.ProductRepo, c.InventoryRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.ProductDetailRepo,
		c.InventoryRepo,
		c.PaymentMethodRepo,
		c.VoucherService,
		c.StockStatusService,
		c.QueueClient,
	)
	c.OrderStatusService = service.NewOrderStatusService(
		c.OrderRepo,
		c.InventoryRepo,
		c.StockStatusService,
		c.QueueClient,
	)

	var gate cache.SweepGate
	if cache.Enabled() {
		gate = cache.NewRedisSweepGate()
	} else {
		gate = cache.NewMemorySweepGate()
	}
	c.AutoCancelService = service.NewAutoCancelService(
		c.OrderRepo,
		c.OrderStatusService,
		gate,
		c.Config.Order.AutoCancelAfterHours,
		c.Config.Order.AutoCancelSweepIntervalMin,
	)
}
