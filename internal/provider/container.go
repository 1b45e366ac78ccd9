package provider

import (
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/payment/mpesa"
	"github.com/storefront-next/internal/payment/stripe"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo       repository.UserRepository
	CategoryRepo   repository.CategoryRepository
	ProductRepo    repository.ProductRepository
	CartRepo       repository.CartRepository
	OrderRepo      repository.OrderRepository
	PaymentRepo    repository.PaymentRepository
	CouponRepo     repository.CouponRepository
	UserCouponRepo repository.UserCouponRepository
	MovementRepo   repository.InventoryMovementRepository
	ReviewRepo     repository.ReviewRepository
	PostRepo       repository.PostRepository
	ReportRepo     repository.ReportRepository

	// Payment providers
	StripeClient *stripe.Client
	MpesaClient  *mpesa.Client

	// Services
	AuthService        *service.AuthService
	CategoryService    *service.CategoryService
	ProductService     *service.ProductService
	InventoryService   *service.InventoryService
	OrderService       *service.OrderService
	CartService        *service.CartService
	CouponService      *service.CouponService
	CouponAdminService *service.CouponAdminService
	PaymentService     *service.PaymentService
	ReviewService      *service.ReviewService
	PostService        *service.PostService
	ReportService      *service.ReportService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
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

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化支付提供方客户端
	c.StripeClient = stripe.NewClient(&cfg.Stripe)
	c.MpesaClient = mpesa.NewClient(&cfg.Mpesa)

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.UserCouponRepo = repository.NewUserCouponRepository(db)
	c.MovementRepo = repository.NewInventoryMovementRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.ReportRepo = repository.NewReportRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.InventoryService = service.NewInventoryService(c.ProductRepo, c.MovementRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.InventoryService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.InventoryService, c.QueueClient, &c.Config.Checkout)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.OrderService)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.UserCouponRepo, c.OrderRepo, c.QueueClient)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderRepo, c.InventoryService, c.QueueClient, c.StripeClient, c.MpesaClient)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo, c.OrderRepo)
	c.PostService = service.NewPostService(c.PostRepo)
	c.ReportService = service.NewReportService(c.ReportRepo)
}
