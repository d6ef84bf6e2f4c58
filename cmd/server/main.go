// 商城 API 服务主程序
// 聚合商品目录、购物车、优惠券、订单、账户、评价、收藏等上下文
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	accountapp "github.com/qtremors/amanzon/internal/account/application"
	accountdomain "github.com/qtremors/amanzon/internal/account/domain"
	accountmsg "github.com/qtremors/amanzon/internal/account/infrastructure/messaging"
	accountmysql "github.com/qtremors/amanzon/internal/account/infrastructure/persistence/mysql"
	accounthttp "github.com/qtremors/amanzon/internal/account/interfaces/http"
	cartapp "github.com/qtremors/amanzon/internal/cart/application"
	cartdomain "github.com/qtremors/amanzon/internal/cart/domain"
	cartmysql "github.com/qtremors/amanzon/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/qtremors/amanzon/internal/cart/interfaces/http"
	catalogapp "github.com/qtremors/amanzon/internal/catalog/application"
	catalogdomain "github.com/qtremors/amanzon/internal/catalog/domain"
	catalogmysql "github.com/qtremors/amanzon/internal/catalog/infrastructure/persistence/mysql"
	"github.com/qtremors/amanzon/internal/catalog/infrastructure/storage"
	cataloghttp "github.com/qtremors/amanzon/internal/catalog/interfaces/http"
	couponapp "github.com/qtremors/amanzon/internal/coupon/application"
	coupondomain "github.com/qtremors/amanzon/internal/coupon/domain"
	couponmysql "github.com/qtremors/amanzon/internal/coupon/infrastructure/persistence/mysql"
	orderapp "github.com/qtremors/amanzon/internal/order/application"
	orderdomain "github.com/qtremors/amanzon/internal/order/domain"
	checkoutstore "github.com/qtremors/amanzon/internal/order/infrastructure/checkout"
	ordermsg "github.com/qtremors/amanzon/internal/order/infrastructure/messaging"
	ordermysql "github.com/qtremors/amanzon/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/qtremors/amanzon/internal/order/interfaces/http"
	"github.com/qtremors/amanzon/internal/payment"
	reviewapp "github.com/qtremors/amanzon/internal/review/application"
	reviewdomain "github.com/qtremors/amanzon/internal/review/domain"
	reviewmysql "github.com/qtremors/amanzon/internal/review/infrastructure/persistence/mysql"
	reviewhttp "github.com/qtremors/amanzon/internal/review/interfaces/http"
	wishlistapp "github.com/qtremors/amanzon/internal/wishlist/application"
	wishlistdomain "github.com/qtremors/amanzon/internal/wishlist/domain"
	wishlistmysql "github.com/qtremors/amanzon/internal/wishlist/infrastructure/persistence/mysql"
	wishlisthttp "github.com/qtremors/amanzon/internal/wishlist/interfaces/http"
	"github.com/qtremors/amanzon/pkg/config"
	"github.com/qtremors/amanzon/pkg/db"
	"github.com/qtremors/amanzon/pkg/logger"
	"github.com/qtremors/amanzon/pkg/middleware"
	"github.com/qtremors/amanzon/pkg/mq"
	"github.com/qtremors/amanzon/pkg/ratelimit"
)

func main() {
	// 1. 加载配置
	configPath := "configs/config.toml"
	if p := os.Getenv("APP_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting storefront server",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.SubCategory{},
		&catalogdomain.Product{},
		&cartdomain.Cart{},
		&cartdomain.CartItem{},
		&coupondomain.Coupon{},
		&coupondomain.CouponUsage{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&accountdomain.User{},
		&reviewdomain.Review{},
		&wishlistdomain.WishlistItem{},
	); err != nil {
		logger.Fatal(ctx, "Failed to migrate database schema", "error", err)
	}

	// 4. 初始化 Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal(ctx, "Failed to connect to Redis", "error", err)
	}
	defer rdb.Close()

	// 5. 初始化 Kafka 生产者
	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to create Kafka producer", "error", err)
	}
	defer producer.Close()

	// 6. 初始化支付网关与图片存储
	gateway := payment.NewRazorpayGateway(cfg.Gateway)
	imageStore := storage.NewLocalImageStore(cfg.Store.MediaDir)

	pricing := orderdomain.PricingConfig{
		FreeShippingThreshold: cfg.Store.FreeShippingThresholdDecimal(),
		ShippingCost:          cfg.Store.ShippingCostDecimal(),
	}

	// 7. 初始化仓储
	productRepo := catalogmysql.NewProductRepository(database.DB)
	categoryRepo := catalogmysql.NewCategoryRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	couponRepo := couponmysql.NewCouponRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	userRepo := accountmysql.NewUserRepository(database.DB)
	reviewRepo := reviewmysql.NewReviewRepository(database.DB)
	wishlistRepo := wishlistmysql.NewWishlistRepository(database.DB)

	// 8. 初始化应用服务
	catalogSvc := catalogapp.NewCatalogService(productRepo, categoryRepo, imageStore)
	couponSvc := couponapp.NewCouponService(couponRepo)
	cartSvc := cartapp.NewCartService(cartRepo, productRepo, couponSvc, pricing)
	orderPublisher := ordermsg.NewKafkaEventPublisher(producer, cfg.Kafka.OrderTopic)
	orderSvc := orderapp.NewOrderService(orderRepo, cartRepo, productRepo, couponSvc,
		gateway, orderPublisher, database, pricing, cfg.Store.Currency)
	checkoutSvc := orderapp.NewCheckoutService(orderSvc, checkoutstore.NewRedisCheckoutStore(rdb), gateway)
	accountPublisher := accountmsg.NewKafkaEventPublisher(producer, cfg.Kafka.AccountTopic)
	accountSvc := accountapp.NewAccountService(userRepo, accountPublisher, imageStore, &cfg.JWT, cfg.Store)
	reviewSvc := reviewapp.NewReviewService(reviewRepo, productRepo)
	wishlistSvc := wishlistapp.NewWishlistService(wishlistRepo, productRepo)

	// 9. 初始化限流器并构建路由
	rateLimiter := ratelimit.NewRedisRateLimiter(rdb)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(rateLimiter, cfg.RateLimit, middleware.DefaultPathRules()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	public := router.Group("")
	protected := router.Group("")
	protected.Use(middleware.Auth(&cfg.JWT))

	cataloghttp.NewCatalogHandler(catalogSvc, cfg.Store.PageSize).RegisterRoutes(public)
	accountHandler := accounthttp.NewAccountHandler(accountSvc)
	accountHandler.RegisterPublicRoutes(public)
	accountHandler.RegisterProtectedRoutes(protected)
	carthttp.NewCartHandler(cartSvc).RegisterRoutes(protected)
	orderhttp.NewOrderHandler(orderSvc, checkoutSvc).RegisterRoutes(protected)
	reviewhttp.NewReviewHandler(reviewSvc, accountSvc).RegisterRoutes(public, protected)
	wishlisthttp.NewWishlistHandler(wishlistSvc).RegisterRoutes(protected)

	// 10. 启动 HTTP 服务器
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "Starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server error", "error", err)
		}
	}()

	// 11. 优雅关停
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down storefront server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown error", "error", err)
	}

	logger.Info(ctx, "Storefront server stopped")
}
