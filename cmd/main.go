package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/events"
	"github.com/cloud-wave-best-zizon/battery-store/internal/handler"
	"github.com/cloud-wave-best-zizon/battery-store/internal/metrics"
	"github.com/cloud-wave-best-zizon/battery-store/internal/repository"
	"github.com/cloud-wave-best-zizon/battery-store/internal/service"
	"github.com/cloud-wave-best-zizon/battery-store/internal/storage"
	"github.com/cloud-wave-best-zizon/battery-store/pkg/config"
	"github.com/cloud-wave-best-zizon/battery-store/pkg/middleware"
	spiffetls "github.com/cloud-wave-best-zizon/battery-store/pkg/tls"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.Real()
	m := metrics.New(prometheus.DefaultRegisterer)

	taxRate, err := cfg.Tax()
	if err != nil {
		logger.Fatal("Invalid tax rate", zap.Error(err))
	}
	areas, err := cfg.DeliveryAreas()
	if err != nil {
		logger.Fatal("Failed to load delivery areas", zap.Error(err))
	}

	awsCfg, err := repository.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}

	db, err := repository.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}

	var productRepo service.ProductRepository
	switch cfg.CatalogBackend {
	case "sql":
		productRepo = repository.NewSQLProductRepository(db)
	default:
		productRepo = repository.NewDynamoProductRepository(repository.NewDynamoDBClient(awsCfg, cfg.DynamoDBEndpoint), cfg.ProductTableName)
	}
	logger.Info("Catalog backend selected", zap.String("backend", cfg.CatalogBackend))

	carts, sessions, closeRedis := newSessionStores(ctx, cfg, clk, logger)
	defer closeRedis()

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer producer.Close()
		publisher = producer
	} else {
		logger.Info("KAFKA_BROKERS not set, events are not published")
	}

	// Services
	catalogService := service.NewCatalogService(productRepo, publisher, clk, m, cfg.InstanceID, logger)
	if err := catalogService.Refresh(ctx); err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	contentService := newContentService(db, areas, clk, logger)
	cartService := service.NewCartService(carts, catalogService, taxRate, clk, m, logger)
	checkoutService := service.NewCheckoutService(carts, repository.NewStore[domain.Order](db), contentService, publisher, taxRate, clk, m, cfg.InstanceID, logger)
	bookingService := service.NewBookingService(repository.NewStore[domain.ServiceBooking](db), publisher, clk, m, cfg.InstanceID, logger)
	authService := service.NewAuthService(newAuthenticator(cfg), sessions, cfg.SessionTTL, clk, logger)
	exportService := service.NewExportService(catalogService)

	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewCatalogConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, cfg.InstanceID, catalogService, logger)
		consumer.Start(ctx)
		defer func() {
			if err := consumer.Stop(); err != nil {
				logger.Error("Failed to stop consumer", zap.Error(err))
			}
		}()
	}

	images, localDir := newImageStore(cfg, awsCfg, clk)

	// Gin Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger, m))
	router.Use(newCORS(cfg.CORSOrigins))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if localDir != "" {
		router.Static("/uploads", localDir)
	}

	handler.Routes{
		Products:   handler.NewProductHandler(catalogService, exportService, m, logger),
		Carts:      handler.NewCartHandler(cartService, checkoutService, logger),
		Content:    handler.NewContentHandler(contentService, logger),
		Bookings:   handler.NewBookingHandler(bookingService, logger),
		Uploads:    handler.NewUploadHandler(images, logger),
		Auth:       handler.NewAuthHandler(authService, logger),
		AdminGuard: middleware.AdminSession(authService, logger),
		LoginLimit: middleware.RateLimit(middleware.NewTokenBucket(cfg.LoginRateCapacity, cfg.LoginRateRefill, clk)),
	}.Register(router.Group("/api/v1"))

	source, tlsConfig, err := spiffetls.Load(ctx, spiffetls.Config{Enabled: cfg.TLSEnabled, SocketPath: cfg.TLSSocketPath}, logger)
	if err != nil {
		logger.Fatal("Failed to load TLS config", zap.Error(err))
	}
	defer source.Close()
	go source.Watch(ctx, 30*time.Second)

	// Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.String("instance_id", cfg.InstanceID),
			zap.Bool("tls", tlsConfig != nil))
		var err error
		if tlsConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapCfg.Build()
}

// newSessionStores uses Redis when REDIS_ADDR is set and process memory
// otherwise. The returned func closes the Redis client.
func newSessionStores(ctx context.Context, cfg *config.Config, clk clock.Clock, logger *zap.Logger) (service.CartStore, service.SessionStore, func()) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, carts and admin sessions are kept in memory")
		return repository.NewMemoryCartStore(), repository.NewMemorySessionStore(clk), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close Redis client", zap.Error(err))
		}
	}
	return repository.NewRedisCartStore(client, cfg.CartTTL), repository.NewRedisSessionStore(client, clk), closeFn
}

func newContentService(db *gorm.DB, areas []domain.DeliveryArea, clk clock.Clock, logger *zap.Logger) *service.ContentService {
	return service.NewContentService(
		repository.NewStore[domain.Category](db),
		repository.NewStore[domain.Banner](db),
		repository.NewStore[domain.PaymentMethod](db),
		repository.NewStore[domain.SiteSetting](db),
		areas,
		clk,
		logger,
	)
}

// newAuthenticator prefers the bcrypt hash when both secrets are configured.
func newAuthenticator(cfg *config.Config) service.Authenticator {
	if cfg.AdminPasswordHash != "" {
		return service.BcryptHash(cfg.AdminPasswordHash)
	}
	return service.SharedSecret(cfg.AdminPassword)
}

// newImageStore returns the store and, for local storage, the directory to serve.
func newImageStore(cfg *config.Config, awsCfg aws.Config, clk clock.Clock) (storage.ImageStore, string) {
	if cfg.ImageStore == "s3" {
		return storage.NewS3Store(s3.NewFromConfig(awsCfg), cfg.ImageBucket, "images", cfg.ImageBaseURL, clk), ""
	}
	return storage.NewLocalStore(cfg.ImageDir, cfg.ImageBaseURL, clk), cfg.ImageDir
}

func newCORS(origins []string) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	return cors.New(corsCfg)
}
