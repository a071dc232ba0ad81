package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emporium/backoffice/internal/api/handlers"
	"github.com/emporium/backoffice/internal/application"
	kafkaInfra "github.com/emporium/backoffice/internal/infrastructure/kafka"
	mongoRepo "github.com/emporium/backoffice/internal/infrastructure/mongodb"
	"github.com/emporium/backoffice/pkg/kafka"
	"github.com/emporium/backoffice/pkg/logging"
	"github.com/emporium/backoffice/pkg/metrics"
	"github.com/emporium/backoffice/pkg/middleware"
	"github.com/emporium/backoffice/pkg/mongodb"
)

const serviceName = "backoffice-api"

func main() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	if err := run(context.Background(), quit); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, quit <-chan os.Signal) error {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting back-office API")

	config := loadConfig()

	// Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	businessMetrics := middleware.NewBusinessMetrics(m)

	// MongoDB with instrumentation
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Close(closeCtx)
	}()
	db := mongodb.NewInstrumentedDatabase(mongoClient.Database(), m)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Repositories
	productRepo := mongoRepo.NewProductRepository(db)
	sellerRepo := mongoRepo.NewSellerRepository(db)
	customerRepo := mongoRepo.NewCustomerRepository(db)
	billRepo := mongoRepo.NewBillRepository(db)
	parcelRepo := mongoRepo.NewParcelRepository(db)
	saleRepo := mongoRepo.NewSaleRepository(db)
	returnRepo := mongoRepo.NewReturnRepository(db)
	incomeRepo := mongoRepo.NewIncomeRepository(db)
	stockHistoryRepo := mongoRepo.NewStockHistoryRepository(db)
	purchaseBatchRepo := mongoRepo.NewPurchaseBatchRepository(db)

	// Kafka producer behind a circuit breaker
	producer := kafka.NewProductionProducer(config.Kafka, m, logger)
	publisher := kafkaInfra.NewEventPublisher(producer)
	defer publisher.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Stock ledger shared by every service that moves stock in bulk
	stockLedger := application.NewStockLedger(productRepo, logger, businessMetrics)

	// Application services
	productService := application.NewProductApplicationService(productRepo, stockHistoryRepo, publisher, logger)
	sellerService := application.NewSellerApplicationService(sellerRepo, saleRepo, logger)
	customerService := application.NewCustomerApplicationService(
		customerRepo, productRepo, sellerRepo, saleRepo, stockLedger, publisher, logger)
	billService := application.NewBillApplicationService(
		billRepo, productRepo, sellerRepo, saleRepo, incomeRepo, stockLedger, publisher, logger, businessMetrics)
	parcelService := application.NewParcelApplicationService(
		parcelRepo, productRepo, stockLedger, publisher, logger, businessMetrics)
	returnService := application.NewReturnApplicationService(returnRepo, productRepo, publisher, logger, businessMetrics)
	saleService := application.NewSaleApplicationService(saleRepo, productRepo, sellerRepo, logger)
	incomeService := application.NewIncomeApplicationService(incomeRepo, logger)
	purchaseBatchService := application.NewPurchaseBatchApplicationService(purchaseBatchRepo, productRepo, stockLedger, logger)

	// Handlers
	productHandler := handlers.NewProductHandler(productService, logger)
	sellerHandler := handlers.NewSellerHandler(sellerService, logger)
	customerHandler := handlers.NewCustomerHandler(customerService, logger)
	billHandler := handlers.NewBillHandler(billService, logger)
	parcelHandler := handlers.NewParcelHandler(parcelService, logger)
	returnHandler := handlers.NewReturnHandler(returnService, logger)
	saleHandler := handlers.NewSaleHandler(saleService, logger)
	incomeHandler := handlers.NewIncomeHandler(incomeService, logger)
	purchaseBatchHandler := handlers.NewPurchaseBatchHandler(purchaseBatchService, logger)

	// Router
	router := gin.New()
	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)
	router.Use(middleware.MetricsMiddleware(m))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	api := router.Group("/api/v1")
	productHandler.RegisterRoutes(api)
	sellerHandler.RegisterRoutes(api)
	customerHandler.RegisterRoutes(api)
	billHandler.RegisterRoutes(api)
	parcelHandler.RegisterRoutes(api)
	returnHandler.RegisterRoutes(api)
	saleHandler.RegisterRoutes(api)
	incomeHandler.RegisterRoutes(api)
	purchaseBatchHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Server started", "addr", config.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()

	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
	return nil
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.Brokers = strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaConfig.ClientID = serviceName

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8010"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "backoffice"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: kafkaConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
