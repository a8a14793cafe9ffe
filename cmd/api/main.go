package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Joaovenera/wms-sub000/internal/api"
	"github.com/Joaovenera/wms-sub000/internal/application"
	"github.com/Joaovenera/wms-sub000/internal/cache"
	"github.com/Joaovenera/wms-sub000/internal/infrastructure/events"
	infmongo "github.com/Joaovenera/wms-sub000/internal/infrastructure/mongodb"
	"github.com/Joaovenera/wms-sub000/internal/ratelimit"
	"github.com/Joaovenera/wms-sub000/internal/validation"
	"github.com/Joaovenera/wms-sub000/pkg/kafka"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/metrics"
	"github.com/Joaovenera/wms-sub000/pkg/mongodb"
	"github.com/Joaovenera/wms-sub000/pkg/resilience"
	"github.com/Joaovenera/wms-sub000/pkg/tracing"
)

const serviceName = "wms-composition-service"

func main() {
	logger := logging.New(logging.DefaultConfig(serviceName))

	if err := run(logger); err != nil {
		logger.WithError(err).Error("Service terminated")
		os.Exit(1)
	}
}

func run(logger *logging.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	// Tracing
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tracerProvider, err := tracing.Initialize(ctx, tracing.DefaultConfig(serviceName))
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = tracerProvider.Shutdown(shutdownCtx)
		}()
	}

	// Metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))

	// MongoDB
	mongoConfig := mongodb.DefaultConfig()
	if config.Mongo.URI != "" {
		mongoConfig.URI = config.Mongo.URI
	}
	if config.Mongo.Database != "" {
		mongoConfig.Database = config.Mongo.Database
	}

	mongoClient, err := mongodb.NewClient(ctx, mongoConfig)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = mongoClient.Close(disconnectCtx)
	}()
	logger.WithFields(map[string]interface{}{"database": mongoConfig.Database}).Info("Connected to MongoDB")

	instrumented := mongodb.NewInstrumentedClient(mongoClient, m, logger)
	ucpRepo := infmongo.NewUCPRepository(instrumented)
	palletRepo := infmongo.NewPalletRepository(instrumented)
	positionRepo := infmongo.NewPositionRepository(instrumented)
	historyRepo := infmongo.NewHistoryRepository(instrumented)
	compositionRepo := infmongo.NewCompositionRepository(instrumented)
	productRepo := infmongo.NewProductRepository(instrumented)
	codeGen := infmongo.NewCodeGenerator(instrumented)
	txRunner := infmongo.NewTxRunner(instrumented)

	// Kafka
	kafkaConfig := kafka.DefaultConfig()
	if len(config.Kafka.Brokers) > 0 {
		kafkaConfig.Brokers = config.Kafka.Brokers
	}
	producer := kafka.NewInstrumentedProducer(kafka.NewProducer(kafkaConfig), m, logger)
	defer producer.Close()

	breakers := resilience.NewCircuitBreakerRegistry(logger.Logger)
	publisher := events.NewKafkaPublisher(producer, breakers.Get("kafka-publish"))

	// Redis is optional; without it the cache and limiter run in-process
	var redisClient *redis.Client
	if config.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: config.Redis.Addr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
		defer redisClient.Close()
		logger.WithFields(map[string]interface{}{"addr": config.Redis.Addr}).Info("Connected to Redis")
	}

	var store cache.Store
	if redisClient != nil {
		store = cache.NewRedisStore(redisClient, cache.DefaultTTL, logger, m)
	} else {
		store = cache.NewMemoryStore(cache.WithMetrics(m))
	}

	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient, config.RateLimit.Base, ratelimit.DefaultWindow, logger, m)
	} else {
		limiter = ratelimit.NewMemoryLimiter(ratelimit.WithBaseLimit(config.RateLimit.Base), ratelimit.WithMetrics(m))
	}

	// Services
	orchestrator := validation.NewOrchestrator(productRepo, palletRepo, store, logger)
	compositionService := application.NewCompositionService(
		orchestrator, compositionRepo, ucpRepo, palletRepo, productRepo, historyRepo,
		txRunner, publisher, logger, m,
	)
	ucpService := application.NewUCPService(
		ucpRepo, palletRepo, positionRepo, historyRepo, productRepo,
		codeGen, txRunner, publisher, logger, m,
	)
	inventoryService := application.NewInventoryService(palletRepo, positionRepo, logger)

	// HTTP
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Dependencies{
		Compositions: compositionService,
		UCPs:         ucpService,
		Inventory:    inventoryService,
		Cache:        store,
		Limiter:      limiter,
		Logger:       logger,
		Metrics:      m,
		ServiceName:  serviceName,
		ReadyCheck: func() error {
			checkCtx, checkCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer checkCancel()
			return instrumented.HealthCheck(checkCtx)
		},
	})

	server := &http.Server{
		Addr:         config.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(map[string]interface{}{"addr": server.Addr}).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.WithFields(map[string]interface{}{"signal": sig.String()}).Info("Shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
