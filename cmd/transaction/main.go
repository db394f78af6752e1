package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/settlement/internal/pkg/config"
	"github.com/piresc/settlement/internal/pkg/database"
	"github.com/piresc/settlement/internal/pkg/health"
	"github.com/piresc/settlement/internal/pkg/logger"
	"github.com/piresc/settlement/internal/pkg/metrics"
	"github.com/piresc/settlement/internal/pkg/middleware"
	"github.com/piresc/settlement/internal/pkg/models"
	"github.com/piresc/settlement/internal/pkg/nats"
	nrpkg "github.com/piresc/settlement/internal/pkg/newrelic"
	"github.com/piresc/settlement/internal/pkg/server"
	"github.com/piresc/settlement/services/transaction"
	"github.com/piresc/settlement/services/transaction/gateway"
	handler "github.com/piresc/settlement/services/transaction/handler/http"
	"github.com/piresc/settlement/services/transaction/repository"
	"github.com/piresc/settlement/services/transaction/usecase"
)

func main() {
	appName := "transaction-service"
	configPath := "config/transaction.env"
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
		logger.String("store_driver", configs.Transaction.StoreDriver),
		logger.Duration("time_out", configs.Transaction.TimeOut),
		logger.Duration("max_wait_time", configs.Transaction.MaxWaitTime),
		logger.Duration("interval", configs.Transaction.Interval),
	)

	if configs.Transaction.ThirdPartyAPIURL == "" || configs.Transaction.ClientURL == "" {
		zapLogger.Fatal("THIRD_PARTY_API_URL and CLIENT_URL must be set")
	}

	e := echo.New()
	e.HideBanner = true

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port,
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	healthService := health.NewHealthService(zapLogger)

	// Initialize the transaction store
	var transactionRepo transaction.TransactionRepo
	switch configs.Transaction.StoreDriver {
	case models.StoreDriverRedis:
		redisClient, err := database.NewRedisClient(configs.Redis)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		healthService.AddChecker("redis", health.NewRedisHealthChecker(redisClient))
		transactionRepo = repository.NewRedisRepository(redisClient, configs.Transaction.RetentionTTL)
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Error("Error closing Redis connection", logger.Err(err))
			}
		}()
	case models.StoreDriverMemory:
		transactionRepo = repository.NewMemoryRepository()
	default:
		zapLogger.Fatal("Unknown store driver", logger.String("store_driver", configs.Transaction.StoreDriver))
	}

	// NATS is optional; without it lifecycle events are dropped
	var natsClient *nats.Client
	if configs.NATS.URL != "" {
		natsClient, err = nats.NewClient(configs.NATS.URL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
		}
		defer natsClient.Close()

		healthService.AddChecker("nats", health.NewNATSHealthChecker(natsClient))
		logger.Info("NATS client initialized",
			logger.String("url", configs.NATS.URL),
			logger.Bool("connected", natsClient.IsConnected()))
	}

	// Initialize gateways
	processorGW := gateway.NewProcessorGW(configs.Transaction.ThirdPartyAPIURL)
	clientGW := gateway.NewClientGW(configs.Transaction.ClientURL)
	eventGW := gateway.NewEventGW(natsClient)

	// Initialize usecase
	transactionUC := usecase.NewTransactionUC(configs, transactionRepo, processorGW, clientGW, eventGW)
	srv.Components().Register("transaction-usecase", func(ctx context.Context) error {
		transactionUC.Close()
		return nil
	})

	// Add middlewares (panic recovery should be first)
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(nrpkg.Middleware(nrApp))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	health.RegisterEnhancedHealthEndpoints(e, appName, configs.App.Version, healthService)
	metrics.RegisterEndpoint(e)

	handler.NewTransactionHandler(transactionUC).RegisterRoutes(e)

	if err := srv.Start(); err != nil {
		zapLogger.Error("Server stopped with error", logger.Err(err))
	}

	if nrApp != nil {
		zapLogger.Info("Shutting down New Relic...")
		nrApp.Shutdown(10 * time.Second)
	}

	zapLogger.Info("Server exiting gracefully")
	_ = zapLogger.Sync()
}
