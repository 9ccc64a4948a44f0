package main

import (
	"codeshift/internal/api"
	"codeshift/internal/cancellation"
	"codeshift/internal/code_translator"
	"codeshift/internal/events"
	"codeshift/internal/history"
	"codeshift/internal/services"
	"codeshift/internal/translator_provider"
	"codeshift/pkg/database"
	"codeshift/pkg/logger"
	"codeshift/pkg/types"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const startupTimeout = 10 * time.Second

func main() {
	// Load application configuration from environment variables
	globalConfig, err := types.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.Must(logger.New(globalConfig))
	defer log.Sync()

	if globalConfig.Server.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Initialize provider factory and create the configured translator provider
	providerFactory := translator_provider.NewFactory(globalConfig, log)
	provider, err := providerFactory.CreateConfigured()
	if err != nil {
		log.Fatal("failed to create translator provider", zap.Error(err))
	}

	serviceConfig := services.Config{TranslationTimeout: globalConfig.Translation.Timeout}

	// Translation history is optional
	var db *database.DB
	if globalConfig.Database.Enabled() {
		db, err = database.NewDB(ctx, globalConfig.Database, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		repo := history.NewBunRepository(db.DB)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to prepare translation history", zap.Error(err))
		}
		serviceConfig.History = repo
	}

	if globalConfig.Redis.Enabled() {
		addr := globalConfig.Redis.URL
		if addr == "" {
			addr = globalConfig.Redis.Addr
		}
		rdb, err := cancellation.NewRedisClient(ctx, addr)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		serviceConfig.Cancellations = cancellation.NewRedisRegistry(rdb, log)
		log.Info("using redis cancellation registry")
	}

	if globalConfig.Kafka.Enabled() {
		publisher, err := events.NewKafkaPublisher(globalConfig.Kafka)
		if err != nil {
			log.Fatal("failed to create kafka publisher", zap.Error(err))
		}
		serviceConfig.Events = publisher
		log.Info("publishing translation events", zap.String("topic", globalConfig.Kafka.Topic))
	}

	// Initialize services
	model, streamModel := globalConfig.Models()
	translatorService := code_translator.NewCodeTranslatorService(log, provider, code_translator.Options{
		Model:              model,
		StreamModel:        streamModel,
		CancelPollInterval: globalConfig.Translation.CancelPollInterval,
	})

	svc := services.NewServices(log, translatorService, serviceConfig)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error("failed to close event publisher", zap.Error(err))
		}
	}()

	log.Info("translator ready",
		zap.String("provider", provider.Name()),
		zap.String("model", model),
		zap.String("stream_model", streamModel),
		zap.Bool("history", svc.HistoryEnabled()),
	)

	// Start the HTTP server
	runServer(log, globalConfig, svc)
}

func runServer(logger *zap.Logger, cfg *types.Config, svc *services.Services) {
	apiServer := api.NewGinServer(logger, svc, cfg.Server.AllowedOrigins)
	// Create HTTP server
	addr := cfg.Server.GetServerAddress()
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      apiServer.GetRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", zap.String("address", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Create channel to listen for interrupt signals (Ctrl+C)
	quit := make(chan os.Signal, 1)
	// Notify on SIGINT (Ctrl+C) and SIGTERM (kill command)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("translation jobs did not finish in time", zap.Error(err))
	}

	logger.Info("server stopped")
}
