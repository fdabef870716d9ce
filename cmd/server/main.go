package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tumorboard-analysis-server/internal/api"
	"github.com/tumorboard-analysis-server/internal/config"
	"github.com/tumorboard-analysis-server/internal/database"
	"github.com/tumorboard-analysis-server/internal/domain"
	"github.com/tumorboard-analysis-server/internal/repository"
	"github.com/tumorboard-analysis-server/internal/service"
	"github.com/tumorboard-analysis-server/pkg/external"
)

func main() {
	migrationsPath := flag.String("migrations", "", "run literature store migrations from this path before serving")
	flag.Parse()

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(&cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *migrationsPath != "" {
		runner, err := database.NewMigrationRunner(configManager.GetDatabaseURL(), *migrationsPath, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create migration runner")
		}
		if err := runner.Up(); err != nil {
			runner.Close()
			logger.WithError(err).Fatal("Failed to run migrations")
		}
		runner.Close()
	}

	db, err := database.NewConnection(ctx, configManager.GetDatabaseConfig(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to literature store")
	}
	defer db.Close()

	var resolver domain.EvidenceResolver
	switch cfg.Evidence.Resolver {
	case domain.ResolverPMID:
		resolver = repository.NewPMIDResolver(db.SQL, cfg.Database.QueryTimeout, logger)
	default:
		resolver = repository.NewPMCIDResolver(db.SQL, cfg.Database.QueryTimeout, logger)
	}
	logger.WithField("resolver", cfg.Evidence.Resolver).Info("Evidence resolver configured")

	invoker, err := external.NewGeminiClient(ctx, configManager.GetGenAIConfig(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Gemini client")
	}

	analyzer := service.NewAnalysisService(resolver, invoker, logger)
	server := api.NewServer(cfg, analyzer, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting tumor board analysis server")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}
