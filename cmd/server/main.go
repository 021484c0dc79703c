package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/skyclaim/flight-claims/internal/application/service"
	"github.com/skyclaim/flight-claims/internal/config"
	"github.com/skyclaim/flight-claims/internal/domain/geo"
	"github.com/skyclaim/flight-claims/internal/domain/rules"
	"github.com/skyclaim/flight-claims/internal/infrastructure/persistence/repository"
	httpadapter "github.com/skyclaim/flight-claims/internal/interfaces/http"
	"github.com/skyclaim/flight-claims/pkg/database"
	"github.com/skyclaim/flight-claims/pkg/metrics"
	"github.com/skyclaim/flight-claims/pkg/utils"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	// Optional .env for local development
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting flight compensation claim service",
		zap.String("regulation", cfg.Regulation.Profile),
		zap.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(ctx, migrationsFS, "migrations"); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	claimRepo := repository.NewClaimRepository(db, logger)
	airportRepo := repository.NewAirportRepository(db, logger)
	outboxRepo := repository.NewNotificationOutboxRepository(db, logger)

	coordinates, err := airportRepo.ListCoordinates(ctx)
	if err != nil {
		logger.Fatal("Failed to load airport coordinates", zap.Error(err))
	}
	resolver := geo.NewResolver(coordinates)
	logger.Info("Airport coordinate table loaded", zap.Int("airports", len(coordinates)))

	profile, err := rules.ProfileByID(cfg.Regulation.Profile)
	if err != nil {
		logger.Fatal("Failed to resolve regulation profile", zap.Error(err))
	}
	engine := rules.NewEngine(profile, resolver)

	m := metrics.NewMetrics(cfg.Metrics.Namespace)
	serviceLogger := utils.NewKeyValueLogger(logger)

	claimService := service.NewClaimService(claimRepo, engine, outboxRepo, m, serviceLogger)
	exportService := service.NewExportService(claimRepo, serviceLogger)

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, claimService, exportService, serviceLogger)

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
