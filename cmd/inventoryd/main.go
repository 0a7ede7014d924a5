package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appservices "github.com/vsinha/inventory/pkg/application/services"
	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
	domainsvc "github.com/vsinha/inventory/pkg/domain/services"
	"github.com/vsinha/inventory/pkg/infrastructure/campaign"
	"github.com/vsinha/inventory/pkg/infrastructure/events"
	"github.com/vsinha/inventory/pkg/infrastructure/notify"
	csvrepo "github.com/vsinha/inventory/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/inventory/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/inventory/pkg/infrastructure/repositories/postgres"
	"github.com/vsinha/inventory/pkg/interfaces/rest"
)

func main() {
	// Command line flags
	var (
		addr            = flag.String("addr", ":8080", "HTTP listen address")
		databaseURL     = flag.String("database-url", "", "PostgreSQL DSN (in-memory store when empty)")
		kafkaBroker     = flag.String("kafka-broker", "", "Kafka broker for alert notifications (disabled when empty)")
		kafkaTopic      = flag.String("kafka-topic", "inventory.alerts", "Kafka topic for alert notifications")
		campaignURL     = flag.String("campaign-url", "", "Campaign Service base URL (CSV/static multipliers when empty)")
		inventoryFile   = flag.String("inventory", "", "Path to inventory seed CSV file")
		campaignsFile   = flag.String("campaigns", "", "Path to campaign multipliers CSV file")
		refreshInterval = flag.Duration("refresh-interval", time.Hour, "Forecast refresh interval")
		debug           = flag.Bool("debug", false, "Enable debug logging")
	)

	flag.Parse()

	logger, err := buildLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config{
		addr:            *addr,
		databaseURL:     *databaseURL,
		kafkaBroker:     *kafkaBroker,
		kafkaTopic:      *kafkaTopic,
		campaignURL:     *campaignURL,
		inventoryFile:   *inventoryFile,
		campaignsFile:   *campaignsFile,
		refreshInterval: *refreshInterval,
	}, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

type config struct {
	addr            string
	databaseURL     string
	kafkaBroker     string
	kafkaTopic      string
	campaignURL     string
	inventoryFile   string
	campaignsFile   string
	refreshInterval time.Duration
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	records, ledger, err := buildStores(ctx, cfg, logger)
	if err != nil {
		return err
	}

	campaigns, err := buildCampaignSource(cfg)
	if err != nil {
		return err
	}

	bus := events.NewInMemoryBus(logger)

	forecasts := domainsvc.NewForecastCalculator(campaigns)
	scorer := domainsvc.NewUrgencyScorer()
	alerts := domainsvc.NewAlertEvaluator()
	planner := domainsvc.NewRestockPlanner()

	coordinator := appservices.NewStockCoordinator(records, ledger, forecasts, scorer, alerts, planner, bus, logger)
	queries := appservices.NewInventoryQueryService(records, ledger, planner)

	if cfg.kafkaBroker != "" {
		publisher := notify.NewKafkaAlertPublisher(cfg.kafkaBroker, cfg.kafkaTopic, logger)
		publisher.Register(bus)
		defer publisher.Close()
		logger.Info("alert notifications enabled",
			zap.String("broker", cfg.kafkaBroker), zap.String("topic", cfg.kafkaTopic))
	}

	if cfg.inventoryFile != "" {
		if err := seedInventory(ctx, cfg.inventoryFile, records, logger); err != nil {
			return err
		}
	}

	go refreshLoop(ctx, coordinator, cfg.refreshInterval, logger)

	handler := rest.NewHandler(coordinator, queries, logger)
	server := &http.Server{
		Addr:         cfg.addr,
		Handler:      rest.NewRouter(handler, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func buildStores(ctx context.Context, cfg config, logger *zap.Logger) (repositories.InventoryRepository, repositories.LedgerRepository, error) {
	if cfg.databaseURL == "" {
		logger.Info("using in-memory stores")
		return memory.NewInventoryRepository(), memory.NewLedgerRepository(), nil
	}

	pool, err := postgres.Connect(ctx, cfg.databaseURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to PostgreSQL")
	return postgres.NewInventoryRepository(pool), postgres.NewLedgerRepository(pool), nil
}

func buildCampaignSource(cfg config) (repositories.CampaignSource, error) {
	if cfg.campaignURL != "" {
		return campaign.NewClient(cfg.campaignURL), nil
	}

	var multipliers []*entities.CampaignMultiplier
	if cfg.campaignsFile != "" {
		loaded, err := csvrepo.NewLoader().LoadCampaigns(cfg.campaignsFile)
		if err != nil {
			return nil, err
		}
		multipliers = loaded
	}
	return memory.NewCampaignSource(multipliers), nil
}

func seedInventory(ctx context.Context, filename string, records repositories.InventoryRepository, logger *zap.Logger) error {
	seeds, err := csvrepo.NewLoader().LoadRecords(filename)
	if err != nil {
		return err
	}

	seeded := 0
	for _, record := range seeds {
		err := records.Create(ctx, record)
		if errors.Is(err, entities.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", record.ItemID, err)
		}
		seeded++
	}
	logger.Info("inventory seeded", zap.Int("records", seeded), zap.Int("skipped", len(seeds)-seeded))
	return nil
}

// refreshLoop periodically re-projects forecasts so campaign and seasonal
// effects decay even for items with no stock movements.
func refreshLoop(ctx context.Context, coordinator *appservices.StockCoordinator, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := coordinator.RefreshForecasts(ctx); err != nil {
				logger.Warn("forecast refresh failed", zap.Error(err))
			}
		}
	}
}
