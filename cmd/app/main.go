package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/TownCommerce_Go/internal/area"
	"github.com/osse101/TownCommerce_Go/internal/catalog"
	"github.com/osse101/TownCommerce_Go/internal/config"
	"github.com/osse101/TownCommerce_Go/internal/database"
	"github.com/osse101/TownCommerce_Go/internal/database/postgres"
	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/event"
	"github.com/osse101/TownCommerce_Go/internal/grocery"
	"github.com/osse101/TownCommerce_Go/internal/playerdb"
	"github.com/osse101/TownCommerce_Go/internal/server"
	"github.com/osse101/TownCommerce_Go/internal/trading"
	"github.com/osse101/TownCommerce_Go/internal/transport/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)

	if err := run(cfg); err != nil {
		slog.Error("Service exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	// Player economics
	repo := postgres.NewPlayerRepository(pool)
	players := playerdb.NewService(repo, cfg.StartingBalance)

	// Store catalog
	loader := catalog.NewLoader()
	catalogConfig, err := loader.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	if err := loader.Validate(catalogConfig); err != nil {
		return err
	}
	slog.Info("Catalog loaded", "path", cfg.CatalogPath, "items", len(catalogConfig.Items))

	// Event bus with dead-letter fallback
	deadLetter, err := event.NewDeadLetterWriter(cfg.DeadLetterPath)
	if err != nil {
		return err
	}
	bus := event.NewResilientPublisher(event.NewMemoryBus(), event.ResilientConfig{
		MaxRetries: event.RetryMaxAttempts,
		RetryDelay: time.Second,
		DeadLetter: deadLetter,
	})
	subscribeEventLoggers(bus)

	// Town areas. The map is fixed: one grocery store, one trading post.
	groceryArea := grocery.New("grocery-main",
		domain.BoundingBox{X: 10, Y: 10, Width: 40, Height: 30},
		catalog.FromConfig(catalogConfig), players, bus)
	tradingArea := trading.New("trading-post",
		domain.BoundingBox{X: 70, Y: 10, Width: 30, Height: 30},
		players, bus)

	hub := ws.NewHub()
	registry, err := area.NewRegistry(hub, bus, groceryArea, tradingArea)
	if err != nil {
		return err
	}
	hub.Bind(registry)

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, pool, players, registry, hub)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
