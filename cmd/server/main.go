package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apppicklist "github.com/jaworekmichal/ddd-wro-warehouse/internal/application/picklist"
	appwarehouse "github.com/jaworekmichal/ddd-wro-warehouse/internal/application/warehouse"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/config"
	infraevent "github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/event"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/logger"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/persistence"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/stock"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/interfaces/http/handler"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/interfaces/http/middleware"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting warehouse server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()

	eventStore := persistence.NewGormEventStore(db.DB)
	if err := eventStore.Migrate(); err != nil {
		return err
	}

	serializer := infraevent.NewWarehouseSerializer()
	bus := infraevent.NewInMemoryEventBus(log)

	validator := warehouse.NewBasicPaletteValidator(cfg.Stock.MinBoxes, cfg.Stock.MaxBoxes)
	locations := warehouse.NewBasicLocationPicker(
		preferredLocations(cfg.Stock.PreferredLocations),
		warehouse.Storage(cfg.Stock.DefaultArea, ""),
	)

	repo := stock.NewRepository(eventStore, serializer, validator, locations, log, stock.Options{
		StrictReplay: cfg.Stock.StrictReplay,
	})
	defer repo.Stop()

	stocks := appwarehouse.NewStockService(repo, bus, nil, log)
	fifo := apppicklist.NewFifoService(stocks, log)
	bus.Subscribe(fifo)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := bus.Start(ctx); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}
	defer func() { _ = bus.Stop(context.Background()) }()

	if err := fifo.Rebuild(ctx, eventStore, serializer); err != nil {
		return fmt.Errorf("rebuild pick indexes: %w", err)
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	})

	router.NewRouter(engine).
		Register(handler.NewStockHandler(stocks)).
		Register(handler.NewPickListHandler(fifo)).
		Setup()

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func preferredLocations(areas map[string]string) map[string]warehouse.Location {
	preferred := make(map[string]warehouse.Location, len(areas))
	for refNo, area := range areas {
		preferred[refNo] = warehouse.Storage(area, "")
	}
	return preferred
}
