package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/matchday-bot/app/eventbus"
	"github.com/Black-And-White-Club/matchday-bot/app/modules/prediction"
	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	"github.com/Black-And-White-Club/matchday-bot/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// App holds the process-wide infrastructure and the modules built on it.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPServer    *http.Server

	PredictionModule *prediction.Module
	modules          []Module
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.Init(observability.Config{
		ServiceName:    "matchday-bot",
		LogLevel:       cfg.Observability.LogLevel,
		MetricsAddress: cfg.Observability.MetricsAddress,
	})
	logger := obs.Logger

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, eventbus.Config{
		URL:        cfg.NATS.URL,
		NKeySeed:   cfg.NATS.NKeySeed,
		QueueGroup: cfg.NATS.QueueGroup,
	}, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	if err := eventbus.InitializeStreams(ctx, bus); err != nil {
		bus.Close()
		db.Close()
		return nil, err
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		bus.Close()
		db.Close()
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}

	httpRouter := chi.NewRouter()
	httpRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	predictionModule, err := prediction.NewPredictionModule(ctx, cfg, obs, db, bus, router, httpRouter)
	if err != nil {
		bus.Close()
		db.Close()
		return nil, fmt.Errorf("failed to initialize prediction module: %w", err)
	}

	logger.Info("Application initialized", slog.String("http_addr", cfg.HTTP.Addr))
	return &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
		Router:        router,
		HTTPServer: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           httpRouter,
			ReadHeaderTimeout: 5 * time.Second,
		},
		PredictionModule: predictionModule,
		modules:          []Module{predictionModule},
	}, nil
}

// Close releases everything NewApp opened, in reverse order.
func (app *App) Close() error {
	logger := app.Observability.Logger
	var errs []error

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.HTTPServer.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}
	if err := app.Router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("watermill router: %w", err))
	}
	for _, m := range app.modules {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := app.EventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event bus: %w", err))
	}
	if err := app.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	if err := app.Observability.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("metrics server: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("Errors during shutdown", slog.Any("error", err))
		return err
	}
	logger.Info("Application shut down gracefully")
	return nil
}
