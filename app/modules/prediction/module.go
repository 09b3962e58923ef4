package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/matchday-bot/app/eventbus"
	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	predictionservice "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/application"
	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictionarchive "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/archive"
	predictionexports "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/exports"
	predictionhandlers "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/handlers"
	predictionhttp "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/httpapi"
	predictionqueue "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/queue"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	predictionrouter "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/router"
	"github.com/Black-And-White-Club/matchday-bot/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the prediction module.
type Module struct {
	EventBus          eventbus.EventBus
	PredictionService predictionservice.Service
	PredictionRouter  *predictionrouter.PredictionRouter
	queue             *predictionqueue.Service
	sweeper           *predictionarchive.Sweeper
	logger            *slog.Logger
	cancelFunc        context.CancelFunc
}

// NewPredictionModule creates a new instance of the prediction module and
// mounts its HTTP routes on httpRouter when one is given.
func NewPredictionModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "prediction"))
	logger.Info("prediction.NewPredictionModule called")

	queue, err := predictionqueue.NewService(ctx, cfg.Postgres.DSN, logger, obs.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create lifecycle queue: %w", err)
	}

	opts := []predictionservice.Option{
		predictionservice.WithScheduler(queue),
		predictionservice.WithRenderer(predictionexports.NewRenderer(predictionexports.DefaultPalette)),
		predictionservice.WithFallbackScoring(scoringFromConfig(cfg.Scoring)),
	}
	if cfg.Archive.Bucket != "" {
		store, err := predictionarchive.NewS3Store(ctx, predictionarchive.Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			Prefix:          cfg.Archive.Prefix,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
		})
		if err != nil {
			queue.Stop(ctx)
			return nil, fmt.Errorf("failed to create archive store: %w", err)
		}
		opts = append(opts, predictionservice.WithObjectStore(store))
	}

	service := predictionservice.NewPredictionService(
		predictiondb.NewRepository(db),
		eventBus,
		logger,
		obs.Metrics,
		obs.Tracer,
		db,
		opts...,
	)
	queue.Attach(service)

	var sweeper *predictionarchive.Sweeper
	if cfg.Archive.Bucket != "" {
		sweeper, err = predictionarchive.NewSweeper(service, cfg.Archive.Interval, logger)
		if err != nil {
			queue.Stop(ctx)
			return nil, fmt.Errorf("failed to create archive sweeper: %w", err)
		}
	}

	predictionRouter := predictionrouter.NewPredictionRouter(logger, router, eventBus, obs.Registry)
	handlers := predictionhandlers.NewPredictionHandlers(service, logger, obs.Tracer, obs.Metrics)
	if err := predictionRouter.Configure(ctx, handlers); err != nil {
		queue.Stop(ctx)
		return nil, fmt.Errorf("failed to configure prediction router: %w", err)
	}

	if httpRouter != nil {
		predictionhttp.Register(
			httpRouter,
			predictionhttp.NewHandlers(service, logger),
			predictionhttp.NewTokenVerifier(cfg.JWT.Secret),
			predictionhttp.Config{
				AllowedOrigins:  cfg.HTTP.AllowedOrigins,
				WritesPerSecond: cfg.HTTP.WritesPerSecond,
				WriteBurst:      cfg.HTTP.WriteBurst,
			},
		)
	}

	return &Module{
		EventBus:          eventBus,
		PredictionService: service,
		PredictionRouter:  predictionRouter,
		queue:             queue,
		sweeper:           sweeper,
		logger:            logger,
	}, nil
}

func scoringFromConfig(c config.ScoringConfig) predictiondomain.ScoringConfig {
	return predictiondomain.ScoringConfig{
		ExactScorePoints:           c.ExactScorePoints,
		CorrectResultPoints:        c.CorrectResultPoints,
		IncorrectResultPoints:      c.IncorrectResultPoints,
		DefaultPredictionMaxPoints: c.DefaultPredictionMaxPoints,
		BonusMatchEnabled:          c.BonusMatchEnabled,
		EarlyBonusEnabled:          c.EarlyBonusEnabled,
		QualifierBonusEnabled:      c.QualifierBonusEnabled,
	}
}

// Run starts the lifecycle queue and the archive sweeper, then blocks until
// ctx is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting prediction module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.queue.Start(ctx); err != nil {
		m.logger.Error("Failed to start lifecycle queue", slog.Any("error", err))
		return
	}
	if m.sweeper != nil {
		m.sweeper.Start()
	}

	<-ctx.Done()
	m.logger.Info("Prediction module goroutine stopped")
}

// Close stops the sweeper and drains the queue.
func (m *Module) Close() error {
	m.logger.Info("Stopping prediction module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.sweeper != nil {
		if err := m.sweeper.Shutdown(); err != nil {
			m.logger.Error("Error stopping archive sweeper", slog.Any("error", err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.queue.Stop(ctx); err != nil {
		return fmt.Errorf("error stopping lifecycle queue: %w", err)
	}

	m.logger.Info("Prediction module stopped")
	return nil
}
