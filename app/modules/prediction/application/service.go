package predictionservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/matchday-bot/app/eventbus"
	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PredictionService implements the Service interface.
type PredictionService struct {
	repo      predictiondb.Repository
	publisher message.Publisher
	logger    *slog.Logger
	metrics   observability.PredictionMetrics
	tracer    trace.Tracer
	db        *bun.DB

	clock     Clock
	scheduler LifecycleScheduler
	renderer  Renderer
	store     ObjectStore
	fallback  predictiondomain.ScoringConfig
}

// Option configures optional collaborators of PredictionService.
type Option func(*PredictionService)

// WithClock overrides the system clock.
func WithClock(c Clock) Option {
	return func(s *PredictionService) { s.clock = c }
}

// WithFallbackScoring replaces the scale used for tournaments without a
// stored configuration.
func WithFallbackScoring(cfg predictiondomain.ScoringConfig) Option {
	return func(s *PredictionService) { s.fallback = cfg }
}

// WithScheduler enables lock-window and kickoff notifications.
func WithScheduler(sched LifecycleScheduler) Option {
	return func(s *PredictionService) { s.scheduler = sched }
}

// WithRenderer enables spreadsheet and chart exports.
func WithRenderer(r Renderer) Option {
	return func(s *PredictionService) { s.renderer = r }
}

// WithObjectStore enables archiving of finished matchdays.
func WithObjectStore(store ObjectStore) Option {
	return func(s *PredictionService) { s.store = store }
}

// NewPredictionService creates a new PredictionService.
func NewPredictionService(
	repo predictiondb.Repository,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics observability.PredictionMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *PredictionService {
	s := &PredictionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		clock:     RealClock{},
		fallback:  predictiondomain.DefaultScoringConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *PredictionService,
	ctx context.Context,
	operationName string,
	tournamentID predictiondomain.TournamentID,
	op operationFunc[T],
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("tournament_id", string(tournamentID)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, string(tournamentID))

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		slog.String("operation", operationName),
		slog.String("tournament_id", string(tournamentID)),
		observability.CorrelationAttr(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("tournament_id", string(tournamentID)),
				observability.CorrelationAttr(ctx),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, string(tournamentID))
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			observability.CorrelationAttr(ctx),
			slog.String("operation", operationName),
			slog.String("tournament_id", string(tournamentID)),
			slog.Any("error", wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, string(tournamentID))
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.logger.InfoContext(ctx, operationName+" completed successfully",
		slog.String("operation", operationName),
		slog.String("tournament_id", string(tournamentID)),
		observability.CorrelationAttr(ctx),
	)
	s.metrics.RecordOperationSuccess(ctx, operationName, string(tournamentID))
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[T any](
	s *PredictionService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// publish sends an event after the state change it describes has committed.
// Failures are logged; the write already happened and readers recompute from
// the store.
func (s *PredictionService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}
	msg, err := eventbus.NewMessage(ctx, topic, payload)
	if err == nil {
		err = s.publisher.Publish(topic, msg)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			slog.String("topic", topic),
			observability.CorrelationAttr(ctx),
			slog.Any("error", err),
		)
	}
}
