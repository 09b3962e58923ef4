package predictionrouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	predictionevents "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/events"
	predictionhandlers "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/handlers"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// PredictionRouter binds the consumed topics to the prediction handlers.
type PredictionRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	metricsBuilder *metrics.PrometheusMetricsBuilder
	metricsEnabled bool
}

func NewPredictionRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	prometheusRegistry *prometheus.Registry,
) *PredictionRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &PredictionRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		metricsBuilder: metricsBuilder,
		metricsEnabled: metricsBuilder != nil,
	}
}

// Configure adds the router middleware and registers the handlers.
func (r *PredictionRouter) Configure(ctx context.Context, handlers predictionhandlers.Handlers) error {
	if r.metricsEnabled {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	} else {
		r.logger.Info("Skipping Prometheus router metrics middleware - either in test environment or metrics not configured")
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	if err := r.RegisterHandlers(ctx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// RegisterHandlers subscribes every consumed topic. The handlers publish
// through the service, so none of them return messages.
func (r *PredictionRouter) RegisterHandlers(ctx context.Context, handlers predictionhandlers.Handlers) error {
	eventsToHandlers := map[string]message.NoPublishHandlerFunc{
		predictionevents.MatchUpdatedV1:         handlers.HandleMatchUpdated,
		predictionevents.BonusMatchDesignatedV1: handlers.HandleBonusMatchDesignated,
		predictionevents.ParticipantJoinedV1:    handlers.HandleParticipantJoined,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("prediction.%s", topic)
		r.Router.AddNoPublisherHandler(
			handlerName,
			topic,
			r.subscriber,
			func(msg *message.Message) error {
				if err := handlerFunc(msg); err != nil {
					r.logger.ErrorContext(ctx, "Error processing message",
						slog.String("handler", handlerName),
						slog.String("message_id", msg.UUID),
						observability.CorrelationAttr(msg.Context()),
						slog.Any("error", err),
					)
					return err
				}
				return nil
			},
		)
	}
	return nil
}

func (r *PredictionRouter) Close() error {
	return r.Router.Close()
}
