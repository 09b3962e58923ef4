package predictionhandlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/matchday-bot/app/eventbus"
	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	predictionservice "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/application"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Handlers consumes the events the prediction engine reacts to.
type Handlers interface {
	HandleMatchUpdated(msg *message.Message) error
	HandleBonusMatchDesignated(msg *message.Message) error
	HandleParticipantJoined(msg *message.Message) error
}

// PredictionHandlers implements Handlers on top of the prediction service.
type PredictionHandlers struct {
	service predictionservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics observability.PredictionMetrics
}

// NewPredictionHandlers creates the prediction event handlers.
func NewPredictionHandlers(
	service predictionservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics observability.PredictionMetrics,
) *PredictionHandlers {
	return &PredictionHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		metrics: metrics,
	}
}

// permanent reports errors that a redelivery cannot fix. Messages failing
// with them are acknowledged and dropped.
func permanent(err error) bool {
	return errors.Is(err, errMalformedPayload) ||
		errors.Is(err, predictionservice.ErrInvalidMatch) ||
		errors.Is(err, predictionservice.ErrMatchNotFound) ||
		errors.Is(err, predictionservice.ErrBonusMatchMismatch)
}

var errMalformedPayload = errors.New("malformed payload")

// handle decodes a typed payload and runs fn with tracing, metrics and the
// message's correlation id in the context.
func handle[P any](
	h *PredictionHandlers,
	handlerName string,
	msg *message.Message,
	fn func(ctx context.Context, payload *P) error,
) error {
	ctx := observability.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))
	ctx, span := h.tracer.Start(ctx, handlerName, trace.WithAttributes(
		attribute.String("message_id", msg.UUID),
	))
	defer span.End()

	h.metrics.RecordOperationAttempt(ctx, handlerName, "")
	start := time.Now()
	defer func() { h.metrics.RecordOperationDuration(ctx, handlerName, time.Since(start)) }()

	h.logger.InfoContext(ctx, handlerName+" triggered",
		slog.String("message_id", msg.UUID),
		observability.CorrelationAttr(ctx),
	)

	payload := new(P)
	err := eventbus.Unmarshal(msg, payload)
	if err != nil {
		err = errors.Join(errMalformedPayload, err)
	} else {
		err = fn(ctx, payload)
	}

	if err != nil {
		span.RecordError(err)
		h.metrics.RecordOperationFailure(ctx, handlerName, "")
		if permanent(err) {
			h.logger.WarnContext(ctx, "Dropping message that cannot be processed",
				slog.String("handler", handlerName),
				slog.String("message_id", msg.UUID),
				observability.CorrelationAttr(ctx),
				slog.Any("error", err),
			)
			return nil
		}
		h.logger.ErrorContext(ctx, "Error in "+handlerName,
			slog.String("message_id", msg.UUID),
			observability.CorrelationAttr(ctx),
			slog.Any("error", err),
		)
		return err
	}

	h.metrics.RecordOperationSuccess(ctx, handlerName, "")
	h.logger.InfoContext(ctx, handlerName+" completed successfully", observability.CorrelationAttr(ctx))
	return nil
}
