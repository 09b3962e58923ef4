package predictionhandlers

import (
	"context"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictionevents "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/events"
	"github.com/ThreeDotsLabs/watermill/message"
)

// HandleMatchUpdated stores fixture changes from the ingestion job.
func (h *PredictionHandlers) HandleMatchUpdated(msg *message.Message) error {
	return handle(h, "HandleMatchUpdated", msg, func(ctx context.Context, payload *predictionevents.MatchUpdatedPayloadV1) error {
		return h.service.RecordMatchUpdate(ctx, payload.ToMatch())
	})
}

// HandleBonusMatchDesignated records an externally chosen bonus match.
func (h *PredictionHandlers) HandleBonusMatchDesignated(msg *message.Message) error {
	return handle(h, "HandleBonusMatchDesignated", msg, func(ctx context.Context, payload *predictionevents.BonusMatchDesignatedPayloadV1) error {
		return h.service.RecordBonusDesignation(ctx, predictiondomain.BonusDesignation{
			TournamentID: payload.TournamentID,
			Matchday:     payload.Matchday,
			MatchID:      payload.MatchID,
		})
	})
}

// HandleParticipantJoined registers a participant so defaults and rankings
// include them before their first prediction.
func (h *PredictionHandlers) HandleParticipantJoined(msg *message.Message) error {
	return handle(h, "HandleParticipantJoined", msg, func(ctx context.Context, payload *predictionevents.ParticipantJoinedPayloadV1) error {
		return h.service.RegisterParticipant(ctx, payload.TournamentID, payload.ParticipantID)
	})
}
