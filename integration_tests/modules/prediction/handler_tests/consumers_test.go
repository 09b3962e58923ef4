package handlertests

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/matchday-bot/app/eventbus"
	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	predictionservice "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/application"
	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictionevents "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/events"
	predictionhandlers "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/handlers"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	predictionrouter "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/router"
	"github.com/Black-And-White-Club/matchday-bot/integration_tests/testutils"
)

func publish(t *testing.T, bus eventbus.EventBus, topic string, payload any) {
	t.Helper()
	msg, err := eventbus.NewMessage(context.Background(), topic, payload)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(topic, msg))
}

func TestConsumers_OverJetStream(t *testing.T) {
	env := testutils.GetTestEnv(t)
	tracer := noop.NewTracerProvider().Tracer("test")
	repo := predictiondb.NewRepository(env.DB)
	service := predictionservice.NewPredictionService(
		repo, env.EventBus, env.Logger, observability.NoOpMetrics{}, tracer, env.DB,
	)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, watermill.NewSlogLogger(env.Logger))
	require.NoError(t, err)

	predictionRouter := predictionrouter.NewPredictionRouter(env.Logger, router, env.EventBus, nil)
	handlers := predictionhandlers.NewPredictionHandlers(service, env.Logger, tracer, observability.NoOpMetrics{})
	require.NoError(t, predictionRouter.Configure(env.Ctx, handlers))

	ctx, cancel := context.WithCancel(env.Ctx)
	t.Cleanup(func() {
		cancel()
		_ = router.Close()
	})
	go func() { _ = router.Run(ctx) }()

	select {
	case <-router.Running():
	case <-time.After(30 * time.Second):
		t.Fatal("router did not start")
	}

	gen := testutils.NewTestDataGenerator(11)
	tournamentID := gen.TournamentID()
	matches := gen.Matchday(tournamentID, 2, 3, time.Now().Add(72*time.Hour))

	t.Run("match updated is stored", func(t *testing.T) {
		for _, m := range matches {
			publish(t, env.EventBus, predictionevents.MatchUpdatedV1, predictionevents.MatchUpdatedPayloadV1{
				TournamentID: m.TournamentID,
				MatchID:      m.ID,
				Matchday:     m.Matchday,
				Kickoff:      m.Kickoff,
				HomeTeam:     m.HomeTeam,
				AwayTeam:     m.AwayTeam,
				Status:       m.Status,
			})
		}

		assert.Eventually(t, func() bool {
			rows, err := repo.ListMatchesByMatchday(env.Ctx, nil, string(tournamentID), 2)
			return err == nil && len(rows) == len(matches)
		}, 20*time.Second, 200*time.Millisecond)
	})

	t.Run("invalid match is dropped without blocking the stream", func(t *testing.T) {
		publish(t, env.EventBus, predictionevents.MatchUpdatedV1, predictionevents.MatchUpdatedPayloadV1{
			TournamentID: tournamentID,
			MatchID:      "broken",
			Status:       "abandoned",
		})
		finished := testutils.Finish(matches[0], 3, 0)
		publish(t, env.EventBus, predictionevents.MatchUpdatedV1, predictionevents.MatchUpdatedPayloadV1{
			TournamentID: finished.TournamentID,
			MatchID:      finished.ID,
			Matchday:     finished.Matchday,
			Kickoff:      finished.Kickoff,
			HomeTeam:     finished.HomeTeam,
			AwayTeam:     finished.AwayTeam,
			Status:       finished.Status,
			FinalScore:   finished.FinalScore,
		})

		assert.Eventually(t, func() bool {
			row, err := repo.GetMatch(env.Ctx, nil, string(tournamentID), string(finished.ID))
			return err == nil && row.Status == string(predictiondomain.MatchStatusFinished)
		}, 20*time.Second, 200*time.Millisecond)

		_, err := repo.GetMatch(env.Ctx, nil, string(tournamentID), "broken")
		assert.ErrorIs(t, err, predictiondb.ErrNotFound)
	})

	t.Run("participant joined registers", func(t *testing.T) {
		publish(t, env.EventBus, predictionevents.ParticipantJoinedV1, predictionevents.ParticipantJoinedPayloadV1{
			TournamentID:  tournamentID,
			ParticipantID: "dana",
		})

		assert.Eventually(t, func() bool {
			ids, err := repo.ListParticipants(env.Ctx, nil, string(tournamentID))
			return err == nil && len(ids) == 1 && ids[0] == "dana"
		}, 20*time.Second, 200*time.Millisecond)
	})

	t.Run("bonus designation is stored once", func(t *testing.T) {
		for _, m := range matches[1:] {
			publish(t, env.EventBus, predictionevents.BonusMatchDesignatedV1, predictionevents.BonusMatchDesignatedPayloadV1{
				TournamentID: tournamentID,
				Matchday:     2,
				MatchID:      m.ID,
			})
		}

		assert.Eventually(t, func() bool {
			row, err := repo.GetBonusMatch(env.Ctx, nil, string(tournamentID), 2)
			return err == nil && row.Source == "event"
		}, 20*time.Second, 200*time.Millisecond)

		bonus, err := repo.ListBonusMatches(env.Ctx, nil, string(tournamentID))
		require.NoError(t, err)
		assert.Len(t, bonus, 1)
	})
}
