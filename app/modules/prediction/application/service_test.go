package predictionservice

import (
	"time"

	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"go.opentelemetry.io/otel/trace/noop"
)

const testTournament predictiondomain.TournamentID = "cup"

// kickoff is the reference kickoff used across the service tests.
var kickoff = time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)

type testDeps struct {
	repo      *FakeRepository
	publisher *FakePublisher
	clock     *FakeClock
	scheduler *FakeScheduler
	renderer  *FakeRenderer
	store     *FakeObjectStore
}

func newTestService(now time.Time) (*PredictionService, *testDeps) {
	deps := &testDeps{
		repo:      NewFakeRepository(),
		publisher: NewFakePublisher(),
		clock:     &FakeClock{At: now},
		scheduler: &FakeScheduler{},
		renderer:  &FakeRenderer{},
		store:     &FakeObjectStore{},
	}
	svc := NewPredictionService(
		deps.repo,
		deps.publisher,
		observability.NoOpLogger,
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
		WithClock(deps.clock),
		WithScheduler(deps.scheduler),
		WithRenderer(deps.renderer),
		WithObjectStore(deps.store),
	)
	return svc, deps
}

func scheduledMatch(id predictiondomain.MatchID, matchday int, at time.Time) predictiondomain.Match {
	return predictiondomain.Match{
		ID:           id,
		TournamentID: testTournament,
		Matchday:     matchday,
		Kickoff:      at,
		HomeTeam:     "Home " + string(id),
		AwayTeam:     "Away " + string(id),
		Status:       predictiondomain.MatchStatusScheduled,
	}
}

func finishedMatch(id predictiondomain.MatchID, matchday int, at time.Time, home, away int) predictiondomain.Match {
	m := scheduledMatch(id, matchday, at)
	m.Status = predictiondomain.MatchStatusFinished
	m.FinalScore = &predictiondomain.Score{Home: home, Away: away}
	return m
}

func genuineRow(matchID, participantID string, home, away int) *predictiondb.Prediction {
	return &predictiondb.Prediction{
		TournamentID:  string(testTournament),
		MatchID:       matchID,
		ParticipantID: participantID,
		Home:          home,
		Away:          away,
		SubmittedAt:   kickoff.Add(-24 * time.Hour),
	}
}

func designate(repo *FakeRepository, matchday int, matchID string) {
	repo.Bonus[bonusKey(string(testTournament), matchday)] = &predictiondb.BonusMatch{
		TournamentID: string(testTournament),
		Matchday:     matchday,
		MatchID:      matchID,
	}
}
