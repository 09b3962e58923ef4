package repositorytests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/Black-And-White-Club/matchday-bot/integration_tests/testutils"
)

type repoDeps struct {
	ctx  context.Context
	repo predictiondb.Repository
	gen  *testutils.TestDataGenerator
}

func setup(t *testing.T) repoDeps {
	t.Helper()
	env := testutils.GetTestEnv(t)
	return repoDeps{
		ctx:  env.Ctx,
		repo: predictiondb.NewRepository(env.DB),
		gen:  testutils.NewTestDataGenerator(42),
	}
}

func (d repoDeps) seedMatchday(t *testing.T, tournamentID predictiondomain.TournamentID, matchday, n int, kickoff time.Time) []predictiondomain.Match {
	t.Helper()
	matches := d.gen.Matchday(tournamentID, matchday, n, kickoff)
	for _, m := range matches {
		require.NoError(t, d.repo.UpsertMatch(d.ctx, nil, predictiondb.MatchFromDomain(m)))
	}
	return matches
}

func prediction(m predictiondomain.Match, participant predictiondomain.ParticipantID, home, away int) *predictiondb.Prediction {
	return &predictiondb.Prediction{
		TournamentID:  string(m.TournamentID),
		MatchID:       string(m.ID),
		ParticipantID: string(participant),
		Home:          home,
		Away:          away,
	}
}
