package predictionservice

import (
	"context"
	"testing"
	"time"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedMatchdayOne stores two finished matches with m2 as bonus match. Alice
// predicted both genuinely; bob and carol predicted nothing.
func seedMatchdayOne(repo *FakeRepository) {
	repo.AddMatch(finishedMatch("m1", 1, kickoff, 2, 1))
	repo.AddMatch(finishedMatch("m2", 1, kickoff, 1, 1))
	designate(repo, 1, "m2")
	repo.AddPrediction(genuineRow("m1", "alice", 2, 1))
	repo.AddPrediction(genuineRow("m2", "alice", 0, 0))
	repo.Participants[string(testTournament)] = []string{"alice", "bob", "carol"}
}

func TestGetMatchdayStandings(t *testing.T) {
	svc, deps := newTestService(kickoff.Add(3 * time.Hour))
	seedMatchdayOne(deps.repo)

	got, err := svc.GetMatchdayStandings(context.Background(), testTournament, 1)
	require.NoError(t, err)

	assert.True(t, got.Complete)
	assert.Equal(t, predictiondomain.MatchID("m2"), got.BonusMatchID)
	require.Len(t, got.Aggregates, 3)

	alice := got.Aggregates[0]
	assert.Equal(t, predictiondomain.ParticipantID("alice"), alice.ParticipantID)
	// 3 for the exact m1, 1 doubled to 2 for the correct draw on the bonus match.
	assert.Equal(t, 5, alice.Total)
	assert.Equal(t, 1, alice.ExactScores)
	assert.Equal(t, 2, alice.CorrectResults)
	assert.Equal(t, 2, alice.MatchesPlayed)

	bob := got.Aggregates[1]
	// Defaults: nothing on 2-1, one undoubled point on the 1-1 bonus match.
	assert.Equal(t, 1, bob.Total)
	assert.Equal(t, 0, bob.MatchesPlayed)
	assert.True(t, bob.PerMatch["m2"].IsDefault)
	assert.False(t, bob.PerMatch["m2"].IsBonus)

	want := []predictiondomain.Standing{
		{ParticipantID: "alice", TotalPoints: 5, ExactScores: 1, CorrectResults: 2, MatchesPlayed: 2, Rank: 1},
		{ParticipantID: "bob", TotalPoints: 1, Rank: 2},
		{ParticipantID: "carol", TotalPoints: 1, Rank: 2},
	}
	if diff := cmp.Diff(want, got.Standings); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMatchdayStandings_UsesStoredConfig(t *testing.T) {
	svc, deps := newTestService(kickoff.Add(3 * time.Hour))
	seedMatchdayOne(deps.repo)
	deps.repo.Scoring[string(testTournament)] = &predictiondb.TournamentScoring{
		TournamentID:               string(testTournament),
		ExactScorePoints:           5,
		CorrectResultPoints:        2,
		IncorrectResultPoints:      -1,
		DefaultPredictionMaxPoints: 0,
		BonusMatchEnabled:          false,
	}

	got, err := svc.GetMatchdayAggregate(context.Background(), testTournament, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Total)

	got, err = svc.GetMatchdayAggregate(context.Background(), testTournament, 1, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Total)
}

func TestGetMatchdayAggregate_FallbackScoring(t *testing.T) {
	svc, deps := newTestService(kickoff.Add(3 * time.Hour))
	seedMatchdayOne(deps.repo)
	WithFallbackScoring(predictiondomain.ScoringConfig{
		ExactScorePoints:    5,
		CorrectResultPoints: 2,
	})(svc)

	got, err := svc.GetMatchdayAggregate(context.Background(), testTournament, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Total)
	assert.False(t, got.PerMatch["m2"].IsBonus)
}

func TestGetMatchdayAggregate_RecomputesFromSource(t *testing.T) {
	svc, deps := newTestService(kickoff.Add(3 * time.Hour))
	seedMatchdayOne(deps.repo)

	first, err := svc.GetMatchdayAggregate(context.Background(), testTournament, 1, "alice")
	require.NoError(t, err)

	// A corrected final score is picked up by the next read.
	deps.repo.AddMatch(finishedMatch("m1", 1, kickoff, 0, 1))
	second, err := svc.GetMatchdayAggregate(context.Background(), testTournament, 1, "alice")
	require.NoError(t, err)

	assert.Equal(t, 5, first.Total)
	assert.Equal(t, 2, second.Total)
}

func TestGetMatchdayStandings_IncompleteMatchday(t *testing.T) {
	svc, deps := newTestService(kickoff.Add(3 * time.Hour))
	seedMatchdayOne(deps.repo)
	deps.repo.AddMatch(scheduledMatch("m3", 1, kickoff.Add(48*time.Hour)))

	got, err := svc.GetMatchdayStandings(context.Background(), testTournament, 1)
	require.NoError(t, err)
	assert.False(t, got.Complete)
	assert.Equal(t, 5, got.Aggregates[0].Total)
}

func TestGetTournamentRankings(t *testing.T) {
	second := kickoff.Add(7 * 24 * time.Hour)
	svc, deps := newTestService(second.Add(3 * time.Hour))
	seedMatchdayOne(deps.repo)

	deps.repo.AddMatch(finishedMatch("m3", 2, second, 0, 2))
	designate(deps.repo, 2, "m3")
	deps.repo.AddPrediction(genuineRow("m3", "bob", 0, 2))
	deps.repo.Participants[string(testTournament)] = append(deps.repo.Participants[string(testTournament)], "dave")

	got, err := svc.GetTournamentRankings(context.Background(), testTournament)
	require.NoError(t, err)

	assert.Equal(t, 2, got.LatestMatchday)
	want := []predictiondomain.Standing{
		// 1 from matchday one, then an exact bonus match worth 6.
		{ParticipantID: "bob", TotalPoints: 7, ExactScores: 1, CorrectResults: 1, MatchesPlayed: 1, Rank: 1, PreviousRank: 2, RankChange: predictiondomain.RankUp},
		{ParticipantID: "alice", TotalPoints: 5, ExactScores: 1, CorrectResults: 2, MatchesPlayed: 2, Rank: 2, PreviousRank: 1, RankChange: predictiondomain.RankDown},
		{ParticipantID: "carol", TotalPoints: 1, Rank: 3, PreviousRank: 2, RankChange: predictiondomain.RankDown},
		{ParticipantID: "dave", TotalPoints: 1, Rank: 3, PreviousRank: 2, RankChange: predictiondomain.RankDown},
	}
	if diff := cmp.Diff(want, got.Standings); diff != "" {
		t.Errorf("rankings mismatch (-want +got):\n%s", diff)
	}
}

func TestGetTournamentRankings_NoScoredMatchdays(t *testing.T) {
	svc, deps := newTestService(kickoff.Add(-time.Hour))
	deps.repo.AddMatch(scheduledMatch("m1", 1, kickoff))
	deps.repo.Participants[string(testTournament)] = []string{"bob", "alice"}

	got, err := svc.GetTournamentRankings(context.Background(), testTournament)
	require.NoError(t, err)

	assert.Equal(t, 0, got.LatestMatchday)
	want := []predictiondomain.Standing{
		{ParticipantID: "alice", Rank: 1},
		{ParticipantID: "bob", Rank: 1},
	}
	if diff := cmp.Diff(want, got.Standings); diff != "" {
		t.Errorf("rankings mismatch (-want +got):\n%s", diff)
	}
}
