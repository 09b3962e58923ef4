package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
)

// TestDataGenerator produces reproducible fixtures for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator. Without a seed it uses the
// current time.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s))}
}

// TournamentID returns a fresh tournament id.
func (g *TestDataGenerator) TournamentID() predictiondomain.TournamentID {
	return predictiondomain.TournamentID("tour-" + g.faker.UUID()[:8])
}

// Participants returns n distinct participant ids.
func (g *TestDataGenerator) Participants(n int) []predictiondomain.ParticipantID {
	out := make([]predictiondomain.ParticipantID, 0, n)
	for i := range n {
		out = append(out, predictiondomain.ParticipantID(fmt.Sprintf("%s-%d", g.faker.Username(), i)))
	}
	return out
}

// Matchday returns n scheduled matches of one matchday, one hour apart,
// starting at firstKickoff.
func (g *TestDataGenerator) Matchday(tournamentID predictiondomain.TournamentID, matchday, n int, firstKickoff time.Time) []predictiondomain.Match {
	out := make([]predictiondomain.Match, 0, n)
	for i := range n {
		out = append(out, predictiondomain.Match{
			ID:           predictiondomain.MatchID(fmt.Sprintf("md%d-m%d-%s", matchday, i+1, g.faker.LetterN(4))),
			TournamentID: tournamentID,
			Matchday:     matchday,
			Kickoff:      firstKickoff.Add(time.Duration(i) * time.Hour).UTC(),
			HomeTeam:     g.faker.City() + " FC",
			AwayTeam:     g.faker.City() + " United",
			Status:       predictiondomain.MatchStatusScheduled,
		})
	}
	return out
}

// Score returns a plausible football score.
func (g *TestDataGenerator) Score() predictiondomain.Score {
	return predictiondomain.Score{Home: g.faker.Number(0, 4), Away: g.faker.Number(0, 4)}
}

// Finish returns m finished with the given score.
func Finish(m predictiondomain.Match, home, away int) predictiondomain.Match {
	m.Status = predictiondomain.MatchStatusFinished
	m.FinalScore = &predictiondomain.Score{Home: home, Away: away}
	return m
}
