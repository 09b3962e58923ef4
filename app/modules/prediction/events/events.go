package predictionevents

import (
	"time"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
)

// Published topics.
const (
	// PredictionSubmittedV1 is published after a prediction write commits.
	PredictionSubmittedV1 = "prediction.submitted.v1"
	// PredictionWindowClosedV1 is published when a match reaches its lock time.
	PredictionWindowClosedV1 = "prediction.window.closed.v1"
	// MatchStartedV1 is published at kickoff.
	MatchStartedV1 = "match.started.v1"
	// MatchdayScoredV1 carries the aggregates of a matchday whose matches are
	// all finished.
	MatchdayScoredV1 = "matchday.scored.v1"
)

// Consumed topics.
const (
	// MatchUpdatedV1 carries fixture changes from the ingestion job.
	MatchUpdatedV1 = "match.updated.v1"
	// BonusMatchDesignatedV1 designates a bonus match from an external source.
	BonusMatchDesignatedV1 = "bonus.match.designated.v1"
	// ParticipantJoinedV1 registers a participant in a tournament.
	ParticipantJoinedV1 = "participant.joined.v1"
)

// PredictionSubmittedPayloadV1 is the payload of PredictionSubmittedV1.
type PredictionSubmittedPayloadV1 struct {
	TournamentID  predictiondomain.TournamentID  `json:"tournament_id"`
	MatchID       predictiondomain.MatchID       `json:"match_id"`
	ParticipantID predictiondomain.ParticipantID `json:"participant_id"`
	Home          int                            `json:"home"`
	Away          int                            `json:"away"`
	Qualifier     predictiondomain.Side          `json:"qualifier,omitempty"`
	SubmittedAt   time.Time                      `json:"submitted_at"`
}

// PredictionWindowClosedPayloadV1 is the payload of PredictionWindowClosedV1.
type PredictionWindowClosedPayloadV1 struct {
	TournamentID predictiondomain.TournamentID `json:"tournament_id"`
	MatchID      predictiondomain.MatchID      `json:"match_id"`
	Matchday     int                           `json:"matchday"`
	LockTime     time.Time                     `json:"lock_time"`
}

// MatchStartedPayloadV1 is the payload of MatchStartedV1.
type MatchStartedPayloadV1 struct {
	TournamentID predictiondomain.TournamentID `json:"tournament_id"`
	MatchID      predictiondomain.MatchID      `json:"match_id"`
	Matchday     int                           `json:"matchday"`
	Kickoff      time.Time                     `json:"kickoff"`
}

// MatchdayScoredPayloadV1 is the payload of MatchdayScoredV1.
type MatchdayScoredPayloadV1 struct {
	TournamentID predictiondomain.TournamentID        `json:"tournament_id"`
	Matchday     int                                  `json:"matchday"`
	Aggregates   []predictiondomain.MatchdayAggregate `json:"aggregates"`
	Standings    []predictiondomain.Standing          `json:"standings"`
	ScoredAt     time.Time                            `json:"scored_at"`
}

// MatchUpdatedPayloadV1 is the payload of MatchUpdatedV1. Scores are nil
// until known.
type MatchUpdatedPayloadV1 struct {
	TournamentID predictiondomain.TournamentID `json:"tournament_id"`
	MatchID      predictiondomain.MatchID      `json:"match_id"`
	Matchday     int                           `json:"matchday"`
	Kickoff      time.Time                     `json:"kickoff"`
	HomeTeam     string                        `json:"home_team"`
	AwayTeam     string                        `json:"away_team"`
	Status       predictiondomain.MatchStatus  `json:"status"`
	FinalScore   *predictiondomain.Score       `json:"final_score,omitempty"`
	Knockout     bool                          `json:"knockout,omitempty"`
	Score90      *predictiondomain.Score       `json:"score_90,omitempty"`
	Winner       predictiondomain.Side         `json:"winner,omitempty"`
}

// ToMatch converts the payload to the engine's match view.
func (p MatchUpdatedPayloadV1) ToMatch() predictiondomain.Match {
	return predictiondomain.Match{
		ID:           p.MatchID,
		TournamentID: p.TournamentID,
		Matchday:     p.Matchday,
		Kickoff:      p.Kickoff,
		HomeTeam:     p.HomeTeam,
		AwayTeam:     p.AwayTeam,
		Status:       p.Status,
		FinalScore:   p.FinalScore,
		Knockout:     p.Knockout,
		Score90:      p.Score90,
		Winner:       p.Winner,
	}
}

// BonusMatchDesignatedPayloadV1 is the payload of BonusMatchDesignatedV1.
type BonusMatchDesignatedPayloadV1 struct {
	TournamentID predictiondomain.TournamentID `json:"tournament_id"`
	Matchday     int                           `json:"matchday"`
	MatchID      predictiondomain.MatchID      `json:"match_id"`
}

// ParticipantJoinedPayloadV1 is the payload of ParticipantJoinedV1.
type ParticipantJoinedPayloadV1 struct {
	TournamentID  predictiondomain.TournamentID  `json:"tournament_id"`
	ParticipantID predictiondomain.ParticipantID `json:"participant_id"`
}
