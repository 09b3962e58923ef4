package predictiondomain

import "time"

type (
	MatchID       string
	ParticipantID string
	TournamentID  string
)

// MatchStatus is the lifecycle status reported by the match registry.
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
	MatchStatusPostponed MatchStatus = "postponed"
)

// Valid reports whether s is one of the known statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusLive, MatchStatusFinished, MatchStatusPostponed:
		return true
	}
	return false
}

// Side identifies one of the two teams of a fixture.
type Side string

const (
	SideNone Side = ""
	SideHome Side = "home"
	SideAway Side = "away"
)

// Score is a pair of goal counts.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Match is the engine's read-only view of a fixture.
type Match struct {
	ID           MatchID
	TournamentID TournamentID
	Matchday     int
	Kickoff      time.Time
	HomeTeam     string
	AwayTeam     string
	Status       MatchStatus
	FinalScore   *Score

	// Knockout fixtures only. Score90 is the score after regulation time and
	// Winner the side that qualified.
	Knockout bool
	Score90  *Score
	Winner   Side
}

// HasValidKickoff reports whether the kickoff timestamp can be used for lock
// and lifecycle decisions.
func (m Match) HasValidKickoff() bool {
	return !m.Kickoff.IsZero() && m.Kickoff.Unix() > 0
}

// ScoringScore returns the score points are computed against. Knockout
// fixtures are scored on regulation time when available.
func (m Match) ScoringScore() *Score {
	if m.Knockout && m.Score90 != nil {
		return m.Score90
	}
	return m.FinalScore
}

// ScoringConfig holds the per-tournament point scale.
type ScoringConfig struct {
	ExactScorePoints           int
	CorrectResultPoints        int
	IncorrectResultPoints      int
	DefaultPredictionMaxPoints int
	BonusMatchEnabled          bool
	EarlyBonusEnabled          bool
	QualifierBonusEnabled      bool

	// StartsAt excludes fixtures kicking off before the tournament began.
	StartsAt *time.Time
}

// DefaultScoringConfig is used when a tournament has no stored configuration.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ExactScorePoints:           3,
		CorrectResultPoints:        1,
		IncorrectResultPoints:      0,
		DefaultPredictionMaxPoints: 1,
		BonusMatchEnabled:          true,
		EarlyBonusEnabled:          false,
	}
}

// BonusDesignation marks the single point-doubling match of a matchday.
type BonusDesignation struct {
	TournamentID TournamentID
	Matchday     int
	MatchID      MatchID
}

// MatchPoints is the per-match breakdown exposed to participants.
type MatchPoints struct {
	Points         int  `json:"points"`
	IsDefault      bool `json:"is_default"`
	IsBonus        bool `json:"is_bonus"`
	IsExact        bool `json:"is_exact"`
	IsCorrect      bool `json:"is_correct"`
	QualifierBonus int  `json:"qualifier_bonus,omitempty"`
}

// MatchdayAggregate is a participant's recomputed matchday result.
type MatchdayAggregate struct {
	ParticipantID     ParticipantID           `json:"participant_id"`
	Matchday          int                     `json:"matchday"`
	PerMatch          map[MatchID]MatchPoints `json:"per_match"`
	Total             int                     `json:"total"`
	EarlyBonusAwarded bool                    `json:"early_bonus_awarded"`
	ExactScores       int                     `json:"exact_scores"`
	CorrectResults    int                     `json:"correct_results"`
	MatchesPlayed     int                     `json:"matches_played"`
}
