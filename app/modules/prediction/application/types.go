package predictionservice

import (
	"time"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
)

// SubmitPredictionRequest is a participant's write. There is no lock flag:
// lock state is always derived from the service clock.
type SubmitPredictionRequest struct {
	TournamentID  predictiondomain.TournamentID
	MatchID       predictiondomain.MatchID
	ParticipantID predictiondomain.ParticipantID
	Home          int
	Away          int
	Qualifier     predictiondomain.Side
}

// PredictionView is the prediction that counts for a participant right now.
type PredictionView struct {
	TournamentID  predictiondomain.TournamentID  `json:"tournament_id"`
	MatchID       predictiondomain.MatchID       `json:"match_id"`
	ParticipantID predictiondomain.ParticipantID `json:"participant_id"`
	Kind          string                         `json:"kind"`
	Home          int                            `json:"home"`
	Away          int                            `json:"away"`
	Qualifier     predictiondomain.Side          `json:"qualifier,omitempty"`
	SubmittedAt   *time.Time                     `json:"submitted_at,omitempty"`
	Locked        bool                           `json:"locked"`
	LockTime      time.Time                      `json:"lock_time"`
	Phase         predictiondomain.Phase         `json:"phase"`
}

// MatchdayStandings is every participant's result for one matchday.
type MatchdayStandings struct {
	TournamentID predictiondomain.TournamentID        `json:"tournament_id"`
	Matchday     int                                  `json:"matchday"`
	Complete     bool                                 `json:"complete"`
	BonusMatchID predictiondomain.MatchID             `json:"bonus_match_id,omitempty"`
	Aggregates   []predictiondomain.MatchdayAggregate `json:"aggregates"`
	Standings    []predictiondomain.Standing          `json:"standings"`
}

// TournamentRankings ranks participants over every scored matchday.
type TournamentRankings struct {
	TournamentID   predictiondomain.TournamentID `json:"tournament_id"`
	LatestMatchday int                           `json:"latest_matchday"`
	Standings      []predictiondomain.Standing   `json:"standings"`
}

// Export is a rendered document.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}
