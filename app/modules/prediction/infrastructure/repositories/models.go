package predictiondb

import (
	"time"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Prediction is one participant's entry for one match.
type Prediction struct {
	bun.BaseModel `bun:"table:predictions,alias:p"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	TournamentID  string    `bun:"tournament_id,notnull,unique:predictions_owner"`
	MatchID       string    `bun:"match_id,notnull,unique:predictions_owner"`
	ParticipantID string    `bun:"participant_id,notnull,unique:predictions_owner"`
	Home          int       `bun:"home,notnull"`
	Away          int       `bun:"away,notnull"`
	Qualifier     string    `bun:"qualifier,notnull,default:''"`

	// IsDefault marks rows persisted by the apply-defaults admin action.
	IsDefault   bool      `bun:"is_default,notnull,default:false"`
	SubmittedAt time.Time `bun:"submitted_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row to the stored prediction variant.
func (p *Prediction) ToDomain() predictiondomain.Prediction {
	if p == nil {
		return predictiondomain.Missing{}
	}
	if p.IsDefault {
		return predictiondomain.Recorded{Home: p.Home, Away: p.Away, RecordedAt: p.SubmittedAt}
	}
	return predictiondomain.Genuine{
		Home:        p.Home,
		Away:        p.Away,
		SubmittedAt: p.SubmittedAt,
		Qualifier:   predictiondomain.Side(p.Qualifier),
	}
}

// Match is the registry's copy of a fixture, maintained from match.updated
// events.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID           string    `bun:"id,pk"`
	TournamentID string    `bun:"tournament_id,pk"`
	Matchday     int       `bun:"matchday,notnull"`
	Kickoff      time.Time `bun:"kickoff,nullzero"`
	HomeTeam     string    `bun:"home_team,notnull,default:''"`
	AwayTeam     string    `bun:"away_team,notnull,default:''"`
	Status       string    `bun:"status,notnull,default:'scheduled'"`
	HomeScore    *int      `bun:"home_score"`
	AwayScore    *int      `bun:"away_score"`
	Knockout     bool      `bun:"knockout,notnull,default:false"`
	HomeScore90  *int      `bun:"home_score_90"`
	AwayScore90  *int      `bun:"away_score_90"`
	Winner       string    `bun:"winner,notnull,default:''"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func scorePtr(home, away *int) *predictiondomain.Score {
	if home == nil || away == nil {
		return nil
	}
	return &predictiondomain.Score{Home: *home, Away: *away}
}

func splitScore(s *predictiondomain.Score) (*int, *int) {
	if s == nil {
		return nil, nil
	}
	home, away := s.Home, s.Away
	return &home, &away
}

// ToDomain converts the row to the engine's match view.
func (m *Match) ToDomain() predictiondomain.Match {
	return predictiondomain.Match{
		ID:           predictiondomain.MatchID(m.ID),
		TournamentID: predictiondomain.TournamentID(m.TournamentID),
		Matchday:     m.Matchday,
		Kickoff:      m.Kickoff,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		Status:       predictiondomain.MatchStatus(m.Status),
		FinalScore:   scorePtr(m.HomeScore, m.AwayScore),
		Knockout:     m.Knockout,
		Score90:      scorePtr(m.HomeScore90, m.AwayScore90),
		Winner:       predictiondomain.Side(m.Winner),
	}
}

// MatchFromDomain builds a row from the engine's match view.
func MatchFromDomain(m predictiondomain.Match) *Match {
	row := &Match{
		ID:           string(m.ID),
		TournamentID: string(m.TournamentID),
		Matchday:     m.Matchday,
		Kickoff:      m.Kickoff,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		Status:       string(m.Status),
		Knockout:     m.Knockout,
		Winner:       string(m.Winner),
	}
	row.HomeScore, row.AwayScore = splitScore(m.FinalScore)
	row.HomeScore90, row.AwayScore90 = splitScore(m.Score90)
	return row
}

// BonusMatch is the designated bonus match of a matchday. The primary key
// keeps one designation per matchday.
type BonusMatch struct {
	bun.BaseModel `bun:"table:bonus_matches,alias:bm"`

	TournamentID string    `bun:"tournament_id,pk"`
	Matchday     int       `bun:"matchday,pk"`
	MatchID      string    `bun:"match_id,notnull"`
	Source       string    `bun:"source,notnull,default:'admin'"`
	DesignatedAt time.Time `bun:"designated_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row to a designation.
func (b *BonusMatch) ToDomain() predictiondomain.BonusDesignation {
	return predictiondomain.BonusDesignation{
		TournamentID: predictiondomain.TournamentID(b.TournamentID),
		Matchday:     b.Matchday,
		MatchID:      predictiondomain.MatchID(b.MatchID),
	}
}

// TournamentScoring is the per-tournament point scale.
type TournamentScoring struct {
	bun.BaseModel `bun:"table:tournament_scoring,alias:ts"`

	TournamentID               string     `bun:"tournament_id,pk"`
	ExactScorePoints           int        `bun:"exact_score_points,notnull,default:3"`
	CorrectResultPoints        int        `bun:"correct_result_points,notnull,default:1"`
	IncorrectResultPoints      int        `bun:"incorrect_result_points,notnull,default:0"`
	DefaultPredictionMaxPoints int        `bun:"default_prediction_max_points,notnull,default:1"`
	BonusMatchEnabled          bool       `bun:"bonus_match_enabled,notnull,default:true"`
	EarlyBonusEnabled          bool       `bun:"early_bonus_enabled,notnull,default:false"`
	QualifierBonusEnabled      bool       `bun:"qualifier_bonus_enabled,notnull,default:false"`
	StartsAt                   *time.Time `bun:"starts_at"`
	UpdatedAt                  time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row to a scoring configuration.
func (s *TournamentScoring) ToDomain() predictiondomain.ScoringConfig {
	return predictiondomain.ScoringConfig{
		ExactScorePoints:           s.ExactScorePoints,
		CorrectResultPoints:        s.CorrectResultPoints,
		IncorrectResultPoints:      s.IncorrectResultPoints,
		DefaultPredictionMaxPoints: s.DefaultPredictionMaxPoints,
		BonusMatchEnabled:          s.BonusMatchEnabled,
		EarlyBonusEnabled:          s.EarlyBonusEnabled,
		QualifierBonusEnabled:      s.QualifierBonusEnabled,
		StartsAt:                   s.StartsAt,
	}
}

// Participant registers a participant in a tournament.
type Participant struct {
	bun.BaseModel `bun:"table:tournament_participants,alias:tp"`

	TournamentID  string    `bun:"tournament_id,pk"`
	ParticipantID string    `bun:"participant_id,pk"`
	JoinedAt      time.Time `bun:"joined_at,nullzero,notnull,default:current_timestamp"`
}

// MatchdayArchive records a standings export uploaded to object storage.
type MatchdayArchive struct {
	bun.BaseModel `bun:"table:matchday_archives,alias:ma"`

	TournamentID string    `bun:"tournament_id,pk"`
	Matchday     int       `bun:"matchday,pk"`
	ObjectKey    string    `bun:"object_key,notnull"`
	ArchivedAt   time.Time `bun:"archived_at,nullzero,notnull,default:current_timestamp"`
}

// MatchdayRef identifies a matchday of a tournament.
type MatchdayRef struct {
	TournamentID string `bun:"tournament_id"`
	Matchday     int    `bun:"matchday"`
}
