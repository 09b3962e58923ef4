package predictionservice

import (
	"context"
	"time"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictionexports "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/exports"
)

// Service is the prediction engine's application boundary.
type Service interface {
	SubmitPrediction(ctx context.Context, req SubmitPredictionRequest) (*PredictionView, error)
	GetPrediction(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID, participantID predictiondomain.ParticipantID) (*PredictionView, error)

	GetMatchdayAggregate(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int, participantID predictiondomain.ParticipantID) (*predictiondomain.MatchdayAggregate, error)
	GetMatchdayStandings(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (*MatchdayStandings, error)
	GetTournamentRankings(ctx context.Context, tournamentID predictiondomain.TournamentID) (*TournamentRankings, error)

	ApplyDefaultPredictions(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (int, error)
	DesignateBonusMatch(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (*predictiondomain.BonusDesignation, error)
	RecordBonusDesignation(ctx context.Context, designation predictiondomain.BonusDesignation) error

	RecordMatchUpdate(ctx context.Context, match predictiondomain.Match) error
	RegisterParticipant(ctx context.Context, tournamentID predictiondomain.TournamentID, participantID predictiondomain.ParticipantID) error
	CloseLockWindow(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID) error
	StartMatch(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID) error

	ExportMatchdayStandings(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (*Export, error)
	RenderParticipantChart(ctx context.Context, tournamentID predictiondomain.TournamentID, participantID predictiondomain.ParticipantID) (*Export, error)
	ArchiveFinishedMatchdays(ctx context.Context) (int, error)
}

// Clock supplies the server time used for every lock decision.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// LifecycleScheduler schedules the lock-window and kickoff notifications of
// a match.
type LifecycleScheduler interface {
	ScheduleMatchLifecycle(ctx context.Context, match predictiondomain.Match) error
}

// Renderer produces downloadable documents.
type Renderer interface {
	StandingsWorkbook(report predictionexports.StandingsReport) ([]byte, error)
	PointsChart(series predictionexports.PointsSeries) ([]byte, error)
}

// ObjectStore persists archived exports.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, body []byte) error
}
