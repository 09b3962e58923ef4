package predictionhandlers

import (
	"context"

	predictionservice "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/application"
	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
)

// ------------------------
// Fake Prediction Service
// ------------------------

// FakeService provides a programmable stub for predictionservice.Service.
type FakeService struct {
	trace []string

	RecordMatchUpdateFunc      func(ctx context.Context, match predictiondomain.Match) error
	RecordBonusDesignationFunc func(ctx context.Context, designation predictiondomain.BonusDesignation) error
	RegisterParticipantFunc    func(ctx context.Context, tournamentID predictiondomain.TournamentID, participantID predictiondomain.ParticipantID) error
}

// NewFakeService initializes a new FakeService.
func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}}
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Service Interface Implementation ---

func (f *FakeService) SubmitPrediction(ctx context.Context, req predictionservice.SubmitPredictionRequest) (*predictionservice.PredictionView, error) {
	f.record("SubmitPrediction")
	return &predictionservice.PredictionView{}, nil
}

func (f *FakeService) GetPrediction(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID, participantID predictiondomain.ParticipantID) (*predictionservice.PredictionView, error) {
	f.record("GetPrediction")
	return &predictionservice.PredictionView{}, nil
}

func (f *FakeService) GetMatchdayAggregate(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int, participantID predictiondomain.ParticipantID) (*predictiondomain.MatchdayAggregate, error) {
	f.record("GetMatchdayAggregate")
	return &predictiondomain.MatchdayAggregate{}, nil
}

func (f *FakeService) GetMatchdayStandings(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (*predictionservice.MatchdayStandings, error) {
	f.record("GetMatchdayStandings")
	return &predictionservice.MatchdayStandings{}, nil
}

func (f *FakeService) GetTournamentRankings(ctx context.Context, tournamentID predictiondomain.TournamentID) (*predictionservice.TournamentRankings, error) {
	f.record("GetTournamentRankings")
	return &predictionservice.TournamentRankings{}, nil
}

func (f *FakeService) ApplyDefaultPredictions(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (int, error) {
	f.record("ApplyDefaultPredictions")
	return 0, nil
}

func (f *FakeService) DesignateBonusMatch(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (*predictiondomain.BonusDesignation, error) {
	f.record("DesignateBonusMatch")
	return &predictiondomain.BonusDesignation{}, nil
}

func (f *FakeService) RecordBonusDesignation(ctx context.Context, designation predictiondomain.BonusDesignation) error {
	f.record("RecordBonusDesignation")
	if f.RecordBonusDesignationFunc != nil {
		return f.RecordBonusDesignationFunc(ctx, designation)
	}
	return nil
}

func (f *FakeService) RecordMatchUpdate(ctx context.Context, match predictiondomain.Match) error {
	f.record("RecordMatchUpdate")
	if f.RecordMatchUpdateFunc != nil {
		return f.RecordMatchUpdateFunc(ctx, match)
	}
	return nil
}

func (f *FakeService) RegisterParticipant(ctx context.Context, tournamentID predictiondomain.TournamentID, participantID predictiondomain.ParticipantID) error {
	f.record("RegisterParticipant")
	if f.RegisterParticipantFunc != nil {
		return f.RegisterParticipantFunc(ctx, tournamentID, participantID)
	}
	return nil
}

func (f *FakeService) CloseLockWindow(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID) error {
	f.record("CloseLockWindow")
	return nil
}

func (f *FakeService) StartMatch(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID) error {
	f.record("StartMatch")
	return nil
}

func (f *FakeService) ExportMatchdayStandings(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (*predictionservice.Export, error) {
	f.record("ExportMatchdayStandings")
	return &predictionservice.Export{}, nil
}

func (f *FakeService) RenderParticipantChart(ctx context.Context, tournamentID predictiondomain.TournamentID, participantID predictiondomain.ParticipantID) (*predictionservice.Export, error) {
	f.record("RenderParticipantChart")
	return &predictionservice.Export{}, nil
}

func (f *FakeService) ArchiveFinishedMatchdays(ctx context.Context) (int, error) {
	f.record("ArchiveFinishedMatchdays")
	return 0, nil
}

var _ predictionservice.Service = (*FakeService)(nil)
