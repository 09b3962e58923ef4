package predictionhttp

import (
	"context"

	predictionservice "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/application"
	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
)

// FakeService is a programmable predictionservice.Service for route tests.
type FakeService struct {
	trace []string

	SubmitPredictionFunc        func(ctx context.Context, req predictionservice.SubmitPredictionRequest) (*predictionservice.PredictionView, error)
	GetPredictionFunc           func(ctx context.Context, tid predictiondomain.TournamentID, mid predictiondomain.MatchID, pid predictiondomain.ParticipantID) (*predictionservice.PredictionView, error)
	GetMatchdayAggregateFunc    func(ctx context.Context, tid predictiondomain.TournamentID, matchday int, pid predictiondomain.ParticipantID) (*predictiondomain.MatchdayAggregate, error)
	GetTournamentRankingsFunc   func(ctx context.Context, tid predictiondomain.TournamentID) (*predictionservice.TournamentRankings, error)
	ApplyDefaultPredictionsFunc func(ctx context.Context, tid predictiondomain.TournamentID, matchday int) (int, error)
	DesignateBonusMatchFunc     func(ctx context.Context, tid predictiondomain.TournamentID, matchday int) (*predictiondomain.BonusDesignation, error)
	ExportMatchdayStandingsFunc func(ctx context.Context, tid predictiondomain.TournamentID, matchday int) (*predictionservice.Export, error)
}

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

func (f *FakeService) SubmitPrediction(ctx context.Context, req predictionservice.SubmitPredictionRequest) (*predictionservice.PredictionView, error) {
	f.record("SubmitPrediction")
	if f.SubmitPredictionFunc != nil {
		return f.SubmitPredictionFunc(ctx, req)
	}
	return &predictionservice.PredictionView{}, nil
}

func (f *FakeService) GetPrediction(ctx context.Context, tid predictiondomain.TournamentID, mid predictiondomain.MatchID, pid predictiondomain.ParticipantID) (*predictionservice.PredictionView, error) {
	f.record("GetPrediction")
	if f.GetPredictionFunc != nil {
		return f.GetPredictionFunc(ctx, tid, mid, pid)
	}
	return &predictionservice.PredictionView{}, nil
}

func (f *FakeService) GetMatchdayAggregate(ctx context.Context, tid predictiondomain.TournamentID, matchday int, pid predictiondomain.ParticipantID) (*predictiondomain.MatchdayAggregate, error) {
	f.record("GetMatchdayAggregate")
	if f.GetMatchdayAggregateFunc != nil {
		return f.GetMatchdayAggregateFunc(ctx, tid, matchday, pid)
	}
	return &predictiondomain.MatchdayAggregate{}, nil
}

func (f *FakeService) GetMatchdayStandings(ctx context.Context, tid predictiondomain.TournamentID, matchday int) (*predictionservice.MatchdayStandings, error) {
	f.record("GetMatchdayStandings")
	return &predictionservice.MatchdayStandings{TournamentID: tid, Matchday: matchday}, nil
}

func (f *FakeService) GetTournamentRankings(ctx context.Context, tid predictiondomain.TournamentID) (*predictionservice.TournamentRankings, error) {
	f.record("GetTournamentRankings")
	if f.GetTournamentRankingsFunc != nil {
		return f.GetTournamentRankingsFunc(ctx, tid)
	}
	return &predictionservice.TournamentRankings{TournamentID: tid}, nil
}

func (f *FakeService) ApplyDefaultPredictions(ctx context.Context, tid predictiondomain.TournamentID, matchday int) (int, error) {
	f.record("ApplyDefaultPredictions")
	if f.ApplyDefaultPredictionsFunc != nil {
		return f.ApplyDefaultPredictionsFunc(ctx, tid, matchday)
	}
	return 0, nil
}

func (f *FakeService) DesignateBonusMatch(ctx context.Context, tid predictiondomain.TournamentID, matchday int) (*predictiondomain.BonusDesignation, error) {
	f.record("DesignateBonusMatch")
	if f.DesignateBonusMatchFunc != nil {
		return f.DesignateBonusMatchFunc(ctx, tid, matchday)
	}
	return &predictiondomain.BonusDesignation{TournamentID: tid, Matchday: matchday}, nil
}

func (f *FakeService) RecordBonusDesignation(ctx context.Context, d predictiondomain.BonusDesignation) error {
	f.record("RecordBonusDesignation")
	return nil
}

func (f *FakeService) RecordMatchUpdate(ctx context.Context, match predictiondomain.Match) error {
	f.record("RecordMatchUpdate")
	return nil
}

func (f *FakeService) RegisterParticipant(ctx context.Context, tid predictiondomain.TournamentID, pid predictiondomain.ParticipantID) error {
	f.record("RegisterParticipant")
	return nil
}

func (f *FakeService) CloseLockWindow(ctx context.Context, tid predictiondomain.TournamentID, mid predictiondomain.MatchID) error {
	f.record("CloseLockWindow")
	return nil
}

func (f *FakeService) StartMatch(ctx context.Context, tid predictiondomain.TournamentID, mid predictiondomain.MatchID) error {
	f.record("StartMatch")
	return nil
}

func (f *FakeService) ExportMatchdayStandings(ctx context.Context, tid predictiondomain.TournamentID, matchday int) (*predictionservice.Export, error) {
	f.record("ExportMatchdayStandings")
	if f.ExportMatchdayStandingsFunc != nil {
		return f.ExportMatchdayStandingsFunc(ctx, tid, matchday)
	}
	return &predictionservice.Export{}, nil
}

func (f *FakeService) RenderParticipantChart(ctx context.Context, tid predictiondomain.TournamentID, pid predictiondomain.ParticipantID) (*predictionservice.Export, error) {
	f.record("RenderParticipantChart")
	return &predictionservice.Export{Filename: "chart.png", ContentType: "image/png", Body: []byte("png")}, nil
}

func (f *FakeService) ArchiveFinishedMatchdays(ctx context.Context) (int, error) {
	f.record("ArchiveFinishedMatchdays")
	return 0, nil
}

var _ predictionservice.Service = (*FakeService)(nil)
