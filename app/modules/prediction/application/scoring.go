package predictionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// scoringInputs is everything one scoring pass reads, resolved once so a
// concurrent designation or config change cannot be observed halfway.
type scoringInputs struct {
	cfg          predictiondomain.ScoringConfig
	bonus        predictiondomain.BonusMatches
	designations []predictiondomain.BonusDesignation
	matches      []predictiondomain.Match
	participants []predictiondomain.ParticipantID
	predictions  map[predictiondomain.ParticipantID]map[predictiondomain.MatchID]predictiondomain.Prediction
}

// loadScoringConfig falls back to the configured default scale when the tournament has
// no stored configuration.
func (s *PredictionService) loadScoringConfig(ctx context.Context, db bun.IDB, tournamentID predictiondomain.TournamentID) (predictiondomain.ScoringConfig, error) {
	row, err := s.repo.GetScoringConfig(ctx, db, string(tournamentID))
	if err != nil {
		if errors.Is(err, predictiondb.ErrNotFound) {
			s.logger.WarnContext(ctx, "Using default scoring config",
				slog.String("tournament_id", string(tournamentID)),
				slog.Any("error", predictiondomain.ErrMissingConfig),
			)
			return s.fallback, nil
		}
		return predictiondomain.ScoringConfig{}, err
	}
	return row.ToDomain(), nil
}

// loadInputs reads the scoring inputs for the given matches. A nil matchday
// loads the whole tournament.
func (s *PredictionService) loadInputs(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday *int) (*scoringInputs, error) {
	cfg, err := s.loadScoringConfig(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	var rows []predictiondb.Match
	if matchday != nil {
		rows, err = s.repo.ListMatchesByMatchday(ctx, nil, string(tournamentID), *matchday)
	} else {
		rows, err = s.repo.ListMatches(ctx, nil, string(tournamentID))
	}
	if err != nil {
		return nil, err
	}

	in := &scoringInputs{
		cfg:         cfg,
		matches:     make([]predictiondomain.Match, 0, len(rows)),
		predictions: make(map[predictiondomain.ParticipantID]map[predictiondomain.MatchID]predictiondomain.Prediction),
	}
	matchIDs := make([]string, 0, len(rows))
	for i := range rows {
		in.matches = append(in.matches, rows[i].ToDomain())
		matchIDs = append(matchIDs, rows[i].ID)
	}

	designations, err := s.repo.ListBonusMatches(ctx, nil, string(tournamentID))
	if err != nil {
		return nil, err
	}
	for i := range designations {
		in.designations = append(in.designations, designations[i].ToDomain())
	}
	in.bonus = predictiondomain.NewBonusMatches(in.designations)

	stored, err := s.repo.ListPredictions(ctx, nil, string(tournamentID), matchIDs)
	if err != nil {
		return nil, err
	}
	for i := range stored {
		pid := predictiondomain.ParticipantID(stored[i].ParticipantID)
		if in.predictions[pid] == nil {
			in.predictions[pid] = make(map[predictiondomain.MatchID]predictiondomain.Prediction)
		}
		in.predictions[pid][predictiondomain.MatchID(stored[i].MatchID)] = stored[i].ToDomain()
	}

	registered, err := s.repo.ListParticipants(ctx, nil, string(tournamentID))
	if err != nil {
		return nil, err
	}
	for _, id := range registered {
		in.participants = append(in.participants, predictiondomain.ParticipantID(id))
	}
	for pid := range in.predictions {
		in.participants = append(in.participants, pid)
	}
	slices.Sort(in.participants)
	in.participants = slices.Compact(in.participants)

	return in, nil
}

// matchesOf filters inputs down to one matchday.
func (in *scoringInputs) matchesOf(matchday int) []predictiondomain.Match {
	out := make([]predictiondomain.Match, 0)
	for _, m := range in.matches {
		if m.Matchday == matchday {
			out = append(out, m)
		}
	}
	return out
}

// matchdays returns the distinct matchdays present, ascending.
func (in *scoringInputs) matchdays() []int {
	out := make([]int, 0)
	for _, m := range in.matches {
		out = append(out, m.Matchday)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (in *scoringInputs) bonusMatchOf(matchday int) predictiondomain.MatchID {
	for _, d := range in.designations {
		if d.Matchday == matchday {
			return d.MatchID
		}
	}
	return ""
}

// GetMatchdayAggregate recomputes one participant's matchday result.
func (s *PredictionService) GetMatchdayAggregate(
	ctx context.Context,
	tournamentID predictiondomain.TournamentID,
	matchday int,
	participantID predictiondomain.ParticipantID,
) (*predictiondomain.MatchdayAggregate, error) {
	return withTelemetry(s, ctx, "GetMatchdayAggregate", tournamentID, func(ctx context.Context) (*predictiondomain.MatchdayAggregate, error) {
		in, err := s.loadInputs(ctx, tournamentID, &matchday)
		if err != nil {
			return nil, err
		}
		agg := predictiondomain.Aggregate(participantID, matchday, in.matches, in.predictions[participantID], in.cfg, in.bonus, s.clock.Now())
		return &agg, nil
	})
}

// GetMatchdayStandings aggregates and ranks every participant of a matchday.
func (s *PredictionService) GetMatchdayStandings(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (*MatchdayStandings, error) {
	return withTelemetry(s, ctx, "GetMatchdayStandings", tournamentID, func(ctx context.Context) (*MatchdayStandings, error) {
		in, err := s.loadInputs(ctx, tournamentID, &matchday)
		if err != nil {
			return nil, err
		}
		return s.standingsFor(tournamentID, matchday, in), nil
	})
}

func (s *PredictionService) standingsFor(tournamentID predictiondomain.TournamentID, matchday int, in *scoringInputs) *MatchdayStandings {
	matches := in.matchesOf(matchday)
	aggs := predictiondomain.AggregateAll(in.participants, matchday, matches, in.predictions, in.cfg, in.bonus, s.clock.Now())
	return &MatchdayStandings{
		TournamentID: tournamentID,
		Matchday:     matchday,
		Complete:     predictiondomain.MatchdayComplete(matches, in.cfg),
		BonusMatchID: in.bonusMatchOf(matchday),
		Aggregates:   aggs,
		Standings:    predictiondomain.Rank(predictiondomain.Accumulate(aggs), nil),
	}
}

// tournamentAggregates aggregates every participant for every matchday and
// returns them keyed by matchday along with the matchdays that produced
// points.
func (s *PredictionService) tournamentAggregates(in *scoringInputs) (map[int][]predictiondomain.MatchdayAggregate, []int) {
	now := s.clock.Now()
	byMatchday := make(map[int][]predictiondomain.MatchdayAggregate)
	scored := make([]int, 0)
	for _, md := range in.matchdays() {
		aggs := predictiondomain.AggregateAll(in.participants, md, in.matchesOf(md), in.predictions, in.cfg, in.bonus, now)
		byMatchday[md] = aggs
		for _, a := range aggs {
			if len(a.PerMatch) > 0 {
				scored = append(scored, md)
				break
			}
		}
	}
	return byMatchday, scored
}

// GetTournamentRankings ranks participants over the whole tournament. Rank
// change compares against the ranking before the latest scored matchday.
func (s *PredictionService) GetTournamentRankings(ctx context.Context, tournamentID predictiondomain.TournamentID) (*TournamentRankings, error) {
	return withTelemetry(s, ctx, "GetTournamentRankings", tournamentID, func(ctx context.Context) (*TournamentRankings, error) {
		in, err := s.loadInputs(ctx, tournamentID, nil)
		if err != nil {
			return nil, err
		}
		return s.rankingsFrom(tournamentID, in), nil
	})
}

func (s *PredictionService) rankingsFrom(tournamentID predictiondomain.TournamentID, in *scoringInputs) *TournamentRankings {
	byMatchday, scored := s.tournamentAggregates(in)

	all := make([]predictiondomain.MatchdayAggregate, 0)
	before := make([]predictiondomain.MatchdayAggregate, 0)
	latest := 0
	if len(scored) > 0 {
		latest = scored[len(scored)-1]
	}
	for _, md := range scored {
		all = append(all, byMatchday[md]...)
		if md != latest {
			before = append(before, byMatchday[md]...)
		}
	}

	var previous []predictiondomain.Standing
	if len(scored) > 1 {
		previous = predictiondomain.Rank(predictiondomain.Accumulate(before), nil)
	}

	standings := predictiondomain.Accumulate(all)
	// Participants with no scored match yet still appear with zero points.
	seen := make(map[predictiondomain.ParticipantID]struct{}, len(standings))
	for _, st := range standings {
		seen[st.ParticipantID] = struct{}{}
	}
	for _, pid := range in.participants {
		if _, ok := seen[pid]; !ok {
			standings = append(standings, predictiondomain.Standing{ParticipantID: pid})
		}
	}

	return &TournamentRankings{
		TournamentID:   tournamentID,
		LatestMatchday: latest,
		Standings:      predictiondomain.Rank(standings, previous),
	}
}

func matchdayLabel(tournamentID predictiondomain.TournamentID, matchday int) string {
	return fmt.Sprintf("%s matchday %d", tournamentID, matchday)
}
