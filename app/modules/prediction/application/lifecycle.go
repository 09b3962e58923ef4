package predictionservice

import (
	"context"
	"errors"
	"log/slog"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictionevents "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/events"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
)

// RecordMatchUpdate stores a fixture change from the registry feed.
//
// Scheduled matches get their lock-window and kickoff notifications
// (re)scheduled. When the update finishes the last open match of a matchday,
// the matchday's aggregates are published.
func (s *PredictionService) RecordMatchUpdate(ctx context.Context, match predictiondomain.Match) error {
	_, err := withTelemetry(s, ctx, "RecordMatchUpdate", match.TournamentID, func(ctx context.Context) (struct{}, error) {
		if match.ID == "" || match.TournamentID == "" || !match.Status.Valid() {
			return struct{}{}, ErrInvalidMatch
		}

		if err := s.repo.UpsertMatch(ctx, nil, predictiondb.MatchFromDomain(match)); err != nil {
			return struct{}{}, err
		}

		now := s.clock.Now()
		if s.scheduler != nil && match.Status == predictiondomain.MatchStatusScheduled &&
			match.HasValidKickoff() && !predictiondomain.IsStarted(match, now) {
			if err := s.scheduler.ScheduleMatchLifecycle(ctx, match); err != nil {
				// The upsert stands; the next update retries scheduling.
				s.logger.ErrorContext(ctx, "Failed to schedule match lifecycle jobs",
					slog.String("match_id", string(match.ID)),
					slog.Any("error", err),
				)
			}
		}

		if match.Status == predictiondomain.MatchStatusFinished {
			if err := s.publishMatchdayIfComplete(ctx, match.TournamentID, match.Matchday); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	return err
}

func (s *PredictionService) publishMatchdayIfComplete(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) error {
	in, err := s.loadInputs(ctx, tournamentID, &matchday)
	if err != nil {
		return err
	}
	if !predictiondomain.MatchdayComplete(in.matches, in.cfg) {
		return nil
	}

	standings := s.standingsFor(tournamentID, matchday, in)
	s.publish(ctx, predictionevents.MatchdayScoredV1, predictionevents.MatchdayScoredPayloadV1{
		TournamentID: tournamentID,
		Matchday:     matchday,
		Aggregates:   standings.Aggregates,
		Standings:    standings.Standings,
		ScoredAt:     s.clock.Now(),
	})
	s.metrics.RecordMatchdayScored(ctx, string(tournamentID), len(standings.Aggregates))
	return nil
}

// CloseLockWindow announces that a match stopped accepting predictions. Jobs
// for matches that were rescheduled or postponed since are dropped.
func (s *PredictionService) CloseLockWindow(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID) error {
	_, err := withTelemetry(s, ctx, "CloseLockWindow", tournamentID, func(ctx context.Context) (struct{}, error) {
		match, ok, err := s.currentMatch(ctx, tournamentID, matchID)
		if err != nil || !ok {
			return struct{}{}, err
		}
		if predictiondomain.IsPostponed(match) || !predictiondomain.IsLocked(match, s.clock.Now()) {
			s.logger.InfoContext(ctx, "Skipping stale lock-window notification",
				slog.String("match_id", string(matchID)),
			)
			return struct{}{}, nil
		}

		s.publish(ctx, predictionevents.PredictionWindowClosedV1, predictionevents.PredictionWindowClosedPayloadV1{
			TournamentID: tournamentID,
			MatchID:      matchID,
			Matchday:     match.Matchday,
			LockTime:     predictiondomain.LockTime(match),
		})
		return struct{}{}, nil
	})
	return err
}

// StartMatch announces kickoff. From here on missing predictions score as
// defaults.
func (s *PredictionService) StartMatch(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID) error {
	_, err := withTelemetry(s, ctx, "StartMatch", tournamentID, func(ctx context.Context) (struct{}, error) {
		match, ok, err := s.currentMatch(ctx, tournamentID, matchID)
		if err != nil || !ok {
			return struct{}{}, err
		}
		if predictiondomain.IsPostponed(match) || !predictiondomain.IsStarted(match, s.clock.Now()) {
			s.logger.InfoContext(ctx, "Skipping stale kickoff notification",
				slog.String("match_id", string(matchID)),
			)
			return struct{}{}, nil
		}

		s.publish(ctx, predictionevents.MatchStartedV1, predictionevents.MatchStartedPayloadV1{
			TournamentID: tournamentID,
			MatchID:      matchID,
			Matchday:     match.Matchday,
			Kickoff:      match.Kickoff,
		})
		return struct{}{}, nil
	})
	return err
}

// currentMatch loads a match, reporting ok=false when it no longer exists.
func (s *PredictionService) currentMatch(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID) (predictiondomain.Match, bool, error) {
	row, err := s.repo.GetMatch(ctx, nil, string(tournamentID), string(matchID))
	if err != nil {
		if errors.Is(err, predictiondb.ErrNotFound) {
			s.logger.WarnContext(ctx, "Match vanished before its scheduled job ran",
				slog.String("match_id", string(matchID)),
			)
			return predictiondomain.Match{}, false, nil
		}
		return predictiondomain.Match{}, false, err
	}
	return row.ToDomain(), true, nil
}
