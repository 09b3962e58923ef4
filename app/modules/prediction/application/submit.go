package predictionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictionevents "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/events"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// SubmitPrediction validates and stores a participant's prediction.
//
// The lock check uses the service clock and runs twice: once against the
// match row held FOR SHARE, and again inside the upsert statement itself, so
// a write that loses a race with lock time is still refused.
func (s *PredictionService) SubmitPrediction(ctx context.Context, req SubmitPredictionRequest) (*PredictionView, error) {
	return withTelemetry(s, ctx, "SubmitPrediction", req.TournamentID, func(ctx context.Context) (*PredictionView, error) {
		if err := predictiondomain.ValidatePredictedScore(req.Home, req.Away); err != nil {
			s.metrics.RecordPredictionRejected(ctx, string(req.TournamentID), "invalid_score")
			return nil, err
		}
		switch req.Qualifier {
		case predictiondomain.SideNone, predictiondomain.SideHome, predictiondomain.SideAway:
		default:
			s.metrics.RecordPredictionRejected(ctx, string(req.TournamentID), "invalid_qualifier")
			return nil, ErrInvalidQualifier
		}

		now := s.clock.Now()

		view, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*PredictionView, error) {
			row, err := s.repo.GetMatchForWrite(ctx, db, string(req.TournamentID), string(req.MatchID))
			if err != nil {
				if errors.Is(err, predictiondb.ErrNotFound) {
					return nil, ErrMatchNotFound
				}
				return nil, err
			}
			match := row.ToDomain()

			if predictiondomain.IsLocked(match, now) {
				return nil, &predictiondomain.LockedError{MatchID: match.ID, LockTime: predictiondomain.LockTime(match)}
			}

			p := &predictiondb.Prediction{
				TournamentID:  string(req.TournamentID),
				MatchID:       string(req.MatchID),
				ParticipantID: string(req.ParticipantID),
				Home:          req.Home,
				Away:          req.Away,
				Qualifier:     string(req.Qualifier),
			}
			if err := s.repo.UpsertPrediction(ctx, db, p, now); err != nil {
				if errors.Is(err, predictiondb.ErrLockedAtWrite) {
					return nil, &predictiondomain.LockedError{MatchID: match.ID, LockTime: predictiondomain.LockTime(match)}
				}
				return nil, err
			}

			if err := s.repo.RegisterParticipant(ctx, db, string(req.TournamentID), string(req.ParticipantID)); err != nil {
				return nil, err
			}

			return buildView(match, req.ParticipantID, p.ToDomain(), now), nil
		})
		if err != nil {
			if errors.Is(err, predictiondomain.ErrLocked) {
				s.metrics.RecordPredictionRejected(ctx, string(req.TournamentID), "locked")
			}
			return nil, err
		}

		s.metrics.RecordPredictionSubmitted(ctx, string(req.TournamentID))
		s.publish(ctx, predictionevents.PredictionSubmittedV1, predictionevents.PredictionSubmittedPayloadV1{
			TournamentID:  req.TournamentID,
			MatchID:       req.MatchID,
			ParticipantID: req.ParticipantID,
			Home:          req.Home,
			Away:          req.Away,
			Qualifier:     req.Qualifier,
			SubmittedAt:   now,
		})
		return view, nil
	})
}

// GetPrediction returns the prediction that currently counts for a
// participant, synthesizing the default once the match has started.
func (s *PredictionService) GetPrediction(
	ctx context.Context,
	tournamentID predictiondomain.TournamentID,
	matchID predictiondomain.MatchID,
	participantID predictiondomain.ParticipantID,
) (*PredictionView, error) {
	row, err := s.repo.GetMatch(ctx, nil, string(tournamentID), string(matchID))
	if err != nil {
		if errors.Is(err, predictiondb.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("GetPrediction: %w", err)
	}
	match := row.ToDomain()

	var stored predictiondomain.Prediction = predictiondomain.Missing{}
	p, err := s.repo.GetPrediction(ctx, nil, string(tournamentID), string(matchID), string(participantID))
	switch {
	case err == nil:
		stored = p.ToDomain()
	case !errors.Is(err, predictiondb.ErrNotFound):
		return nil, fmt.Errorf("GetPrediction: %w", err)
	}

	view := buildView(match, participantID, stored, s.clock.Now())
	if view.Kind == predictiondomain.KindNotYetApplicable.String() {
		s.logger.DebugContext(ctx, "No prediction applies yet",
			slog.String("match_id", string(matchID)),
			slog.String("participant_id", string(participantID)),
		)
		return nil, ErrPredictionNotFound
	}
	return view, nil
}

func buildView(
	match predictiondomain.Match,
	participantID predictiondomain.ParticipantID,
	stored predictiondomain.Prediction,
	now time.Time,
) *PredictionView {
	view := &PredictionView{
		TournamentID:  match.TournamentID,
		MatchID:       match.ID,
		ParticipantID: participantID,
		Locked:        predictiondomain.IsLocked(match, now),
		LockTime:      predictiondomain.LockTime(match),
		Phase:         predictiondomain.PhaseAt(match, now),
	}

	effective := predictiondomain.EffectivePredictionFor(match, stored, now)
	view.Kind = effective.Kind().String()
	switch p := effective.(type) {
	case predictiondomain.GenuinePrediction:
		view.Home, view.Away = p.Home, p.Away
		view.Qualifier = p.Qualifier
		submitted := p.SubmittedAt
		view.SubmittedAt = &submitted
	case predictiondomain.SyntheticDefault:
		view.Home, view.Away = p.Home, p.Away
	}
	return view
}
