package predictionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ApplyDefaultPredictions persists a 0-0 default for every participant
// without a stored prediction on each started match of the matchday.
// Existing rows are never overwritten, so repeating the action is harmless.
func (s *PredictionService) ApplyDefaultPredictions(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (int, error) {
	return withTelemetry(s, ctx, "ApplyDefaultPredictions", tournamentID, func(ctx context.Context) (int, error) {
		now := s.clock.Now()

		inserted, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (int, error) {
			matches, err := s.repo.ListMatchesByMatchday(ctx, db, string(tournamentID), matchday)
			if err != nil {
				return 0, err
			}
			participants, err := s.repo.ListParticipants(ctx, db, string(tournamentID))
			if err != nil {
				return 0, err
			}

			matchIDs := make([]string, 0, len(matches))
			for i := range matches {
				matchIDs = append(matchIDs, matches[i].ID)
			}
			stored, err := s.repo.ListPredictions(ctx, db, string(tournamentID), matchIDs)
			if err != nil {
				return 0, err
			}
			has := make(map[[2]string]struct{}, len(stored))
			for i := range stored {
				has[[2]string{stored[i].MatchID, stored[i].ParticipantID}] = struct{}{}
			}

			rows := make([]*predictiondb.Prediction, 0)
			for i := range matches {
				m := matches[i].ToDomain()
				eff := predictiondomain.EffectivePredictionFor(m, predictiondomain.Missing{}, now)
				if !predictiondomain.IsDefault(eff) {
					continue
				}
				def := eff.(predictiondomain.SyntheticDefault)
				for _, pid := range participants {
					if _, ok := has[[2]string{matches[i].ID, pid}]; ok {
						continue
					}
					rows = append(rows, &predictiondb.Prediction{
						TournamentID:  string(tournamentID),
						MatchID:       matches[i].ID,
						ParticipantID: pid,
						Home:          def.Home,
						Away:          def.Away,
						IsDefault:     true,
						SubmittedAt:   now,
						UpdatedAt:     now,
					})
				}
			}
			return s.repo.InsertDefaultPredictions(ctx, db, rows)
		})
		if err != nil {
			return 0, err
		}

		s.metrics.RecordDefaultsApplied(ctx, string(tournamentID), inserted)
		s.logger.InfoContext(ctx, "Default predictions applied",
			slog.String("tournament_id", string(tournamentID)),
			slog.Int("matchday", matchday),
			slog.Int("inserted", inserted),
		)
		return inserted, nil
	})
}

// DesignateBonusMatch picks the matchday's bonus match deterministically and
// stores it. A matchday that already has a designation keeps it.
func (s *PredictionService) DesignateBonusMatch(ctx context.Context, tournamentID predictiondomain.TournamentID, matchday int) (*predictiondomain.BonusDesignation, error) {
	return withTelemetry(s, ctx, "DesignateBonusMatch", tournamentID, func(ctx context.Context) (*predictiondomain.BonusDesignation, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*predictiondomain.BonusDesignation, error) {
			cfg, err := s.loadScoringConfig(ctx, db, tournamentID)
			if err != nil {
				return nil, err
			}
			if !cfg.BonusMatchEnabled {
				return nil, ErrBonusMatchDisabled
			}

			existing, err := s.repo.GetBonusMatch(ctx, db, string(tournamentID), matchday)
			if err == nil {
				d := existing.ToDomain()
				return &d, nil
			}
			if !errors.Is(err, predictiondb.ErrNotFound) {
				return nil, err
			}

			rows, err := s.repo.ListMatchesByMatchday(ctx, db, string(tournamentID), matchday)
			if err != nil {
				return nil, err
			}
			candidates := make([]predictiondomain.MatchID, 0, len(rows))
			for i := range rows {
				m := rows[i].ToDomain()
				if predictiondomain.Counts(m, cfg) && !predictiondomain.IsPostponed(m) {
					candidates = append(candidates, m.ID)
				}
			}

			picked, err := predictiondomain.SelectBonusMatch(tournamentID, matchday, candidates)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", matchdayLabel(tournamentID, matchday), err)
			}

			row := &predictiondb.BonusMatch{
				TournamentID: string(tournamentID),
				Matchday:     matchday,
				MatchID:      string(picked),
				Source:       "admin",
				DesignatedAt: s.clock.Now(),
			}
			inserted, err := s.repo.InsertBonusMatch(ctx, db, row)
			if err != nil {
				return nil, err
			}
			if !inserted {
				existing, err := s.repo.GetBonusMatch(ctx, db, string(tournamentID), matchday)
				if err != nil {
					return nil, err
				}
				row = existing
			}
			d := row.ToDomain()
			return &d, nil
		})
	})
}

// RecordBonusDesignation stores a designation received from the bus. The
// first designation of a matchday wins.
func (s *PredictionService) RecordBonusDesignation(ctx context.Context, designation predictiondomain.BonusDesignation) error {
	_, err := withTelemetry(s, ctx, "RecordBonusDesignation", designation.TournamentID, func(ctx context.Context) (bool, error) {
		row, err := s.repo.GetMatch(ctx, nil, string(designation.TournamentID), string(designation.MatchID))
		if err != nil {
			if errors.Is(err, predictiondb.ErrNotFound) {
				return false, ErrMatchNotFound
			}
			return false, err
		}
		if row.Matchday != designation.Matchday {
			return false, ErrBonusMatchMismatch
		}

		inserted, err := s.repo.InsertBonusMatch(ctx, nil, &predictiondb.BonusMatch{
			TournamentID: string(designation.TournamentID),
			Matchday:     designation.Matchday,
			MatchID:      string(designation.MatchID),
			Source:       "event",
			DesignatedAt: s.clock.Now(),
		})
		if err != nil {
			return false, err
		}
		if !inserted {
			s.logger.InfoContext(ctx, "Matchday already has a bonus match, ignoring designation",
				slog.String("tournament_id", string(designation.TournamentID)),
				slog.Int("matchday", designation.Matchday),
				slog.String("match_id", string(designation.MatchID)),
			)
		}
		return inserted, nil
	})
	return err
}

// RegisterParticipant adds a participant to a tournament so defaults and
// rankings include them before their first prediction.
func (s *PredictionService) RegisterParticipant(ctx context.Context, tournamentID predictiondomain.TournamentID, participantID predictiondomain.ParticipantID) error {
	_, err := withTelemetry(s, ctx, "RegisterParticipant", tournamentID, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repo.RegisterParticipant(ctx, nil, string(tournamentID), string(participantID))
	})
	return err
}
