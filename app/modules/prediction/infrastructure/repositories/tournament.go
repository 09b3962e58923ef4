package predictiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// GetScoringConfig returns the point scale of a tournament.
func (r *Impl) GetScoringConfig(ctx context.Context, db bun.IDB, tournamentID string) (*TournamentScoring, error) {
	db = r.conn(db)

	cfg := new(TournamentScoring)
	err := db.NewSelect().
		Model(cfg).
		Where("ts.tournament_id = ?", tournamentID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("predictiondb.GetScoringConfig: %w", err)
	}
	return cfg, nil
}

// UpsertScoringConfig creates or replaces the point scale of a tournament.
func (r *Impl) UpsertScoringConfig(ctx context.Context, db bun.IDB, cfg *TournamentScoring) error {
	db = r.conn(db)

	_, err := db.NewInsert().
		Model(cfg).
		On("CONFLICT (tournament_id) DO UPDATE").
		Set("exact_score_points = EXCLUDED.exact_score_points").
		Set("correct_result_points = EXCLUDED.correct_result_points").
		Set("incorrect_result_points = EXCLUDED.incorrect_result_points").
		Set("default_prediction_max_points = EXCLUDED.default_prediction_max_points").
		Set("bonus_match_enabled = EXCLUDED.bonus_match_enabled").
		Set("early_bonus_enabled = EXCLUDED.early_bonus_enabled").
		Set("qualifier_bonus_enabled = EXCLUDED.qualifier_bonus_enabled").
		Set("starts_at = EXCLUDED.starts_at").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("predictiondb.UpsertScoringConfig: %w", err)
	}
	return nil
}

// RegisterParticipant adds a participant to a tournament. Re-registering is
// a no-op.
func (r *Impl) RegisterParticipant(ctx context.Context, db bun.IDB, tournamentID, participantID string) error {
	db = r.conn(db)

	_, err := db.NewInsert().
		Model(&Participant{TournamentID: tournamentID, ParticipantID: participantID}).
		On("CONFLICT (tournament_id, participant_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("predictiondb.RegisterParticipant: %w", err)
	}
	return nil
}

// ListParticipants returns the participant ids of a tournament.
func (r *Impl) ListParticipants(ctx context.Context, db bun.IDB, tournamentID string) ([]string, error) {
	db = r.conn(db)

	var ids []string
	err := db.NewSelect().
		Model((*Participant)(nil)).
		Column("tp.participant_id").
		Where("tp.tournament_id = ?", tournamentID).
		Order("tp.participant_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("predictiondb.ListParticipants: %w", err)
	}
	return ids, nil
}
