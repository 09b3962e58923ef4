package predictionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding prediction indices...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_matches_tournament_matchday ON matches(tournament_id, matchday);
				CREATE INDEX IF NOT EXISTS idx_matches_kickoff ON matches(kickoff);
				CREATE INDEX IF NOT EXISTS idx_predictions_tournament_match ON predictions(tournament_id, match_id);
			`); err != nil {
				return fmt.Errorf("failed to add prediction indices: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back prediction indices...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP INDEX IF EXISTS idx_predictions_tournament_match;
				DROP INDEX IF EXISTS idx_matches_kickoff;
				DROP INDEX IF EXISTS idx_matches_tournament_matchday;
			`); err != nil {
				return fmt.Errorf("failed to drop prediction indices: %w", err)
			}
			return nil
		})
	})
}
