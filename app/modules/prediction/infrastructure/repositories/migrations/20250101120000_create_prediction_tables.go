package predictionmigrations

import (
	"context"
	"fmt"

	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating prediction tables...")

		models := []any{
			(*predictiondb.Match)(nil),
			(*predictiondb.Prediction)(nil),
			(*predictiondb.BonusMatch)(nil),
			(*predictiondb.TournamentScoring)(nil),
			(*predictiondb.Participant)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		fmt.Println("Prediction tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping prediction tables...")

		models := []any{
			(*predictiondb.Participant)(nil),
			(*predictiondb.TournamentScoring)(nil),
			(*predictiondb.BonusMatch)(nil),
			(*predictiondb.Prediction)(nil),
			(*predictiondb.Match)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop table for %T: %w", model, err)
			}
		}

		fmt.Println("Prediction tables dropped successfully!")
		return nil
	})
}
