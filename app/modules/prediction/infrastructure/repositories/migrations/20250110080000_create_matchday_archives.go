package predictionmigrations

import (
	"context"
	"fmt"

	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating matchday_archives table...")

		if _, err := db.NewCreateTable().Model((*predictiondb.MatchdayArchive)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping matchday_archives table...")

		if _, err := db.NewDropTable().Model((*predictiondb.MatchdayArchive)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
