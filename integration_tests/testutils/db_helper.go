package testutils

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	predictionqueue "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/queue"
	predictionmigrations "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories/migrations"
)

// tables lists every table the tests write to.
var tables = []string{
	"predictions",
	"bonus_matches",
	"tournament_scoring",
	"tournament_participants",
	"matchday_archives",
	"matches",
	"river_job",
}

func runMigrations(ctx context.Context, db *bun.DB, dsn string) error {
	migrator := migrate.NewMigrator(db, predictionmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate prediction tables: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to open pgx pool: %w", err)
	}
	defer pool.Close()
	return predictionqueue.MigrateUp(ctx, pool)
}

// TruncateTables empties every table and restarts identities.
func TruncateTables(ctx context.Context, db bun.IDB) error {
	query := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}
