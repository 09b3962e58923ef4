package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	predictionservice "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/application"
	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	predictionarchive "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/archive"
	predictionexports "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/exports"
	predictiondb "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/infrastructure/repositories"
	"github.com/Black-And-White-Club/matchday-bot/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

// env is what the admin commands run against. Events are not published from
// the CLI; the running service picks changes up from the store.
type env struct {
	cfg     *config.Config
	db      *bun.DB
	repo    predictiondb.Repository
	service *predictionservice.PredictionService
}

func openEnv(c *cli.Context) (*env, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	repo := predictiondb.NewRepository(db)

	opts := []predictionservice.Option{
		predictionservice.WithRenderer(predictionexports.NewRenderer(predictionexports.DefaultPalette)),
		predictionservice.WithFallbackScoring(predictiondomain.ScoringConfig{
			ExactScorePoints:           cfg.Scoring.ExactScorePoints,
			CorrectResultPoints:        cfg.Scoring.CorrectResultPoints,
			IncorrectResultPoints:      cfg.Scoring.IncorrectResultPoints,
			DefaultPredictionMaxPoints: cfg.Scoring.DefaultPredictionMaxPoints,
			BonusMatchEnabled:          cfg.Scoring.BonusMatchEnabled,
			EarlyBonusEnabled:          cfg.Scoring.EarlyBonusEnabled,
			QualifierBonusEnabled:      cfg.Scoring.QualifierBonusEnabled,
		}),
	}
	if cfg.Archive.Bucket != "" {
		store, err := predictionarchive.NewS3Store(c.Context, predictionarchive.Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			Prefix:          cfg.Archive.Prefix,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
		})
		if err != nil {
			db.Close()
			return nil, err
		}
		opts = append(opts, predictionservice.WithObjectStore(store))
	}

	service := predictionservice.NewPredictionService(
		repo,
		nil,
		observability.NewLogger(cfg.Observability.LogLevel, c.App.ErrWriter),
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("matchday-cli"),
		db,
		opts...,
	)
	return &env{cfg: cfg, db: db, repo: repo, service: service}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

// withEnv opens the environment around a command action.
func withEnv(fn func(ctx context.Context, c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := openEnv(c)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(c.Context, c, e)
	}
}
