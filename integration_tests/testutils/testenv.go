package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Black-And-White-Club/matchday-bot/app/eventbus"
	"github.com/Black-And-White-Club/matchday-bot/config"
	"github.com/Black-And-White-Club/matchday-bot/integration_tests/containers"
)

// TestEnvironment holds the containers and connections shared by every
// integration test in a package.
type TestEnvironment struct {
	Ctx           context.Context
	cancel        context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Config        *config.Config
	Logger        *slog.Logger
}

var (
	envOnce   sync.Once
	sharedEnv *TestEnvironment
	envErr    error
)

// GetTestEnv returns the package-wide environment, starting it on first use.
// Integration tests are skipped in -short mode.
func GetTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	envOnce.Do(func() {
		sharedEnv, envErr = newTestEnvironment()
	})
	if envErr != nil {
		t.Fatalf("failed to set up test environment: %v", envErr)
	}

	if err := sharedEnv.Reset(sharedEnv.Ctx); err != nil {
		t.Fatalf("failed to reset test environment: %v", err)
	}
	return sharedEnv
}

// ShutdownSharedEnv terminates the shared environment. Call it from TestMain.
func ShutdownSharedEnv() {
	if sharedEnv == nil {
		return
	}
	sharedEnv.Cleanup()
	sharedEnv = nil
}

func newTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{
		Ctx:    ctx,
		cancel: cancel,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Cleanup()
		return nil, err
	}
	env.NatsContainer = natsContainer

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bun.NewDB(sqlDB, pgdialect.New())

	if err := runMigrations(ctx, env.DB, dsn); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cfg := config.Defaults()
	cfg.Postgres.DSN = dsn
	cfg.NATS.URL = natsURL
	cfg.NATS.QueueGroup = "matchday-bot-test"
	env.Config = &cfg

	bus, err := eventbus.NewEventBus(ctx, eventbus.Config{
		URL:        natsURL,
		QueueGroup: cfg.NATS.QueueGroup,
	}, env.Logger)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to create EventBus: %w", err)
	}
	env.EventBus = bus

	if err := eventbus.InitializeStreams(ctx, bus); err != nil {
		env.Cleanup()
		return nil, err
	}
	return env, nil
}

// Reset truncates every table so each test starts from an empty schema.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	return TruncateTables(ctx, env.DB)
}

// Cleanup closes connections and terminates the containers.
func (env *TestEnvironment) Cleanup() {
	if env.EventBus != nil {
		if err := env.EventBus.Close(); err != nil {
			log.Printf("Failed to close event bus: %v", err)
		}
	}
	if env.DB != nil {
		if err := env.DB.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}

	ctx := context.Background()
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate Postgres container: %v", err)
		}
	}
	if env.cancel != nil {
		env.cancel()
	}
}
