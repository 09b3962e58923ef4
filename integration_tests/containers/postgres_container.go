package containers

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage    = "postgres:16-alpine"
	postgresDatabase = "matchday"
	postgresUser     = "matchday"
	postgresPassword = "matchday"
)

func postgresDSN(host string, port nat.Port) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(postgresUser, postgresPassword),
		Host:     host + ":" + port.Port(),
		Path:     postgresDatabase,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// SetupPostgresContainer starts Postgres and returns the container with a
// DSN that has TLS disabled. The schema is left empty; callers run migrations.
func SetupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pg, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase(postgresDatabase),
		postgres.WithUsername(postgresUser),
		postgres.WithPassword(postgresPassword),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pgx", postgresDSN).WithStartupTimeout(45*time.Second),
		),
	)
	if err != nil {
		if pg != nil {
			_ = pg.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	if parsed, perr := url.Parse(dsn); perr == nil {
		log.Printf("Postgres container ready at %s", parsed.Redacted())
	}
	return pg, dsn, nil
}
