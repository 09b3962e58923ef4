package predictionqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertype"
)

// QueueName is the River queue the lifecycle jobs run on.
const QueueName = "match_lifecycle"

// Service schedules match lifecycle jobs using River.
type Service struct {
	client   *river.Client[pgx.Tx]
	pool     *pgxpool.Pool
	logger   *slog.Logger
	metrics  observability.PredictionMetrics
	notifier *notifierRef
}

// NewService creates a River client on its own pgx pool. River requires pgx,
// not database/sql.
func NewService(ctx context.Context, dsn string, logger *slog.Logger, metrics observability.PredictionMetrics) (*Service, error) {
	logger = logger.With(slog.String("component", "river_queue"))

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ref := &notifierRef{}
	workers := river.NewWorkers()
	river.AddWorker(workers, newLockWindowWorker(logger, ref))
	river.AddWorker(workers, newKickoffWorker(logger, ref))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			QueueName:          {MaxWorkers: 25},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	logger.Info("Match lifecycle queue initialized")
	return &Service{
		client:   client,
		pool:     pool,
		logger:   logger,
		metrics:  metrics,
		notifier: ref,
	}, nil
}

// Attach sets the service the workers call. Jobs that run before Attach fail
// and are retried by River.
func (s *Service) Attach(n Notifier) {
	s.notifier.v.Store(&n)
}

// Migrate runs River's schema migrations.
func (s *Service) Migrate(ctx context.Context) error {
	return MigrateUp(ctx, s.pool)
}

// MigrateUp runs River's schema migrations on pool.
func MigrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

// Start starts working jobs.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.Info("Match lifecycle queue started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.Info("Match lifecycle queue stopped")
	return nil
}

// lifecycleJobs builds the lock-window and kickoff jobs of a match. Jobs
// whose time already passed are scheduled for immediate execution so a late
// update still produces the notification.
func lifecycleJobs(match predictiondomain.Match) []river.InsertManyParams {
	unique := river.UniqueOpts{ByArgs: true}
	return []river.InsertManyParams{
		{
			Args: LockWindowJob{TournamentID: match.TournamentID, MatchID: match.ID, Kickoff: match.Kickoff},
			InsertOpts: &river.InsertOpts{
				Queue:       QueueName,
				ScheduledAt: predictiondomain.LockTime(match),
				UniqueOpts:  unique,
			},
		},
		{
			Args: KickoffJob{TournamentID: match.TournamentID, MatchID: match.ID, Kickoff: match.Kickoff},
			InsertOpts: &river.InsertOpts{
				Queue:       QueueName,
				ScheduledAt: match.Kickoff,
				UniqueOpts:  unique,
			},
		},
	}
}

// ScheduleMatchLifecycle schedules the lock-window and kickoff jobs of match.
// Scheduling the same kickoff twice is a no-op.
func (s *Service) ScheduleMatchLifecycle(ctx context.Context, match predictiondomain.Match) error {
	const op = "ScheduleMatchLifecycle"
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, op, string(match.TournamentID))
	defer func() { s.metrics.RecordOperationDuration(ctx, op, time.Since(start)) }()

	if !match.HasValidKickoff() {
		s.metrics.RecordOperationFailure(ctx, op, string(match.TournamentID))
		return fmt.Errorf("match %s has no valid kickoff", match.ID)
	}

	results, err := s.client.InsertMany(ctx, lifecycleJobs(match))
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, op, string(match.TournamentID))
		return fmt.Errorf("failed to schedule lifecycle jobs: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, op, string(match.TournamentID))
	for _, r := range results {
		s.logger.InfoContext(ctx, "Lifecycle job scheduled",
			slog.String("match_id", string(match.ID)),
			slog.String("kind", r.Job.Kind),
			slog.Time("scheduled_at", r.Job.ScheduledAt),
			slog.Bool("duplicate", r.UniqueSkippedAsDuplicate),
		)
	}
	return nil
}

// ScheduledJobs lists pending lifecycle jobs of a match.
func (s *Service) ScheduledJobs(ctx context.Context, matchID predictiondomain.MatchID) ([]JobInfo, error) {
	res, err := s.client.JobList(ctx, river.NewJobListParams().
		Queues(QueueName).
		Kinds(LockWindowJob{}.Kind(), KickoffJob{}.Kind()).
		States(rivertype.JobStateAvailable, rivertype.JobStateScheduled, rivertype.JobStateRetryable).
		First(1000))
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	out := make([]JobInfo, 0)
	for _, j := range res.Jobs {
		var args struct {
			MatchID predictiondomain.MatchID `json:"match_id"`
		}
		if err := json.Unmarshal(j.EncodedArgs, &args); err != nil || args.MatchID != matchID {
			continue
		}
		out = append(out, JobInfo{
			ID:          j.ID,
			Kind:        j.Kind,
			MatchID:     string(matchID),
			State:       string(j.State),
			ScheduledAt: j.ScheduledAt.Format(time.RFC3339),
			Attempt:     j.Attempt,
		})
	}
	return out, nil
}

// HealthCheck pings the queue's pool.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue health check failed: %w", err)
	}
	return nil
}
