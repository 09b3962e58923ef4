package predictionarchive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Archiver archives every finished matchday not archived yet.
type Archiver interface {
	ArchiveFinishedMatchdays(ctx context.Context) (int, error)
}

// Sweeper runs the archiver periodically.
type Sweeper struct {
	scheduler gocron.Scheduler
	archiver  Archiver
	logger    *slog.Logger
	timeout   time.Duration
}

// NewSweeper schedules a sweep every interval. A sweep still running when the
// next one is due delays it instead of overlapping.
func NewSweeper(archiver Archiver, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Sweeper{
		scheduler: sched,
		archiver:  archiver,
		logger:    logger,
		timeout:   interval,
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.sweep),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("archive-finished-matchdays"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule archive sweep: %w", err)
	}
	return s, nil
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.archiver.ArchiveFinishedMatchdays(ctx)
	if err != nil {
		s.logger.Error("Archive sweep failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		s.logger.Info("Archive sweep completed", slog.Int("archived", n))
	}
}

// Start begins the schedule.
func (s *Sweeper) Start() {
	s.scheduler.Start()
}

// Shutdown stops the schedule and waits for a running sweep.
func (s *Sweeper) Shutdown() error {
	return s.scheduler.Shutdown()
}
