package predictionqueue

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	"github.com/riverqueue/river"
)

// Notifier is the part of the prediction service the workers drive.
type Notifier interface {
	CloseLockWindow(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID) error
	StartMatch(ctx context.Context, tournamentID predictiondomain.TournamentID, matchID predictiondomain.MatchID) error
}

// ErrNotifierNotAttached is returned by workers that run before Attach.
var ErrNotifierNotAttached = errors.New("queue notifier not attached")

// notifierRef lets workers be registered before the service they call exists.
type notifierRef struct {
	v atomic.Pointer[Notifier]
}

func (r *notifierRef) get() (Notifier, error) {
	n := r.v.Load()
	if n == nil {
		return nil, ErrNotifierNotAttached
	}
	return *n, nil
}

// LockWindowWorker announces that a match stopped accepting predictions.
type LockWindowWorker struct {
	river.WorkerDefaults[LockWindowJob]
	logger   *slog.Logger
	notifier *notifierRef
}

func newLockWindowWorker(logger *slog.Logger, notifier *notifierRef) *LockWindowWorker {
	return &LockWindowWorker{logger: logger, notifier: notifier}
}

func (w *LockWindowWorker) Work(ctx context.Context, job *river.Job[LockWindowJob]) error {
	n, err := w.notifier.get()
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Running lock window job",
		slog.Int64("job_id", job.ID),
		slog.String("match_id", string(job.Args.MatchID)),
	)
	return n.CloseLockWindow(ctx, job.Args.TournamentID, job.Args.MatchID)
}

// KickoffWorker announces kickoff.
type KickoffWorker struct {
	river.WorkerDefaults[KickoffJob]
	logger   *slog.Logger
	notifier *notifierRef
}

func newKickoffWorker(logger *slog.Logger, notifier *notifierRef) *KickoffWorker {
	return &KickoffWorker{logger: logger, notifier: notifier}
}

func (w *KickoffWorker) Work(ctx context.Context, job *river.Job[KickoffJob]) error {
	n, err := w.notifier.get()
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Running kickoff job",
		slog.Int64("job_id", job.ID),
		slog.String("match_id", string(job.Args.MatchID)),
	)
	return n.StartMatch(ctx, job.Args.TournamentID, job.Args.MatchID)
}
