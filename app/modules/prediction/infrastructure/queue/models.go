package predictionqueue

import (
	"time"

	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
)

// LockWindowJob fires at a match's lock time.
//
// Kickoff is part of the args so a rescheduled match gets a fresh unique job;
// the job scheduled for the old kickoff still runs and is dropped as stale.
type LockWindowJob struct {
	TournamentID predictiondomain.TournamentID `json:"tournament_id"`
	MatchID      predictiondomain.MatchID      `json:"match_id"`
	Kickoff      time.Time                     `json:"kickoff"`
}

// Kind returns the job type identifier for River
func (LockWindowJob) Kind() string { return "prediction_lock_window" }

// KickoffJob fires at a match's kickoff.
type KickoffJob struct {
	TournamentID predictiondomain.TournamentID `json:"tournament_id"`
	MatchID      predictiondomain.MatchID      `json:"match_id"`
	Kickoff      time.Time                     `json:"kickoff"`
}

// Kind returns the job type identifier for River
func (KickoffJob) Kind() string { return "match_kickoff" }

// JobInfo describes a scheduled job for the admin CLI.
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	MatchID     string `json:"match_id"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	Attempt     int    `json:"attempt"`
}
