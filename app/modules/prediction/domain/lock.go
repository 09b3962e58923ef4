package predictiondomain

import "time"

// LockWindow is how long before kickoff predictions become immutable.
const LockWindow = 30 * time.Minute

// Phase is a match's position in the prediction lifecycle.
type Phase string

const (
	PhaseScheduled Phase = "scheduled"
	PhaseLocked    Phase = "locked"
	PhaseLive      Phase = "live"
	PhaseFinished  Phase = "finished"
	PhasePostponed Phase = "postponed"
	// PhaseUnknown is reported for matches without a usable kickoff.
	PhaseUnknown Phase = "unknown"
)

// LockTime returns the instant from which the match refuses edits.
func LockTime(m Match) time.Time {
	return m.Kickoff.Add(-LockWindow)
}

// IsLocked reports whether now is at or after the lock instant. A match
// without a valid kickoff is never locked.
func IsLocked(m Match, now time.Time) bool {
	if !m.HasValidKickoff() {
		return false
	}
	return !now.Before(LockTime(m))
}

// IsStarted reports whether now is at or after kickoff. The half hour between
// LockTime and Kickoff is locked but not started.
func IsStarted(m Match, now time.Time) bool {
	if !m.HasValidKickoff() {
		return false
	}
	return !now.Before(m.Kickoff)
}

// IsPostponed reports whether automatic scoring transitions are suspended.
func IsPostponed(m Match) bool {
	return m.Status == MatchStatusPostponed
}

// PhaseAt derives the lifecycle phase of m at now.
//
//	Scheduled -> (kickoff-30m) -> Locked -> (kickoff) -> Live -> Finished
//
// Postponed is orthogonal and wins over every time-derived phase.
func PhaseAt(m Match, now time.Time) Phase {
	switch {
	case IsPostponed(m):
		return PhasePostponed
	case m.Status == MatchStatusFinished:
		return PhaseFinished
	case !m.HasValidKickoff():
		return PhaseUnknown
	case IsStarted(m, now) || m.Status == MatchStatusLive:
		return PhaseLive
	case IsLocked(m, now):
		return PhaseLocked
	default:
		return PhaseScheduled
	}
}

// IsScoreable reports whether the aggregator may score m: kickoff is valid,
// the match is not postponed and a final score is known.
func IsScoreable(m Match) bool {
	return m.HasValidKickoff() && !IsPostponed(m) && m.ScoringScore() != nil
}
