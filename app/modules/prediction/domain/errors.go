package predictiondomain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors. Handlers translate these into participant-facing outcomes
// rather than retrying.
var (
	// ErrInvalidScore indicates a predicted score outside [MinPredictedScore, MaxPredictedScore].
	ErrInvalidScore = errors.New("invalid predicted score")

	// ErrLocked indicates the prediction window for a match has closed.
	ErrLocked = errors.New("predictions closed")

	// ErrIncompleteMatch indicates scoring was requested for a match without a final score.
	ErrIncompleteMatch = errors.New("match has no final score")

	// ErrMissingConfig indicates a tournament has no stored scoring configuration.
	ErrMissingConfig = errors.New("scoring configuration missing")
)

// LockedError carries the lock instant of the match that refused a write.
type LockedError struct {
	MatchID  MatchID
	LockTime time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("match %s locked since %s: %v", e.MatchID, e.LockTime.UTC().Format(time.RFC3339), ErrLocked)
}

func (e *LockedError) Unwrap() error { return ErrLocked }
