package predictiondb

import "errors"

// Sentinel errors for the repository layer.
// These are infrastructure-level errors that indicate database state, not business logic failures.
var (
	// ErrNotFound indicates the requested record does not exist in the database.
	ErrNotFound = errors.New("record not found")

	// ErrNoRowsAffected indicates an UPDATE or DELETE affected zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrLockedAtWrite indicates the lock predicate refused a prediction write
	// because the match had reached its lock time when the statement ran.
	ErrLockedAtWrite = errors.New("prediction write refused by lock predicate")
)
