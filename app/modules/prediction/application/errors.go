package predictionservice

import "errors"

// Service-level errors. Domain errors (ErrInvalidScore, ErrLocked,
// ErrMissingConfig) come from predictiondomain and are returned wrapped.
var (
	// ErrMatchNotFound indicates the match is not in the registry.
	ErrMatchNotFound = errors.New("match not found")

	// ErrPredictionNotFound indicates nothing is stored and no default applies yet.
	ErrPredictionNotFound = errors.New("prediction not found")

	// ErrInvalidQualifier indicates a qualifier side other than home or away.
	ErrInvalidQualifier = errors.New("invalid qualifier side")

	// ErrInvalidMatch indicates a match update with unusable data.
	ErrInvalidMatch = errors.New("invalid match data")

	// ErrBonusMatchDisabled indicates the tournament does not use bonus matches.
	ErrBonusMatchDisabled = errors.New("bonus match disabled for tournament")

	// ErrBonusMatchMismatch indicates a designation that names a match outside its matchday.
	ErrBonusMatchMismatch = errors.New("bonus match does not belong to matchday")

	// ErrExportUnavailable indicates no renderer is configured.
	ErrExportUnavailable = errors.New("export renderer not configured")
)
