package predictiondomain

import "time"

// Bounds of a predicted score, inclusive.
const (
	MinPredictedScore = 0
	MaxPredictedScore = 9
)

// ValidatePredictedScore rejects scores outside the accepted range.
func ValidatePredictedScore(home, away int) error {
	if home < MinPredictedScore || home > MaxPredictedScore ||
		away < MinPredictedScore || away > MaxPredictedScore {
		return ErrInvalidScore
	}
	return nil
}

// EffectivePredictionFor returns the prediction that counts for m at now.
//
// A stored genuine prediction is returned unchanged. Otherwise, once the match
// has started or finished, a synthetic 0-0 default is returned. Postponed
// matches and matches without a valid kickoff never get a default. The
// function never touches the store.
func EffectivePredictionFor(m Match, stored Prediction, now time.Time) EffectivePrediction {
	if g, ok := stored.(Genuine); ok {
		return GenuinePrediction{Genuine: g}
	}

	if IsPostponed(m) || !m.HasValidKickoff() {
		return NotYetApplicable{}
	}

	if IsStarted(m, now) || m.Status == MatchStatusFinished {
		if r, ok := stored.(Recorded); ok {
			return SyntheticDefault{Home: r.Home, Away: r.Away}
		}
		return SyntheticDefault{Home: 0, Away: 0}
	}

	return NotYetApplicable{}
}
