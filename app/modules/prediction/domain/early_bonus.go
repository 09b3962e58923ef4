package predictiondomain

import "time"

// EarliestKickoff returns the first valid kickoff of a matchday.
func EarliestKickoff(matches []Match) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, m := range matches {
		if !m.HasValidKickoff() {
			continue
		}
		if !found || m.Kickoff.Before(earliest) {
			earliest = m.Kickoff
			found = true
		}
	}
	return earliest, found
}

// EarlyBonus reports whether a participant earns the early-prediction bonus
// for a matchday. Every match must be finished and carry a genuine
// prediction submitted strictly before the matchday's earliest kickoff.
// A match reported finished without a final score is not finished yet.
// One missing, default or late prediction voids the bonus.
func EarlyBonus(matches []Match, predictions map[MatchID]Prediction, cfg ScoringConfig) bool {
	if !cfg.EarlyBonusEnabled || len(matches) == 0 {
		return false
	}

	cutoff, ok := EarliestKickoff(matches)
	if !ok {
		return false
	}

	for _, m := range matches {
		if m.Status != MatchStatusFinished || m.ScoringScore() == nil {
			return false
		}
		g, genuine := predictions[m.ID].(Genuine)
		if !genuine {
			return false
		}
		if !g.SubmittedAt.Before(cutoff) {
			return false
		}
	}
	return true
}
