package predictiondomain

import (
	"cmp"
	"slices"
	"time"
)

// Counts reports whether m belongs to the tournament's scoring window:
// its kickoff is valid and not before the tournament start.
func Counts(m Match, cfg ScoringConfig) bool {
	if !m.HasValidKickoff() {
		return false
	}
	if cfg.StartsAt != nil && m.Kickoff.Before(*cfg.StartsAt) {
		return false
	}
	return true
}

// Aggregate recomputes a participant's matchday result from source data.
//
// Matches without a final score, postponed matches and malformed matches
// contribute nothing and are skipped rather than failing the whole matchday.
// The early bonus is evaluated over every counted match of the matchday, so
// an unfinished or postponed fixture withholds it.
func Aggregate(
	participant ParticipantID,
	matchday int,
	matches []Match,
	predictions map[MatchID]Prediction,
	cfg ScoringConfig,
	bonus BonusMatches,
	now time.Time,
) MatchdayAggregate {
	agg := MatchdayAggregate{
		ParticipantID: participant,
		Matchday:      matchday,
		PerMatch:      make(map[MatchID]MatchPoints),
	}

	counted := make([]Match, 0, len(matches))
	for _, m := range matches {
		if !Counts(m, cfg) {
			continue
		}
		counted = append(counted, m)

		if !IsScoreable(m) {
			continue
		}

		stored := predictions[m.ID]
		if stored == nil {
			stored = Missing{}
		}
		effective := EffectivePredictionFor(m, stored, now)
		if effective.Kind() == KindNotYetApplicable {
			continue
		}

		isBonus := cfg.BonusMatchEnabled && bonus.IsBonusMatch(m.ID)
		mp, err := ScoreMatch(m, effective, cfg, isBonus)
		if err != nil {
			continue
		}

		agg.PerMatch[m.ID] = mp
		agg.Total += mp.Points
		if !mp.IsDefault {
			agg.MatchesPlayed++
			if mp.IsExact {
				agg.ExactScores++
			}
			if mp.IsCorrect {
				agg.CorrectResults++
			}
		}
	}

	if EarlyBonus(counted, predictions, cfg) {
		agg.EarlyBonusAwarded = true
		agg.Total++
	}

	return agg
}

// AggregateAll aggregates every participant of a matchday, ordered by
// participant id.
func AggregateAll(
	participants []ParticipantID,
	matchday int,
	matches []Match,
	predictions map[ParticipantID]map[MatchID]Prediction,
	cfg ScoringConfig,
	bonus BonusMatches,
	now time.Time,
) []MatchdayAggregate {
	sorted := slices.Clone(participants)
	slices.SortFunc(sorted, func(a, b ParticipantID) int { return cmp.Compare(a, b) })
	sorted = slices.Compact(sorted)

	out := make([]MatchdayAggregate, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, Aggregate(p, matchday, matches, predictions[p], cfg, bonus, now))
	}
	return out
}

// MatchdayComplete reports whether every counted match of a matchday is
// finished with a final score.
func MatchdayComplete(matches []Match, cfg ScoringConfig) bool {
	n := 0
	for _, m := range matches {
		if !Counts(m, cfg) {
			continue
		}
		n++
		if m.Status != MatchStatusFinished || m.ScoringScore() == nil {
			return false
		}
	}
	return n > 0
}
