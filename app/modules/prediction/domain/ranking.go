package predictiondomain

import (
	"cmp"
	"slices"
)

// RankChange describes movement against a previous ranking.
type RankChange string

const (
	RankUp   RankChange = "up"
	RankDown RankChange = "down"
	RankSame RankChange = "same"
)

// Standing is one participant's accumulated result over one or more matchdays.
type Standing struct {
	ParticipantID  ParticipantID `json:"participant_id"`
	TotalPoints    int           `json:"total_points"`
	ExactScores    int           `json:"exact_scores"`
	CorrectResults int           `json:"correct_results"`
	MatchesPlayed  int           `json:"matches_played"`
	EarlyBonuses   int           `json:"early_bonuses"`
	Rank           int           `json:"rank"`
	PreviousRank   int           `json:"previous_rank,omitempty"`
	RankChange     RankChange    `json:"rank_change,omitempty"`
}

// Accumulate folds matchday aggregates into per-participant standings.
func Accumulate(aggregates []MatchdayAggregate) []Standing {
	byParticipant := make(map[ParticipantID]*Standing)
	order := make([]ParticipantID, 0)
	for _, a := range aggregates {
		s, ok := byParticipant[a.ParticipantID]
		if !ok {
			s = &Standing{ParticipantID: a.ParticipantID}
			byParticipant[a.ParticipantID] = s
			order = append(order, a.ParticipantID)
		}
		s.TotalPoints += a.Total
		s.ExactScores += a.ExactScores
		s.CorrectResults += a.CorrectResults
		s.MatchesPlayed += a.MatchesPlayed
		if a.EarlyBonusAwarded {
			s.EarlyBonuses++
		}
	}

	out := make([]Standing, 0, len(order))
	for _, id := range order {
		out = append(out, *byParticipant[id])
	}
	return out
}

// Rank orders standings by points, then exact scores, then correct results.
// Perfect ties share a rank and the next rank skips accordingly. When
// previous is non-nil, PreviousRank and RankChange are filled for
// participants present in it.
func Rank(standings []Standing, previous []Standing) []Standing {
	sorted := slices.Clone(standings)
	slices.SortStableFunc(sorted, func(a, b Standing) int {
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		if c := cmp.Compare(b.ExactScores, a.ExactScores); c != 0 {
			return c
		}
		if c := cmp.Compare(b.CorrectResults, a.CorrectResults); c != 0 {
			return c
		}
		return cmp.Compare(a.ParticipantID, b.ParticipantID)
	})

	prevRank := make(map[ParticipantID]int, len(previous))
	for _, p := range previous {
		prevRank[p.ParticipantID] = p.Rank
	}

	rank := 1
	for i := range sorted {
		if i > 0 && !tied(sorted[i], sorted[i-1]) {
			rank = i + 1
		}
		sorted[i].Rank = rank
		sorted[i].PreviousRank = 0
		sorted[i].RankChange = ""

		if pr, ok := prevRank[sorted[i].ParticipantID]; ok {
			sorted[i].PreviousRank = pr
			switch {
			case rank < pr:
				sorted[i].RankChange = RankUp
			case rank > pr:
				sorted[i].RankChange = RankDown
			default:
				sorted[i].RankChange = RankSame
			}
		}
	}
	return sorted
}

func tied(a, b Standing) bool {
	return a.TotalPoints == b.TotalPoints &&
		a.ExactScores == b.ExactScores &&
		a.CorrectResults == b.CorrectResults
}
