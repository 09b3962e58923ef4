package predictiondomain

import (
	"errors"
	"strconv"
)

// ErrNoBonusCandidates is returned when a matchday has no match to designate.
var ErrNoBonusCandidates = errors.New("no match available for bonus designation")

// BonusMatches is a point-in-time snapshot of bonus designations. It is
// resolved once per scoring pass so a concurrent designation change cannot be
// observed halfway through an aggregation.
type BonusMatches struct {
	ids map[MatchID]struct{}
}

// NewBonusMatches snapshots designations. Only the first designation per
// (tournament, matchday) is kept.
func NewBonusMatches(designations []BonusDesignation) BonusMatches {
	type key struct {
		tournament TournamentID
		matchday   int
	}
	seen := make(map[key]struct{}, len(designations))
	ids := make(map[MatchID]struct{}, len(designations))
	for _, d := range designations {
		k := key{d.TournamentID, d.Matchday}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		ids[d.MatchID] = struct{}{}
	}
	return BonusMatches{ids: ids}
}

// IsBonusMatch reports whether id was designated when the snapshot was taken.
func (b BonusMatches) IsBonusMatch(id MatchID) bool {
	_, ok := b.ids[id]
	return ok
}

// Len returns the number of designated matches.
func (b BonusMatches) Len() int {
	return len(b.ids)
}

// SelectBonusMatch deterministically picks the bonus match of a matchday so
// that repeated designation requests always land on the same fixture.
func SelectBonusMatch(tournamentID TournamentID, matchday int, candidates []MatchID) (MatchID, error) {
	if len(candidates) == 0 {
		return "", ErrNoBonusCandidates
	}
	seed := hashString(string(tournamentID) + "-" + strconv.Itoa(matchday))
	return candidates[seed%len(candidates)], nil
}

// hashString is the 31-multiplier string hash folded to 32 bits.
func hashString(s string) int {
	var h int32
	for _, c := range s {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v)
}
