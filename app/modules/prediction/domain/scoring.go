package predictiondomain

// Outcome is the result category of a score line.
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeHome
	OutcomeAway
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHome:
		return "home"
	case OutcomeAway:
		return "away"
	default:
		return "draw"
	}
}

// OutcomeOf compares two goal counts numerically.
func OutcomeOf(home, away int) Outcome {
	switch {
	case home > away:
		return OutcomeHome
	case away > home:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Points returns the points p earns on m. It returns ErrIncompleteMatch when
// m has no final score; callers are expected to filter those out first.
//
// Defaults earn DefaultPredictionMaxPoints on a draw and nothing otherwise,
// and are never doubled on a bonus match. Genuine predictions earn exact,
// correct or incorrect points, doubled on a bonus match. Configured values are
// passed through as-is, including negative ones.
func Points(m Match, p EffectivePrediction, cfg ScoringConfig, isBonusMatch bool) (int, error) {
	mp, err := ScoreMatch(m, p, cfg, isBonusMatch)
	if err != nil {
		return 0, err
	}
	return mp.Points, nil
}

// ScoreMatch is Points with the full per-match breakdown.
func ScoreMatch(m Match, p EffectivePrediction, cfg ScoringConfig, isBonusMatch bool) (MatchPoints, error) {
	actual := m.ScoringScore()
	if actual == nil {
		return MatchPoints{}, ErrIncompleteMatch
	}
	actualOutcome := OutcomeOf(actual.Home, actual.Away)

	switch pred := p.(type) {
	case SyntheticDefault:
		mp := MatchPoints{IsDefault: true}
		if actualOutcome == OutcomeDraw {
			mp.Points = cfg.DefaultPredictionMaxPoints
			mp.IsCorrect = true
		}
		return mp, nil

	case GenuinePrediction:
		mp := MatchPoints{IsBonus: isBonusMatch}
		switch {
		case pred.Home == actual.Home && pred.Away == actual.Away:
			mp.Points = cfg.ExactScorePoints
			mp.IsExact = true
			mp.IsCorrect = true
		case OutcomeOf(pred.Home, pred.Away) == actualOutcome:
			mp.Points = cfg.CorrectResultPoints
			mp.IsCorrect = true
		default:
			mp.Points = cfg.IncorrectResultPoints
		}
		if isBonusMatch {
			mp.Points *= 2
		}
		if m.Knockout && cfg.QualifierBonusEnabled && pred.Qualifier != SideNone && pred.Qualifier == m.Winner {
			mp.QualifierBonus = 1
			mp.Points += mp.QualifierBonus
		}
		return mp, nil

	default:
		return MatchPoints{}, nil
	}
}
