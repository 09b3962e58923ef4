package predictiondomain

import "time"

// Prediction is what the store holds for a (participant, match) pair.
// Implementations: Genuine, Recorded and Missing.
type Prediction interface {
	isPrediction()
}

// Genuine is a participant-entered prediction.
type Genuine struct {
	Home        int
	Away        int
	SubmittedAt time.Time
	Qualifier   Side
}

// Recorded is a default prediction persisted by the apply-defaults admin
// action. It is scored as a default and never counts as genuine.
type Recorded struct {
	Home       int
	Away       int
	RecordedAt time.Time
}

// Missing means nothing is stored.
type Missing struct{}

func (Genuine) isPrediction()  {}
func (Recorded) isPrediction() {}
func (Missing) isPrediction()  {}

// EffectiveKind enumerates the EffectivePrediction variants.
type EffectiveKind int

const (
	KindNotYetApplicable EffectiveKind = iota
	KindGenuine
	KindSyntheticDefault
)

func (k EffectiveKind) String() string {
	switch k {
	case KindGenuine:
		return "genuine"
	case KindSyntheticDefault:
		return "default"
	default:
		return "not_yet_applicable"
	}
}

// EffectivePrediction is the prediction that counts for scoring.
// Implementations: GenuinePrediction, SyntheticDefault and NotYetApplicable.
type EffectivePrediction interface {
	Kind() EffectiveKind
}

// GenuinePrediction wraps a participant-entered prediction.
type GenuinePrediction struct {
	Genuine
}

// SyntheticDefault is the 0-0 fallback used when nothing genuine exists
// once the match has started.
type SyntheticDefault struct {
	Home int
	Away int
}

// NotYetApplicable means the match has not started and nothing was entered.
type NotYetApplicable struct{}

func (GenuinePrediction) Kind() EffectiveKind { return KindGenuine }
func (SyntheticDefault) Kind() EffectiveKind  { return KindSyntheticDefault }
func (NotYetApplicable) Kind() EffectiveKind  { return KindNotYetApplicable }

// IsDefault reports whether p is a default prediction.
func IsDefault(p EffectivePrediction) bool {
	return p.Kind() == KindSyntheticDefault
}
