package emotion

import (
	"encoding/json"
)

// Kind tags which variant of Scores a value holds.
type Kind int

const (
	// KindAbsent is the "no result" sentinel: every score and the dominant
	// emotion are absent. Produced for blank input and for rejected input.
	KindAbsent Kind = iota
	// KindZero means the classifier answered without predictions: every score
	// is 0.0 and the dominant emotion is absent.
	KindZero
	// KindScored holds five scores and their dominant emotion.
	KindScored
)

// String returns a short label for the variant, used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindZero:
		return "zero"
	case KindScored:
		return "scored"
	default:
		return "unknown"
	}
}

// Scores is the normalized emotion-score record. The zero value is the
// absent sentinel. Values are immutable once constructed.
type Scores struct {
	kind     Kind
	values   [Count]float64
	dominant Emotion
}

// Absent returns the sentinel record with all scores and the dominant
// emotion absent.
func Absent() Scores {
	return Scores{kind: KindAbsent}
}

// Zero returns the record used when the classifier produced no predictions.
func Zero() Scores {
	return Scores{kind: KindZero}
}

// NewScores builds a populated record from values indexed by Emotion and
// computes the dominant emotion.
func NewScores(values [Count]float64) Scores {
	return Scores{
		kind:     KindScored,
		values:   values,
		dominant: argmax(values),
	}
}

// argmax scans in enumeration order and only moves on a strictly greater
// value, so ties resolve to the earliest emotion.
func argmax(values [Count]float64) Emotion {
	best := Anger
	for _, e := range All() {
		if values[e] > values[best] {
			best = e
		}
	}
	return best
}

// Kind reports the variant held by s.
func (s Scores) Kind() Kind { return s.kind }

// IsAbsent reports whether s is the all-absent sentinel.
func (s Scores) IsAbsent() bool { return s.kind == KindAbsent }

// Score returns the score for e. ok is false for the absent sentinel.
func (s Scores) Score(e Emotion) (float64, bool) {
	if s.kind == KindAbsent || !e.Valid() {
		return 0, false
	}
	return s.values[e], true
}

// Values returns the five scores indexed by Emotion. ok is false for the
// absent sentinel.
func (s Scores) Values() ([Count]float64, bool) {
	if s.kind == KindAbsent {
		return [Count]float64{}, false
	}
	return s.values, true
}

// Dominant returns the highest-scoring emotion. ok is false unless s holds
// populated scores.
func (s Scores) Dominant() (Emotion, bool) {
	if s.kind != KindScored {
		return 0, false
	}
	return s.dominant, true
}

// scoresJSON is the wire shape; nil pointers encode as null.
type scoresJSON struct {
	Anger           *float64 `json:"anger"`
	Disgust         *float64 `json:"disgust"`
	Fear            *float64 `json:"fear"`
	Joy             *float64 `json:"joy"`
	Sadness         *float64 `json:"sadness"`
	DominantEmotion *string  `json:"dominant_emotion"`
}

// MarshalJSON encodes s with null for every absent value.
func (s Scores) MarshalJSON() ([]byte, error) {
	var out scoresJSON
	if values, ok := s.Values(); ok {
		out.Anger = &values[Anger]
		out.Disgust = &values[Disgust]
		out.Fear = &values[Fear]
		out.Joy = &values[Joy]
		out.Sadness = &values[Sadness]
	}
	if d, ok := s.Dominant(); ok {
		name := d.String()
		out.DominantEmotion = &name
	}
	return json.Marshal(out)
}
