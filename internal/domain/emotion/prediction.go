package emotion

// Prediction is one classifier judgment. An empty Target marks the
// document-level prediction covering the whole input.
type Prediction struct {
	Target  string
	Emotion map[string]float64
}

// IsDocument reports whether p covers the entire input text.
func (p Prediction) IsDocument() bool {
	return p.Target == ""
}

// Values extracts the tracked scores in enumeration order. Missing keys
// count as 0.0.
func (p Prediction) Values() [Count]float64 {
	var out [Count]float64
	for _, e := range All() {
		out[e] = p.Emotion[e.String()]
	}
	return out
}

// SelectDocument picks the prediction to score. It returns the first
// document-level prediction, falling back to the first entry when none
// exists. ok is false for an empty list.
func SelectDocument(preds []Prediction) (Prediction, bool) {
	if len(preds) == 0 {
		return Prediction{}, false
	}
	for _, p := range preds {
		if p.IsDocument() {
			return p, true
		}
	}
	return preds[0], true
}

// FromPredictions normalizes a classifier answer into Scores: zero scores
// for an empty list, otherwise the selected prediction's values.
func FromPredictions(preds []Prediction) Scores {
	p, ok := SelectDocument(preds)
	if !ok {
		return Zero()
	}
	return NewScores(p.Values())
}
