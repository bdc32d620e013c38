// Package emotion contains the emotion-score record returned by the detector
// together with the rules that normalize an upstream prediction into it.
package emotion

import (
	"fmt"
	"strings"
)

// Emotion identifies one of the tracked emotions. The numeric order is the
// enumeration order used for tie-breaking.
type Emotion int

// Tracked emotions, in enumeration order.
const (
	Anger Emotion = iota
	Disgust
	Fear
	Joy
	Sadness
)

// Count is the number of tracked emotions.
const Count = 5

var names = [Count]string{"anger", "disgust", "fear", "joy", "sadness"}

// All returns every tracked emotion in enumeration order.
func All() [Count]Emotion {
	return [Count]Emotion{Anger, Disgust, Fear, Joy, Sadness}
}

// String returns the wire name of the emotion, e.g. "joy".
func (e Emotion) String() string {
	if !e.Valid() {
		return fmt.Sprintf("emotion(%d)", int(e))
	}
	return names[e]
}

// Valid reports whether e is one of the tracked emotions.
func (e Emotion) Valid() bool {
	return e >= Anger && e <= Sadness
}

// Parse maps a wire name (case-insensitive) to an Emotion.
func Parse(name string) (Emotion, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range names {
		if candidate == n {
			return Emotion(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEmotion, name)
}
