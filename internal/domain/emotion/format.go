package emotion

import (
	"fmt"
	"strconv"
	"strings"
)

// InvalidTextMessage is shown when no dominant emotion could be derived.
const InvalidTextMessage = "Invalid text! Please try again!"

// Message renders s as the human-readable sentence shown by the web form.
// Records without a dominant emotion render as InvalidTextMessage.
func Message(s Scores) string {
	d, ok := s.Dominant()
	if !ok {
		return InvalidTextMessage
	}
	v := s.values
	return fmt.Sprintf(
		"For the given statement, the system response is 'anger': %s, 'disgust': %s, 'fear': %s, 'joy': %s and 'sadness': %s. The dominant emotion is %s.",
		formatScore(v[Anger]), formatScore(v[Disgust]), formatScore(v[Fear]), formatScore(v[Joy]), formatScore(v[Sadness]), d,
	)
}

// formatScore prints the shortest representation that round-trips, keeping
// a trailing ".0" on whole numbers.
func formatScore(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}
