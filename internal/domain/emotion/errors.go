package emotion

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownEmotion = errors.New("unknown emotion")
)
