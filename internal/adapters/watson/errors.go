package watson

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds for this package.
var (
	ErrTransport      = errors.New("emotion predict transport failed")
	ErrUpstreamStatus = errors.New("emotion predict returned error status")
	ErrDecode         = errors.New("emotion predict response decode failed")
	ErrEncode         = errors.New("emotion predict request encode failed")
)

// StatusError reports a non-2xx, non-400 answer from the classifier.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUpstreamStatus, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap lets errors.Is match ErrUpstreamStatus.
func (e *StatusError) Unwrap() error { return ErrUpstreamStatus }
