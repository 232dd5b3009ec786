// Package feed fetches draw history and the open period from the public
// WinGo JSON endpoints.
package feed

import (
	"errors"
)

// Failure kinds. Every error returned by Client wraps exactly one of these.
var (
	ErrTransport = errors.New("feed transport failed")
	ErrMalformed = errors.New("feed payload malformed")
	ErrEmpty     = errors.New("feed payload empty")
)

// Kind returns a short label for err, suitable for logs and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrEmpty):
		return "empty"
	default:
		return "unknown"
	}
}
