package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the response classes callers branch on.
var (
	// ErrUnauthorized reports a 401. The client has already cleared the
	// session slot by the time this is returned.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound reports that the target identifier does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited reports quota exhaustion (429).
	ErrRateLimited = errors.New("rate limited")
)

// StatusError reports a non-success response outside the mapped sentinel
// classes, carrying the server's detail message when one was provided.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("server returned status %d", e.Code)
}
