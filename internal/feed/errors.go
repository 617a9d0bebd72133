package feed

import "errors"

var (
	ErrFeedNotFound = errors.New("feed not found")
	// ErrUpstreamUnavailable means the fetch failed and no previous
	// payload exists to fall back to.
	ErrUpstreamUnavailable = errors.New("upstream unavailable and no cached data")
)
