package metrics

import "time"

// Recorder is the metrics interface consumed by services, handlers and the
// feed cache. Init returns either the Prometheus implementation or a noop.
type Recorder interface {
	// OAuth flow
	RecordAuthCodeIssued()
	RecordCodeExchange(result string)
	RecordTokenIssued(grantType string)
	RecordTokenValidation(result string)

	// Feed cache
	RecordFeedFetch(feedKey, result string, duration time.Duration)
	RecordFeedCacheHit(feedKey string)
	RecordFeedServedStale(feedKey string)

	// HTTP
	RecordHTTPRequest(method, path, status string, duration time.Duration)
}
