package metrics

import "time"

// NoopMetrics is a no-operation Recorder used when metrics are disabled.
type NoopMetrics struct{}

var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordAuthCodeIssued()                                                {}
func (n *NoopMetrics) RecordCodeExchange(result string)                                     {}
func (n *NoopMetrics) RecordTokenIssued(grantType string)                                   {}
func (n *NoopMetrics) RecordTokenValidation(result string)                                  {}
func (n *NoopMetrics) RecordFeedFetch(feedKey, result string, duration time.Duration)       {}
func (n *NoopMetrics) RecordFeedCacheHit(feedKey string)                                    {}
func (n *NoopMetrics) RecordFeedServedStale(feedKey string)                                 {}
func (n *NoopMetrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {}
