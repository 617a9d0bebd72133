// Package feed implements the read-through cache in front of the upstream
// open-data endpoints. Every consumer, MCP tool or REST handler alike, goes
// through the cache; upstreams are never hit more than once per refresh
// interval per feed, and a failing upstream is answered with the last good
// payload instead of an error.
package feed

import "time"

// Kind selects how a fetched body is decoded.
type Kind int

const (
	// KindGTFSRealtime decodes the body as a GTFS-RT protobuf FeedMessage.
	KindGTFSRealtime Kind = iota
	// KindJSON validates the body as JSON and keeps it raw.
	KindJSON
	// KindRaw keeps the body untouched.
	KindRaw
)

// Feed describes one upstream endpoint.
type Feed struct {
	Key             string
	URL             string
	Kind            Kind
	RefreshInterval time.Duration

	// Headers are sent with every fetch, for upstreams that want an API
	// key header.
	Headers map[string]string
}
