package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the gateway
type Metrics struct {
	AuthCodesIssuedTotal prometheus.Counter
	CodeExchangeTotal    *prometheus.CounterVec
	TokensIssuedTotal    *prometheus.CounterVec
	TokenValidationTotal *prometheus.CounterVec

	FeedFetchTotal     *prometheus.CounterVec
	FeedFetchDuration  *prometheus.HistogramVec
	FeedCacheHitsTotal *prometheus.CounterVec
	FeedStaleTotal     *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns the Prometheus-backed Recorder when enabled, otherwise a noop.
// Prometheus collectors are registered at most once per process.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}
	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		AuthCodesIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "oauth_authorization_codes_issued_total",
				Help: "Total number of authorization codes issued",
			},
		),
		CodeExchangeTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_code_exchange_total",
				Help: "Total number of authorization code exchanges",
			},
			[]string{"result"}, // success, invalid_grant, invalid_client, invalid_request
		),
		TokensIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_tokens_issued_total",
				Help: "Total number of bearer tokens issued",
			},
			[]string{"grant_type"},
		),
		TokenValidationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_token_validation_total",
				Help: "Total number of bearer token validations",
			},
			[]string{"result"}, // success, unauthorized
		),
		FeedFetchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_fetch_total",
				Help: "Total number of upstream feed fetches",
			},
			[]string{"feed", "result"}, // success, error
		),
		FeedFetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feed_fetch_duration_seconds",
				Help:    "Upstream feed fetch duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"feed"},
		),
		FeedCacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_cache_hits_total",
				Help: "Total number of feed cache hits",
			},
			[]string{"feed"},
		),
		FeedStaleTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_served_stale_total",
				Help: "Total number of requests served stale data after a failed refresh",
			},
			[]string{"feed"},
		),
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

func (m *Metrics) RecordAuthCodeIssued() {
	m.AuthCodesIssuedTotal.Inc()
}

func (m *Metrics) RecordCodeExchange(result string) {
	m.CodeExchangeTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordTokenIssued(grantType string) {
	m.TokensIssuedTotal.WithLabelValues(grantType).Inc()
}

func (m *Metrics) RecordTokenValidation(result string) {
	m.TokenValidationTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordFeedFetch(feedKey, result string, duration time.Duration) {
	m.FeedFetchTotal.WithLabelValues(feedKey, result).Inc()
	m.FeedFetchDuration.WithLabelValues(feedKey).Observe(duration.Seconds())
}

func (m *Metrics) RecordFeedCacheHit(feedKey string) {
	m.FeedCacheHitsTotal.WithLabelValues(feedKey).Inc()
}

func (m *Metrics) RecordFeedServedStale(feedKey string) {
	m.FeedStaleTotal.WithLabelValues(feedKey).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
