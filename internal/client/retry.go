package client

import (
	"net/http"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
)

// NewRetryClient builds the HTTP client used for upstream open-data
// fetches. Retries cover transient network failures and 5xx responses;
// 4xx responses are returned as-is so callers can report them.
func NewRetryClient(timeout time.Duration, maxRetries int) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	client := rc.StandardClient()
	client.Timeout = timeout
	return client
}
