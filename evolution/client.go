// Package evolution provides a client for the Evolution API media endpoints.
// Connection details (server URL, instance, API key) arrive on each webhook
// payload, so they are passed per call rather than stored on the client.
package evolution

import (
	"net/http"
	"time"
)

const (
	defaultMaxAttempts = 5
	defaultRetryDelay  = 5 * time.Second
)

type Client struct {
	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration
}

func NewClient(httpClient http.Client) Client {
	return Client{
		httpClient:  &httpClient,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
}
