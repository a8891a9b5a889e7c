// Package supabase persists messages and request logs through the Supabase
// PostgREST API using a service-role key.
package supabase

import (
	"net/http"
	"strings"
)

type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewClient(baseURL, serviceKey string, httpClient http.Client) Client {
	return Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &httpClient,
	}
}
