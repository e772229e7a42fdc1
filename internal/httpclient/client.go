// Package httpclient builds the HTTP clients used for outbound calls
// to the labeling backends and the remote tagger.
package httpclient

import (
	"net/http"
	"time"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// NewBackendHTTPClient creates the client for LLM backend calls.
// Generation against a local vLLM instance can take minutes for long
// prompts, so the timeout is deliberately generous; per-request
// deadlines still come from the caller's context.
func NewBackendHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 120 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
