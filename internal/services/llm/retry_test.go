package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"status 429", errors.New("completion backend error 429: rate_limit: too many requests"), true},
		{"resource exhausted", errors.New("Error, Status: RESOURCE_EXHAUSTED"), true},
		{"quota message", errors.New("quota exceeded for model"), true},
		{"unrelated error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimitError(tt.err))
		})
	}
}

func TestExtractRetryDelay(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"nil error", nil, 0},
		{"no delay in message", errors.New("Error 429: rate limited"), 0},
		{
			"please retry format",
			errors.New("Error 429, Message: quota exceeded. Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED"),
			time.Duration(45.387061394 * float64(time.Second)),
		},
		{
			"retryDelay format",
			errors.New("rpc error: retryDelay: 12s"),
			12 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRetryDelay(tt.err))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    5 * time.Second,
		MaxBackoff:        60 * time.Second,
		BackoffMultiplier: 2.0,
	}

	assert.Equal(t, 5*time.Second, cfg.CalculateBackoff(0, 0))
	assert.Equal(t, 10*time.Second, cfg.CalculateBackoff(1, 0))
	assert.Equal(t, 20*time.Second, cfg.CalculateBackoff(2, 0))

	// API-provided delay plus buffer overrides the initial backoff
	assert.Equal(t, 15*time.Second, cfg.CalculateBackoff(0, 10*time.Second))

	// Capped at MaxBackoff
	assert.Equal(t, 60*time.Second, cfg.CalculateBackoff(10, 0))
}
