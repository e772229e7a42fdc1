package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/semkit/rolemark/internal/common"
	"github.com/semkit/rolemark/internal/httpclient"
	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// vllmClient talks to an OpenAI-compatible chat completions endpoint.
// vLLM serves this API; the guided_json extension constrains decoding
// to a JSON schema when the server supports it.
type vllmClient struct {
	config *common.VLLMConfig
	client *http.Client
	logger arbor.ILogger
}

type vllmChatRequest struct {
	Model       string                 `json:"model"`
	Messages    []vllmChatMessage      `json:"messages"`
	MaxTokens   int                    `json:"max_completion_tokens,omitempty"`
	Temperature *float32               `json:"temperature,omitempty"`
	GuidedJSON  map[string]interface{} `json:"guided_json,omitempty"`
}

type vllmChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type vllmChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message vllmChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (f *ProviderFactory) getVLLMClient() *vllmClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.vllmClient == nil {
		f.vllmClient = &vllmClient{
			config: &f.llmConfig.VLLM,
			client: httpclient.NewBackendHTTPClient(),
			logger: f.logger,
		}
	}
	return f.vllmClient
}

// generateWithVLLM generates content using the OpenAI-compatible backend
func (f *ProviderFactory) generateWithVLLM(ctx context.Context, request *ContentRequest, model string) (*ContentResponse, error) {
	if f.vllmLimiter != nil {
		if err := f.vllmLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	client := f.getVLLMClient()

	if model == "" {
		model = f.llmConfig.VLLM.Model
	}

	temp := request.Temperature
	if temp <= 0 {
		temp = f.llmConfig.VLLM.Temperature
	}

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.llmConfig.VLLM.MaxTokens
	}

	var schema map[string]interface{}
	if f.llmConfig.VLLM.GuidedJSON {
		schema = request.OutputSchema
	}

	retryConfig := NewDefaultRetryConfig()
	var text string
	var apiErr error

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		text, apiErr = client.complete(ctx, model, request, temp, maxTokens, schema)
		if apiErr == nil {
			break
		}

		if attempt == retryConfig.MaxRetries {
			break
		}

		var backoff time.Duration
		if IsRateLimitError(apiErr) {
			backoff = retryConfig.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		} else {
			backoff = time.Duration(attempt+1) * 2 * time.Second
		}

		f.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying completion backend call")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return nil, fmt.Errorf("completion backend call failed after %d retries: %w", retryConfig.MaxRetries, apiErr)
	}

	return &ContentResponse{
		Text:     text,
		Provider: ProviderVLLM,
		Model:    model,
	}, nil
}

func (c *vllmClient) complete(ctx context.Context, model string, request *ContentRequest, temp float32, maxTokens int, schema map[string]interface{}) (string, error) {
	messages := make([]vllmChatMessage, 0, len(request.Messages)+1)
	if request.SystemInstruction != "" {
		messages = append(messages, vllmChatMessage{Role: "system", Content: request.SystemInstruction})
	}
	for _, msg := range request.Messages {
		messages = append(messages, vllmChatMessage{Role: normalizeChatRole(msg), Content: msg.Content})
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty")
	}

	body := vllmChatRequest{
		Model:      model,
		Messages:   messages,
		MaxTokens:  maxTokens,
		GuidedJSON: schema,
	}
	if temp >= 0 {
		body.Temperature = &temp
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	const maxBodyBytes = 10 * 1024 * 1024
	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var chatResp vllmChatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response (HTTP %d, body: %s): %w", resp.StatusCode, truncateForError(string(respBytes)), err)
	}

	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil {
			return "", fmt.Errorf("completion backend error %d: %s: %s", resp.StatusCode, chatResp.Error.Type, chatResp.Error.Message)
		}
		return "", fmt.Errorf("completion backend HTTP %d: %s", resp.StatusCode, truncateForError(string(respBytes)))
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty choices in completion response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// normalizeChatRole maps unknown message roles to "user"
func normalizeChatRole(msg interfaces.Message) string {
	switch msg.Role {
	case "system", "user", "assistant":
		return msg.Role
	default:
		return "user"
	}
}

func truncateForError(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
