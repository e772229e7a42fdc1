package llm

import (
	"context"
	"strings"
	"sync"

	"github.com/semkit/rolemark/internal/common"
	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

// ProviderType represents the LLM provider type
type ProviderType string

const (
	// ProviderVLLM uses an OpenAI-compatible completion server (vLLM)
	ProviderVLLM ProviderType = "vllm"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
)

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Messages          []interfaces.Message
	Model             string
	Temperature       float32
	MaxTokens         int
	SystemInstruction string
	OutputSchema      map[string]interface{} // JSON schema for structured output
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// Provider defines the interface for LLM content generation
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	GetProviderType() ProviderType
	Close() error
}

// ProviderFactory creates and manages LLM providers
type ProviderFactory struct {
	llmConfig   *common.LLMConfig
	kvStorage   interfaces.KeyValueStorage
	logger      arbor.ILogger
	vllmLimiter *rate.Limiter

	// mu guards the lazily initialized clients below; requests run
	// concurrently against a shared factory
	mu         sync.Mutex
	vllmClient *vllmClient
	claude     *claudeClient
	gemini     *geminiClient
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(
	llmConfig *common.LLMConfig,
	kvStorage interfaces.KeyValueStorage,
	logger arbor.ILogger,
) *ProviderFactory {
	f := &ProviderFactory{
		llmConfig: llmConfig,
		kvStorage: kvStorage,
		logger:    logger,
	}
	if llmConfig.VLLM.RateLimitRPS > 0 {
		burst := llmConfig.VLLM.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		f.vllmLimiter = rate.NewLimiter(rate.Limit(llmConfig.VLLM.RateLimitRPS), burst)
	}
	return f
}

// DetectProvider determines the provider type from a model string.
// Model strings can be:
// - "claude-sonnet-4-20250514" -> Claude
// - "claude/claude-sonnet-4-20250514" -> Claude (with prefix)
// - "gemini-2.5-flash" -> Gemini
// - "vllm/t-tech/T-lite-it-1.0" -> vLLM (with prefix)
// - Empty string -> uses default provider from config
func (f *ProviderFactory) DetectProvider(model string) ProviderType {
	if model == "" {
		return ProviderType(f.llmConfig.DefaultProvider)
	}

	lower := strings.ToLower(model)

	// Check for explicit provider prefix
	if strings.HasPrefix(lower, "claude/") || strings.HasPrefix(lower, "anthropic/") {
		return ProviderClaude
	}
	if strings.HasPrefix(lower, "gemini/") || strings.HasPrefix(lower, "google/") {
		return ProviderGemini
	}
	if strings.HasPrefix(lower, "vllm/") {
		return ProviderVLLM
	}

	// Check for model name patterns
	if strings.HasPrefix(lower, "claude-") {
		return ProviderClaude
	}
	if strings.HasPrefix(lower, "gemini-") {
		return ProviderGemini
	}

	// Anything else is served by the local completion backend
	return ProviderVLLM
}

// NormalizeModel removes provider prefix from model name if present
func (f *ProviderFactory) NormalizeModel(model string) string {
	prefixes := []string{"claude/", "anthropic/", "gemini/", "google/", "vllm/"}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

// GetDefaultModel returns the default model for a provider
func (f *ProviderFactory) GetDefaultModel(provider ProviderType) string {
	switch provider {
	case ProviderClaude:
		return f.llmConfig.Claude.Model
	case ProviderGemini:
		return f.llmConfig.Gemini.Model
	default:
		return f.llmConfig.VLLM.Model
	}
}

// GenerateContent generates content using the appropriate provider based on model
func (f *ProviderFactory) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	provider := f.DetectProvider(request.Model)
	model := f.NormalizeModel(request.Model)

	f.logger.Debug().
		Str("provider", string(provider)).
		Str("model", model).
		Int("message_count", len(request.Messages)).
		Msg("Generating content with provider")

	switch provider {
	case ProviderClaude:
		return f.generateWithClaude(ctx, request, model)
	case ProviderGemini:
		return f.generateWithGemini(ctx, request, model)
	default:
		return f.generateWithVLLM(ctx, request, model)
	}
}

// Close closes all provider clients
func (f *ProviderFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vllmClient = nil
	f.claude = nil
	f.gemini = nil
	return nil
}
