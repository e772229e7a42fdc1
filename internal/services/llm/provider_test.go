package llm

import (
	"testing"

	"github.com/semkit/rolemark/internal/common"
	"github.com/stretchr/testify/assert"
)

func newTestFactory(llmConfig *common.LLMConfig) *ProviderFactory {
	return NewProviderFactory(llmConfig, nil, common.GetLogger())
}

func TestDetectProvider(t *testing.T) {
	factory := newTestFactory(&common.LLMConfig{DefaultProvider: "vllm"})

	tests := []struct {
		model string
		want  ProviderType
	}{
		{"", ProviderVLLM},
		{"claude-sonnet-4-20250514", ProviderClaude},
		{"claude/claude-sonnet-4-20250514", ProviderClaude},
		{"anthropic/claude-haiku-4", ProviderClaude},
		{"gemini-2.5-flash", ProviderGemini},
		{"gemini/gemini-2.5-flash", ProviderGemini},
		{"google/gemini-2.5-pro", ProviderGemini},
		{"vllm/t-tech/T-lite-it-1.0", ProviderVLLM},
		{"t-tech/T-lite-it-1.0", ProviderVLLM},
		{"Qwen/Qwen2.5-7B-Instruct", ProviderVLLM},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, factory.DetectProvider(tt.model))
		})
	}
}

func TestDetectProviderDefaultFromConfig(t *testing.T) {
	factory := newTestFactory(&common.LLMConfig{DefaultProvider: "claude"})
	assert.Equal(t, ProviderClaude, factory.DetectProvider(""))
}

func TestNormalizeModel(t *testing.T) {
	factory := newTestFactory(&common.LLMConfig{DefaultProvider: "vllm"})

	assert.Equal(t, "claude-sonnet-4-20250514", factory.NormalizeModel("claude/claude-sonnet-4-20250514"))
	assert.Equal(t, "gemini-2.5-flash", factory.NormalizeModel("gemini/gemini-2.5-flash"))
	assert.Equal(t, "t-tech/T-lite-it-1.0", factory.NormalizeModel("vllm/t-tech/T-lite-it-1.0"))
	assert.Equal(t, "t-tech/T-lite-it-1.0", factory.NormalizeModel("t-tech/T-lite-it-1.0"))
}

func TestGetDefaultModel(t *testing.T) {
	factory := newTestFactory(&common.LLMConfig{
		DefaultProvider: "vllm",
		VLLM:            common.VLLMConfig{Model: "t-tech/T-lite-it-1.0"},
		Claude:          common.ClaudeConfig{Model: "claude-sonnet-4-20250514"},
		Gemini:          common.GeminiConfig{Model: "gemini-2.5-flash"},
	})

	assert.Equal(t, "t-tech/T-lite-it-1.0", factory.GetDefaultModel(ProviderVLLM))
	assert.Equal(t, "claude-sonnet-4-20250514", factory.GetDefaultModel(ProviderClaude))
	assert.Equal(t, "gemini-2.5-flash", factory.GetDefaultModel(ProviderGemini))
}

func TestRoleMarkupSchema(t *testing.T) {
	schema := RoleMarkupSchema()

	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]interface{})
	assert.True(t, ok)

	roles, ok := props["roles"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "array", roles["type"])

	items, ok := roles["items"].(map[string]interface{})
	assert.True(t, ok)

	itemProps, ok := items["properties"].(map[string]interface{})
	assert.True(t, ok)
	for _, field := range []string{"short_reasoning", "arg_role", "arg_phrase_or_clause", "arg_main_indicative_word"} {
		assert.Contains(t, itemProps, field)
	}
}

func TestRoleMarkupSchemaConvertsToGenai(t *testing.T) {
	schema, err := convertToGenaiSchema(RoleMarkupSchema())
	assert.NoError(t, err)
	assert.NotNil(t, schema)
	assert.Contains(t, schema.Properties, "roles")
	assert.NotNil(t, schema.Properties["roles"].Items)
	assert.Contains(t, schema.Properties["roles"].Items.Required, "arg_role")
}
