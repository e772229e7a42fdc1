package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/semkit/rolemark/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	LLM         LLMConfig       `toml:"llm"`
	Morph       MorphConfig     `toml:"morph"`
	Resources   ResourcesConfig `toml:"resources"`
	Storage     StorageConfig   `toml:"storage"`
	Cache       CacheConfig     `toml:"cache"`
	WebSocket   WebSocketConfig `toml:"websocket"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=1,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// LLMConfig selects and configures the labeling backend
type LLMConfig struct {
	DefaultProvider string       `toml:"default_provider" validate:"oneof=vllm claude gemini"`
	VLLM            VLLMConfig   `toml:"vllm"`
	Claude          ClaudeConfig `toml:"claude"`
	Gemini          GeminiConfig `toml:"gemini"`
}

// VLLMConfig configures the OpenAI-compatible completion backend
type VLLMConfig struct {
	BaseURL        string  `toml:"base_url"` // e.g. http://localhost:8000/v1
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float32 `toml:"temperature"`
	GuidedJSON     bool    `toml:"guided_json"`    // Send vLLM guided_json schema with requests
	RateLimitRPS   float64 `toml:"rate_limit_rps"` // 0 = unlimited
	RateLimitBurst int     `toml:"rate_limit_burst"`
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
}

type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
}

// MorphConfig configures the morphological tagger
type MorphConfig struct {
	Mode        string `toml:"mode" validate:"oneof=lexicon remote"`
	LexiconPath string `toml:"lexicon_path"`
	Endpoint    string `toml:"endpoint"` // Remote tagger URL (mode = remote)
	Timeout     string `toml:"timeout"`  // e.g. "5s"
}

// ResourcesConfig points at the SRL resource files
type ResourcesConfig struct {
	RoleMapping  string `toml:"role_mapping" validate:"required"`
	FormMapping  string `toml:"form_mapping" validate:"required"`
	Examples     string `toml:"examples" validate:"required"`
	ExampleCount int    `toml:"example_count" validate:"gte=0"` // Few-shot examples per prompt
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// CacheConfig controls the analysis result cache
type CacheConfig struct {
	Enabled          bool   `toml:"enabled"`
	TTL              string `toml:"ttl"`                // e.g. "24h"
	CleanupSchedule  string `toml:"cleanup_schedule"`   // Cron expression
	BadgerGCSchedule string `toml:"badger_gc_schedule"` // Cron expression
}

// WebSocketConfig controls the log/event stream
type WebSocketConfig struct {
	MinLevel        string   `toml:"min_level"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	AllowedEvents   []string `toml:"allowed_events"`
}

// NewDefaultConfig returns the baseline configuration before any file,
// environment, or flag overrides are applied
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		LLM: LLMConfig{
			DefaultProvider: "vllm",
			VLLM: VLLMConfig{
				BaseURL:        "http://localhost:8000/v1",
				APIKey:         "token-abc123",
				Model:          "t-tech/T-lite-it-1.0",
				MaxTokens:      1024,
				Temperature:    0,
				GuidedJSON:     true,
				RateLimitRPS:   0,
				RateLimitBurst: 1,
			},
			Claude: ClaudeConfig{
				Model:       "claude-sonnet-4-20250514",
				MaxTokens:   1024,
				Temperature: 0,
			},
			Gemini: GeminiConfig{
				Model:       "gemini-2.5-flash",
				Temperature: 0,
			},
		},
		Morph: MorphConfig{
			Mode:        "lexicon",
			LexiconPath: "res/lexicon.json",
			Timeout:     "5s",
		},
		Resources: ResourcesConfig{
			RoleMapping:  "res/role-mapping.json",
			FormMapping:  "res/form-mapping.json",
			Examples:     "res/groupped_examples.json",
			ExampleCount: 2,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/rolemark",
				ResetOnStartup: false,
			},
		},
		Cache: CacheConfig{
			Enabled:          true,
			TTL:              "24h",
			CleanupSchedule:  "0 * * * *",
			BadgerGCSchedule: "30 3 * * *",
		},
		WebSocket: WebSocketConfig{
			MinLevel: "info",
		},
	}
}

// LoadFromFile loads configuration from a single file (or defaults when empty)
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2
// -> ... -> environment. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ROLEMARK_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("ROLEMARK_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ROLEMARK_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("ROLEMARK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ROLEMARK_LOG_OUTPUT"); output != "" {
		var outputs []string
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// LLM backend configuration
	if baseURL := os.Getenv("ROLEMARK_VLLM_BASE_URL"); baseURL != "" {
		config.LLM.VLLM.BaseURL = baseURL
	}
	if apiKey := os.Getenv("ROLEMARK_VLLM_API_KEY"); apiKey != "" {
		config.LLM.VLLM.APIKey = apiKey
	}
	if model := os.Getenv("ROLEMARK_VLLM_MODEL"); model != "" {
		config.LLM.VLLM.Model = model
	}
	if provider := os.Getenv("ROLEMARK_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = provider
	}

	// Morphology configuration
	if lexicon := os.Getenv("ROLEMARK_MORPH_LEXICON"); lexicon != "" {
		config.Morph.LexiconPath = lexicon
	}
	if endpoint := os.Getenv("ROLEMARK_MORPH_ENDPOINT"); endpoint != "" {
		config.Morph.Endpoint = endpoint
		config.Morph.Mode = "remote"
	}

	// Resource files
	if path := os.Getenv("ROLEMARK_ROLE_MAPPING_FILE"); path != "" {
		config.Resources.RoleMapping = path
	}
	if path := os.Getenv("ROLEMARK_FORM_MAPPING_FILE"); path != "" {
		config.Resources.FormMapping = path
	}
	if path := os.Getenv("ROLEMARK_EXAMPLES_FILE"); path != "" {
		config.Resources.Examples = path
	}

	// Storage configuration
	if badgerPath := os.Getenv("ROLEMARK_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration for structural and value errors
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if _, err := c.MorphTimeout(); err != nil {
		return err
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for _, schedule := range []string{c.Cache.CleanupSchedule, c.Cache.BadgerGCSchedule} {
		if schedule == "" {
			continue
		}
		if _, err := parser.Parse(schedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
		}
	}

	if c.Morph.Mode == "remote" && c.Morph.Endpoint == "" {
		return fmt.Errorf("morph.endpoint is required when morph.mode is \"remote\"")
	}

	return nil
}

// CacheTTL parses the configured cache TTL
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache.ttl %q: %w", c.Cache.TTL, err)
	}
	return d, nil
}

// MorphTimeout parses the configured remote tagger timeout
func (c *Config) MorphTimeout() (time.Duration, error) {
	if c.Morph.Timeout == "" {
		return 5 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Morph.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid morph.timeout %q: %w", c.Morph.Timeout, err)
	}
	return d, nil
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ResolveAPIKey resolves an API key by name: key/value store first,
// config fallback second
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	if kvStorage != nil {
		if value, err := kvStorage.Get(ctx, name); err == nil && value != "" {
			return value, nil
		}
	}
	if configFallback != "" {
		return configFallback, nil
	}
	return "", fmt.Errorf("API key %q not found in key/value store or config", name)
}
