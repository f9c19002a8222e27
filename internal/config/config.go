package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Image      ImageConfig      `mapstructure:"image"`
	Normalizer NormalizerConfig `mapstructure:"normalizer"`
	Artifact   ArtifactConfig   `mapstructure:"artifact" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"`
}

// AuthConfig contains authentication settings. An empty JWT secret
// disables bearer-token authentication and every requester is treated as
// an anonymous guest session.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the durable counter store settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// RedisConfig contains the optional counter cache tier settings.
// When URL is empty the service runs durable-only, which changes latency
// but not observable behavior.
type RedisConfig struct {
	URL string `mapstructure:"url"`

	// CacheTTLHours bounds how long counter keys live in the cache tier.
	// The durable tier has no expiry.
	CacheTTLHours int `mapstructure:"cache_ttl_hours" validate:"omitempty,gt=0"`
}

// LLMConfig contains settings for all generation provider variants.
// A provider whose key is absent simply reports itself unavailable; the
// selector skips it.
type LLMConfig struct {
	// DefaultProvider is the variant used when a request does not name
	// one and no higher-priority variant is available.
	DefaultProvider string `mapstructure:"default_provider" validate:"required,oneof=groq openai gemini ollama"`

	GroqAPIKey string `mapstructure:"groq_api_key"`
	GroqModel  string `mapstructure:"groq_model"`

	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	OpenAIModel  string `mapstructure:"openai_model"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	OllamaBaseURL string `mapstructure:"ollama_base_url"`
	OllamaModel   string `mapstructure:"ollama_model"`

	// RequestTimeoutSeconds bounds one upstream generation call.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`

	// MaxRetries and RetryDelaySeconds shape the per-provider retry with
	// exponential backoff for transient upstream failures.
	MaxRetries        int `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// ImageConfig contains image search (enrichment) settings.
type ImageConfig struct {
	PexelsAPIKey string `mapstructure:"pexels_api_key"`

	// ItemTimeoutSeconds bounds a single slide's image lookup. A lookup
	// that exceeds it resolves to "no attachment" for that slide only.
	ItemTimeoutSeconds int `mapstructure:"item_timeout_seconds" validate:"omitempty,gt=0"`
}

// NormalizerConfig contains settings for the external HTML/image
// normalization collaborator.
type NormalizerConfig struct {
	URL string `mapstructure:"url"`

	// TimeoutSeconds bounds the normalization call; on expiry the draft
	// is used unchanged as the final artifact.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
}

// ArtifactConfig contains artifact snapshot storage settings.
type ArtifactConfig struct {
	BasePath string `mapstructure:"base_path" validate:"required"`
}
