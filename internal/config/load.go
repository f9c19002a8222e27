package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config.yaml and from
// environment variables with the DECK_ prefix (e.g. DECK_SERVER_PORT,
// DECK_LLM_GROQ_API_KEY). Environment variables take precedence over file
// values, which take precedence over defaults.
// Returns a populated Config or an error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults suffice.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("DECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not make env-only keys visible to Unmarshal, so
	// bind every key we have a default or struct field for.
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// configKeys lists every configuration key so env-only values survive
// viper's Unmarshal.
var configKeys = []string{
	"server.port",
	"server.log_level",
	"database.url",
	"redis.url",
	"redis.cache_ttl_hours",
	"llm.default_provider",
	"llm.groq_api_key",
	"llm.groq_model",
	"llm.openai_api_key",
	"llm.openai_model",
	"llm.gemini_api_key",
	"llm.gemini_model",
	"llm.ollama_base_url",
	"llm.ollama_model",
	"llm.request_timeout_seconds",
	"llm.max_retries",
	"llm.retry_delay_seconds",
	"image.pexels_api_key",
	"image.item_timeout_seconds",
	"normalizer.url",
	"normalizer.timeout_seconds",
	"artifact.base_path",
	"auth.jwt_secret",
}

// setDefaults configures default values for all optional settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("redis.cache_ttl_hours", 24*7)

	v.SetDefault("llm.default_provider", "groq")
	v.SetDefault("llm.groq_model", "llama-3.1-70b-versatile")
	v.SetDefault("llm.openai_model", "gpt-4o-mini")
	v.SetDefault("llm.gemini_model", "gemini-2.0-flash")
	v.SetDefault("llm.ollama_model", "llama3.1:8b")
	v.SetDefault("llm.request_timeout_seconds", 60)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("image.item_timeout_seconds", 10)

	v.SetDefault("normalizer.timeout_seconds", 30)

	v.SetDefault("artifact.base_path", "artifacts")
}
