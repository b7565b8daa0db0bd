package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, when present, a
// config.yaml in the working directory. Environment variables use the
// STUDYBUDDY_ prefix with underscores separating nested keys
// (e.g. STUDYBUDDY_SERVER_PORT) and take precedence over file values.
// Returns a populated, validated Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STUDYBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
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

// setDefaults registers the default value for every tunable so a deployment
// only has to supply credentials and the database URL.
func setDefaults(v *viper.Viper) {
	// Empty defaults register the key with viper so AutomaticEnv can bind it
	// during Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("llm.openai_api_key", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.model_name", "gpt-4o")
	v.SetDefault("llm.request_timeout_seconds", 120)

	v.SetDefault("generation.min_items", 1)
	v.SetDefault("generation.max_items", 60)
	v.SetDefault("generation.max_images", 15)
	v.SetDefault("generation.batch_threshold", 10)
	v.SetDefault("generation.num_batches", 3)
	v.SetDefault("generation.max_completion_tokens", 16000)
	v.SetDefault("generation.min_batch_completion_tokens", 50)
	v.SetDefault("generation.min_single_completion_tokens", 100)
	v.SetDefault("generation.single_mode_item_floor", 5)
	v.SetDefault("generation.single_temperature", 0.7)
	v.SetDefault("generation.batch_temperature", 0.8)

	v.SetDefault("entitlement.admin_emails", []string{})
	v.SetDefault("entitlement.free_tier_limit", 4)
}
