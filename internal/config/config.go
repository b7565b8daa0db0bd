package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"      validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"    validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth"        validate:"required"`
	LLM         LLMConfig         `mapstructure:"llm"         validate:"required"`
	Generation  GenerationConfig  `mapstructure:"generation"  validate:"required"`
	Entitlement EntitlementConfig `mapstructure:"entitlement" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// ShutdownTimeoutSeconds bounds how long the server waits for in-flight
	// requests to drain during graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gte=1"`
}

// LLMConfig contains settings for the external generative model.
type LLMConfig struct {
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	ModelName    string `mapstructure:"model_name" validate:"required"`

	// RequestTimeoutSeconds is the overall deadline for one generation,
	// covering every parallel batch call.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gte=1"`
}

// GenerationConfig carries the tunable parameters of the generation pipeline.
// These are injected rather than defined as package constants so tests can
// substitute small fixtures (e.g. a 2-item free limit) without global state.
type GenerationConfig struct {
	// MinItems and MaxItems bound the requested item count. Out-of-range
	// requests are rejected, never clamped, to prevent cost abuse.
	MinItems int `mapstructure:"min_items" validate:"gte=1"`
	MaxItems int `mapstructure:"max_items" validate:"gtefield=MinItems"`

	// MaxImages caps the total page/photo count per request. The cap is
	// shared between direct image uploads and rendered PDF pages.
	MaxImages int `mapstructure:"max_images" validate:"gte=1"`

	// BatchThreshold is the item count at which the planner switches from a
	// single oracle call to NumBatches parallel calls. NumBatches is capped
	// at 3: each batch gets a distinct thematic focus and the rotation
	// defines three.
	BatchThreshold int `mapstructure:"batch_threshold" validate:"gte=2"`
	NumBatches     int `mapstructure:"num_batches"     validate:"gte=2,lte=3"`

	// MaxCompletionTokens is the hard per-response ceiling; computed budgets
	// are capped here.
	MaxCompletionTokens int `mapstructure:"max_completion_tokens" validate:"gte=1"`

	// Degenerate-output detection. Completion-token counts below these
	// cutoffs indicate the model could not extract meaningful content from
	// the input. Empirically chosen; tune per deployment.
	MinBatchCompletionTokens  int `mapstructure:"min_batch_completion_tokens"  validate:"gte=0"`
	MinSingleCompletionTokens int `mapstructure:"min_single_completion_tokens" validate:"gte=0"`

	// SingleModeItemFloor: the single-mode cutoff only applies when at least
	// this many items were requested; tiny requests legitimately produce
	// short completions.
	SingleModeItemFloor int `mapstructure:"single_mode_item_floor" validate:"gte=0"`

	// Sampling temperature. Batched mode runs hotter to push the batches
	// toward non-overlapping question angles.
	SingleTemperature float32 `mapstructure:"single_temperature" validate:"gte=0,lte=2"`
	BatchTemperature  float32 `mapstructure:"batch_temperature"  validate:"gte=0,lte=2"`
}

// EntitlementConfig carries the monetization gate parameters.
type EntitlementConfig struct {
	// AdminEmails bypass both the subscription check and the free-tier quota.
	AdminEmails []string `mapstructure:"admin_emails"`

	// FreeTierLimit is the number of successful generations a caller without
	// a subscription may run.
	FreeTierLimit int `mapstructure:"free_tier_limit" validate:"gte=0"`
}
