package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/spf13/viper"

	"github.com/sevigo/audit-warden/internal/logger"
)

const minJWTSecretLength = 32

// Config holds the application's configuration values.
type Config struct {
	Server   ServerConfig
	Logging  logger.Config
	Database DBConfig
	GitHub   GitHubConfig
	Auth     AuthConfig
	AI       AIConfig
	Review   ReviewConfig
	Retry    RetryConfig
	Jobs     JobsConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         string
	FrontendURL  string
	WriteTimeout time.Duration
	MaxDiffBytes int64
}

// DBConfig configures the Postgres connection pool.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// GitHubConfig holds the OAuth application credentials.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	// Token is a personal access token used by the CLI only.
	Token string
}

// AuthConfig configures the backend session tokens.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// AIConfig selects the model backend and carries its credentials.
type AIConfig struct {
	Provider        string
	AWSRegion       string
	AWSAccessKey    string
	AWSSecretKey    string
	AnthropicAPIKey string
	OllamaHost      string
	GeminiAPIKey    string
}

// ReviewConfig holds the fixed operational parameters of the review call sites.
type ReviewConfig struct {
	ModelID              string
	MaxTokens            int
	Temperature          float64
	TopP                 float64
	ReasoningModelID     string
	ReasoningBudget      int
	ReasoningTemperature float64
	ValidateFindings     bool
	Timeout              time.Duration
}

// RetryConfig configures the retry policy of the non-reasoning model path.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     string
	MaxDelay    time.Duration
	MaxElapsed  time.Duration
	Mode        string
}

// JobsConfig sizes the asynchronous scan worker pool.
type JobsConfig struct {
	MaxWorkers    int
	QueueSize     int
	ShutdownGrace time.Duration
}

// Providers accepted in AI_PROVIDER.
const (
	ProviderBedrock   = "bedrock"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderGemini    = "gemini"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("SERVER_FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "6m")
	v.SetDefault("SERVER_MAX_DIFF_BYTES", 1<<20)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stdout")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USERNAME", "postgres")
	v.SetDefault("DB_DATABASE", "audit_ai")
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	v.SetDefault("GITHUB_OAUTH_SCOPES", "repo")

	v.SetDefault("AUTH_TOKEN_TTL", "12h")

	v.SetDefault("AI_PROVIDER", ProviderBedrock)
	v.SetDefault("AWS_REGION", "us-west-2")
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")

	v.SetDefault("REVIEW_MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0")
	v.SetDefault("REVIEW_MAX_TOKENS", 2048)
	v.SetDefault("REVIEW_TEMPERATURE", 0.5)
	v.SetDefault("REVIEW_TOP_P", 0.9)
	v.SetDefault("REVIEW_REASONING_MODEL_ID", "us.anthropic.claude-3-7-sonnet-20250219-v1:0")
	v.SetDefault("REVIEW_REASONING_BUDGET", 2000)
	v.SetDefault("REVIEW_REASONING_TEMPERATURE", 1.0)
	v.SetDefault("REVIEW_VALIDATE_FINDINGS", true)
	v.SetDefault("REVIEW_TIMEOUT", "5m")

	v.SetDefault("RETRY_MAX_ATTEMPTS", 0)
	v.SetDefault("RETRY_DELAY", "15s")
	v.SetDefault("RETRY_BACKOFF", "fixed")
	v.SetDefault("RETRY_MAX_DELAY", "2m")
	v.SetDefault("RETRY_MAX_ELAPSED", "0s")
	v.SetDefault("RETRY_MODE", "all")

	v.SetDefault("JOBS_MAX_WORKERS", 4)
	v.SetDefault("JOBS_QUEUE_SIZE", 100)
	v.SetDefault("JOBS_SHUTDOWN_GRACE", "30s")
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates the result. Settings that only the HTTP
// server needs (OAuth client, JWT secret) are checked by ValidateServer.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			slog.Error("failed to read config file", "error", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadServerConfig loads the configuration and additionally requires the
// settings of the HTTP service.
func LoadServerConfig() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateServer(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			FrontendURL:  strings.TrimSuffix(v.GetString("SERVER_FRONTEND_URL"), "/"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			MaxDiffBytes: v.GetInt64("SERVER_MAX_DIFF_BYTES"),
		},
		Logging: logger.Config{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		Database: DBConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Username:        v.GetString("DB_USERNAME"),
			Password:        v.GetString("DB_PASSWORD"),
			Database:        v.GetString("DB_DATABASE"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		GitHub: GitHubConfig{
			ClientID:     v.GetString("GITHUB_CLIENT_ID"),
			ClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
			Scopes:       splitList(v.GetString("GITHUB_OAUTH_SCOPES")),
			Token:        v.GetString("GITHUB_TOKEN"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
			TokenTTL:  v.GetDuration("AUTH_TOKEN_TTL"),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(v.GetString("AI_PROVIDER")),
			AWSRegion:       v.GetString("AWS_REGION"),
			AWSAccessKey:    v.GetString("AWS_ACCESS"),
			AWSSecretKey:    v.GetString("AWS_SECRET"),
			AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
			OllamaHost:      v.GetString("OLLAMA_HOST"),
			GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
		},
		Review: ReviewConfig{
			ModelID:              v.GetString("REVIEW_MODEL_ID"),
			MaxTokens:            v.GetInt("REVIEW_MAX_TOKENS"),
			Temperature:          v.GetFloat64("REVIEW_TEMPERATURE"),
			TopP:                 v.GetFloat64("REVIEW_TOP_P"),
			ReasoningModelID:     v.GetString("REVIEW_REASONING_MODEL_ID"),
			ReasoningBudget:      v.GetInt("REVIEW_REASONING_BUDGET"),
			ReasoningTemperature: v.GetFloat64("REVIEW_REASONING_TEMPERATURE"),
			ValidateFindings:     v.GetBool("REVIEW_VALIDATE_FINDINGS"),
			Timeout:              v.GetDuration("REVIEW_TIMEOUT"),
		},
		Retry: RetryConfig{
			MaxAttempts: v.GetInt("RETRY_MAX_ATTEMPTS"),
			Delay:       v.GetDuration("RETRY_DELAY"),
			Backoff:     strings.ToLower(v.GetString("RETRY_BACKOFF")),
			MaxDelay:    v.GetDuration("RETRY_MAX_DELAY"),
			MaxElapsed:  v.GetDuration("RETRY_MAX_ELAPSED"),
			Mode:        strings.ToLower(v.GetString("RETRY_MODE")),
		},
		Jobs: JobsConfig{
			MaxWorkers:    v.GetInt("JOBS_MAX_WORKERS"),
			QueueSize:     v.GetInt("JOBS_QUEUE_SIZE"),
			ShutdownGrace: v.GetDuration("JOBS_SHUTDOWN_GRACE"),
		},
	}
}

// Validate checks the settings shared by every binary.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.AI.Validate(),
		c.Review.Validate(),
		c.Retry.Validate(),
		c.validateLogging(),
	)
}

// ValidateServer checks the settings only the HTTP service needs.
func (c *Config) ValidateServer() error {
	var errs criterio.FieldErrorsBuilder
	if c.GitHub.ClientID == "" {
		errs = errs.Append("GITHUB_CLIENT_ID", fmt.Errorf("must be set"))
	}
	if c.GitHub.ClientSecret == "" {
		errs = errs.Append("GITHUB_CLIENT_SECRET", fmt.Errorf("must be set"))
	}
	if len(c.Auth.JWTSecret) < minJWTSecretLength {
		errs = errs.Append("AUTH_JWT_SECRET", fmt.Errorf("must be at least %d bytes", minJWTSecretLength))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = errs.Append("AUTH_TOKEN_TTL", fmt.Errorf("must be positive"))
	}
	if c.Server.Port == "" {
		errs = errs.Append("SERVER_PORT", fmt.Errorf("must be set"))
	}
	if c.Server.MaxDiffBytes < 0 {
		errs = errs.Append("SERVER_MAX_DIFF_BYTES", fmt.Errorf("cannot be negative"))
	}
	if c.Jobs.MaxWorkers < 1 {
		errs = errs.Append("JOBS_MAX_WORKERS", fmt.Errorf("must be at least 1"))
	}
	if c.Jobs.QueueSize < 1 {
		errs = errs.Append("JOBS_QUEUE_SIZE", fmt.Errorf("must be at least 1"))
	}
	if c.Jobs.ShutdownGrace < 0 {
		errs = errs.Append("JOBS_SHUTDOWN_GRACE", fmt.Errorf("cannot be negative"))
	}
	return errs.ToError()
}

// Validate checks the backend selection and its credentials.
func (c AIConfig) Validate() error {
	var errs criterio.FieldErrorsBuilder
	switch c.Provider {
	case ProviderBedrock:
		if c.AWSRegion == "" {
			errs = errs.Append("AWS_REGION", fmt.Errorf("must be set for the bedrock provider"))
		}
		if (c.AWSAccessKey == "") != (c.AWSSecretKey == "") {
			errs = errs.Append("AWS_ACCESS", fmt.Errorf("AWS_ACCESS and AWS_SECRET must be set together"))
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			errs = errs.Append("ANTHROPIC_API_KEY", fmt.Errorf("must be set for the anthropic provider"))
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = errs.Append("GEMINI_API_KEY", fmt.Errorf("must be set for the gemini provider"))
		}
	case ProviderOllama:
		if c.OllamaHost == "" {
			errs = errs.Append("OLLAMA_HOST", fmt.Errorf("must be set for the ollama provider"))
		}
	default:
		errs = errs.Append("AI_PROVIDER", fmt.Errorf("unsupported provider %q", c.Provider))
	}
	return errs.ToError()
}

// Validate checks the review call site parameters.
func (c ReviewConfig) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if c.ModelID == "" {
		errs = errs.Append("REVIEW_MODEL_ID", fmt.Errorf("must be set"))
	}
	if c.MaxTokens <= 0 {
		errs = errs.Append("REVIEW_MAX_TOKENS", fmt.Errorf("must be positive"))
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		errs = errs.Append("REVIEW_TEMPERATURE", fmt.Errorf("must be between 0 and 1"))
	}
	if c.TopP <= 0 || c.TopP > 1 {
		errs = errs.Append("REVIEW_TOP_P", fmt.Errorf("must be in (0, 1]"))
	}
	if c.ReasoningBudget < 0 {
		errs = errs.Append("REVIEW_REASONING_BUDGET", fmt.Errorf("cannot be negative"))
	}
	if c.ReasoningTemperature < 0 || c.ReasoningTemperature > 1 {
		errs = errs.Append("REVIEW_REASONING_TEMPERATURE", fmt.Errorf("must be between 0 and 1"))
	}
	if c.Timeout < 0 {
		errs = errs.Append("REVIEW_TIMEOUT", fmt.Errorf("cannot be negative"))
	}
	return errs.ToError()
}

// Validate checks the retry policy settings.
func (c RetryConfig) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if c.MaxAttempts < 0 {
		errs = errs.Append("RETRY_MAX_ATTEMPTS", fmt.Errorf("cannot be negative"))
	}
	if c.Delay < 0 {
		errs = errs.Append("RETRY_DELAY", fmt.Errorf("cannot be negative"))
	}
	if c.Backoff != "fixed" && c.Backoff != "exponential" {
		errs = errs.Append("RETRY_BACKOFF", fmt.Errorf("must be fixed or exponential, got %q", c.Backoff))
	}
	if c.MaxElapsed < 0 {
		errs = errs.Append("RETRY_MAX_ELAPSED", fmt.Errorf("cannot be negative"))
	}
	if c.Mode != "all" && c.Mode != "transient" {
		errs = errs.Append("RETRY_MODE", fmt.Errorf("must be all or transient, got %q", c.Mode))
	}
	return errs.ToError()
}

func (c *Config) validateLogging() error {
	var errs criterio.FieldErrorsBuilder
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		errs = errs.Append("LOG_LEVEL", fmt.Errorf("unrecognized level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = errs.Append("LOG_FORMAT", fmt.Errorf("must be text or json, got %q", c.Logging.Format))
	}
	return errs.ToError()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
