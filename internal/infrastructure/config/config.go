package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported inference backends
const (
	BackendSageMaker = "sagemaker"
	BackendContainer = "container"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Endpoint EndpointConfig `mapstructure:"endpoint"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Model    ModelConfig    `mapstructure:"model"`
	Log      LogConfig      `mapstructure:"log"`
}

// AppConfig identifies the running build
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// EndpointConfig describes the remote inference endpoint.
// BaseURL is the container URL for the container backend and an optional
// endpoint override (e.g. localstack) for the sagemaker backend.
type EndpointConfig struct {
	Backend         string        `mapstructure:"backend"`
	Name            string        `mapstructure:"name"`
	Region          string        `mapstructure:"region"`
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
}

// RetryConfig controls the retry loop around endpoint invocations
type RetryConfig struct {
	MaxAttempts   int           `mapstructure:"max_attempts"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
	SlowPause     time.Duration `mapstructure:"slow_pause"`
	BackoffUnit   time.Duration `mapstructure:"backoff_unit"`
}

// ModelConfig holds model-specific input constraints
type ModelConfig struct {
	FeatureCount int `mapstructure:"feature_count"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Address returns the host:port the HTTP server listens on
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from defaults, an optional config file and
// PREDICT_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("PREDICT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "shopper-predict")
	v.SetDefault("app.version", "v3.0-cicd")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("endpoint.backend", BackendSageMaker)
	v.SetDefault("endpoint.name", "shoppers-xgboost-endpoint")
	v.SetDefault("endpoint.region", "us-west-2")
	v.SetDefault("endpoint.base_url", "")
	v.SetDefault("endpoint.timeout", 30*time.Second)
	v.SetDefault("endpoint.access_key_id", "")
	v.SetDefault("endpoint.secret_access_key", "")

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.slow_threshold", 5*time.Second)
	v.SetDefault("retry.slow_pause", time.Second)
	v.SetDefault("retry.backoff_unit", time.Second)

	v.SetDefault("model.feature_count", 17)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
}

// Validate rejects configurations the service cannot run with.
// An empty endpoint name is allowed: the service starts and reports not ready.
func (c *Config) Validate() error {
	switch c.Endpoint.Backend {
	case BackendSageMaker:
	case BackendContainer:
		if c.Endpoint.BaseURL == "" {
			return errors.New("endpoint.base_url is required for the container backend")
		}
	default:
		return fmt.Errorf("unsupported endpoint.backend %q", c.Endpoint.Backend)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.SlowThreshold <= 0 {
		return errors.New("retry.slow_threshold must be positive")
	}
	if c.Retry.SlowPause < 0 || c.Retry.BackoffUnit < 0 {
		return errors.New("retry pauses must not be negative")
	}
	if c.Model.FeatureCount < 1 {
		return fmt.Errorf("model.feature_count must be at least 1, got %d", c.Model.FeatureCount)
	}

	return nil
}
