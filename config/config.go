package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Chat widget relay specifics
	Chat     ChatConfig
	Fallback FallbackConfig
	Relay    RelayConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// ChatConfig holds configuration for the conversation client
// (the widget-side orchestration layer).
type ChatConfig struct {
	ProxyEndpoint string // relay worker URL; empty forces direct-only mode
	SystemPrompt  string
	Greeting      string
	ProxyTimeout  time.Duration
	DirectTimeout time.Duration
}

// FallbackConfig holds the direct completion API settings used when the
// proxy cannot be reached.
type FallbackConfig struct {
	APIKey      string // optional; discovered via credential sources when empty
	KeyFile     string // optional plain-text key file probed as a last resort
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// RelayConfig holds the relay worker's upstream completion settings and
// inbound abuse protection.
type RelayConfig struct {
	UpstreamAPIKey  string
	UpstreamBaseURL string
	UpstreamModel   string
	MaxTokens       int
	Temperature     float64
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Conversation client
	cfg.Chat.ProxyEndpoint = viper.GetString("chat.proxy_endpoint")
	cfg.Chat.SystemPrompt = viper.GetString("chat.system_prompt")
	cfg.Chat.Greeting = viper.GetString("chat.greeting")
	cfg.Chat.ProxyTimeout = parseDuration(viper.GetString("chat.proxy_timeout"), 8*time.Second)
	cfg.Chat.DirectTimeout = parseDuration(viper.GetString("chat.direct_timeout"), 12*time.Second)
	if endpoint := viper.GetString("chat_proxy_endpoint"); endpoint != "" {
		cfg.Chat.ProxyEndpoint = endpoint
	}

	// Fallback completion API
	cfg.Fallback.APIKey = expandEnvVar(viper.GetString("fallback.api_key"))
	cfg.Fallback.KeyFile = viper.GetString("fallback.key_file")
	cfg.Fallback.BaseURL = viper.GetString("fallback.base_url")
	cfg.Fallback.Model = viper.GetString("fallback.model")
	cfg.Fallback.MaxTokens = viper.GetInt("fallback.max_tokens")
	cfg.Fallback.Temperature = viper.GetFloat64("fallback.temperature")
	if key := viper.GetString("openai_api_key"); key != "" && cfg.Fallback.APIKey == "" {
		cfg.Fallback.APIKey = key
	}

	// Relay worker
	cfg.Relay.UpstreamAPIKey = expandEnvVar(viper.GetString("relay.upstream_api_key"))
	cfg.Relay.UpstreamBaseURL = viper.GetString("relay.upstream_base_url")
	cfg.Relay.UpstreamModel = viper.GetString("relay.upstream_model")
	cfg.Relay.MaxTokens = viper.GetInt("relay.max_tokens")
	cfg.Relay.Temperature = viper.GetFloat64("relay.temperature")
	cfg.Relay.RateLimitPerMin = viper.GetInt("relay.rate_limit_per_min")
	if key := viper.GetString("relay_upstream_api_key"); key != "" {
		cfg.Relay.UpstreamAPIKey = key
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	// Conversation client defaults
	viper.SetDefault("chat.proxy_timeout", "8s")
	viper.SetDefault("chat.direct_timeout", "12s")

	// Fallback completion defaults
	viper.SetDefault("fallback.model", "gpt-4o-mini")
	viper.SetDefault("fallback.max_tokens", 500)
	viper.SetDefault("fallback.temperature", 0.2)

	// Relay defaults
	viper.SetDefault("relay.upstream_model", "gpt-4o-mini")
	viper.SetDefault("relay.max_tokens", 500)
	viper.SetDefault("relay.temperature", 0.2)
	viper.SetDefault("relay.rate_limit_per_min", 60)
}

// parseDuration parses a duration string, falling back to def on empty
// or malformed input.
func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}
