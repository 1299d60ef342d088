package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// GitHub (optional — discovery and submission need it, scoring does not)
	GitHubToken string `envconfig:"GITHUB_TOKEN"`

	// Client-side throttle for GitHub API calls, on top of the retry policy.
	GitHubRPS   float64 `envconfig:"GITHUB_RPS" default:"2"`
	GitHubBurst int     `envconfig:"GITHUB_BURST" default:"5"`

	// Cache for per-repo lookups (readme, languages, contributors).
	GitHubCacheSize int `envconfig:"GITHUB_CACHE_SIZE" default:"256"`

	// Anthropic (optional — analysis degrades to rule-based without it)
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `envconfig:"ANTHROPIC_MODEL" default:"claude-3-haiku-20240307"`

	// Persistence
	DataDir         string `envconfig:"DATA_DIR" default:"data"`
	PreferencesPath string `envconfig:"PREFERENCES_PATH" default:"data/user_preferences.json"`

	// Discovery
	DiscoveryConfigPath string `envconfig:"DISCOVERY_CONFIG_PATH"` // optional YAML query sets
	MaxResults          int    `envconfig:"MAX_RESULTS" default:"20"`

	// Retry policy for outbound network operations
	RetryMaxAttempts int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	RetryBaseDelay   time.Duration `envconfig:"RETRY_BASE_DELAY" default:"1s"`

	// Simulation
	SimulationDays int `envconfig:"SIMULATION_DAYS" default:"7"`

	// Feedback API
	APIListenAddr string `envconfig:"API_LISTEN_ADDR" default:":8080"`
}

// GitHubEnabled returns true if a GitHub token is configured.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubToken != ""
}

// LLMEnabled returns true if Anthropic credentials are configured.
func (c *Config) LLMEnabled() bool {
	return c.AnthropicAPIKey != ""
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}
