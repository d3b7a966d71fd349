package app

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/autostream-assistant/server/internal/agent/model"
	"github.com/autostream-assistant/server/internal/core"
	pkgredis "github.com/autostream-assistant/server/pkg/redis"
)

// Config defines all configurable parameters of the assistant, sourced from
// environment variables (loaded from .env for local runs).
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config `envconfig:"REDIS"`
	NATS  model.NATSConfig

	// LLM provider; only needed for the model classifier or embeddings
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Classifier   model.ClassifierConfig
	Conversation model.ConversationConfig
	Knowledge    model.KnowledgeConfig
	Leads        model.LeadSinkConfig
	Metrics      model.MetricsConfig
}

func (c *Config) Environment() core.Environment {
	return core.ParseEnvironment(c.Env)
}

// LoadConfig reads envFile when present and processes the environment.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		// a missing file is fine, the environment alone may be enough
		_ = godotenv.Load(envFile)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}
