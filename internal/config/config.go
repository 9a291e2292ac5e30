package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime configuration. Values come from the
// environment, optionally seeded from a .env file in the working
// directory.
type Config struct {
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" required:"true"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"dreamweaver.db"`
	HTTPPort     string `envconfig:"HTTP_PORT" default:"8080"`

	// Per-call deadline for every Gemini request. A hung provider call
	// would otherwise hold the busy flags forever.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`

	AnalysisModel string `envconfig:"ANALYSIS_MODEL" default:"gemini-2.5-flash"`
	ImageModel    string `envconfig:"IMAGE_MODEL" default:"gemini-2.5-flash-image"`
	ChatModel     string `envconfig:"CHAT_MODEL" default:"gemini-2.5-flash"`
}

// Load reads the .env file if present and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine, rely on the environment

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}
