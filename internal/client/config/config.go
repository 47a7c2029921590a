package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the client-side settings: where the backend lives, the
// Gemini key for on-device analysis, and the local credential database.
type Config struct {
	APIBaseURL   string `env:"AISLESCAN_API_URL, default=http://localhost:3000"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	CredDBPath   string `env:"AISLESCAN_DB, default=aislescan.db"`
	LogLevel     string `env:"LOG_LEVEL, default=info"`
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
