package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when OPENAI_API_KEY is absent. The service
// must not start without a credential.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is not set")

type Config struct {
	Server ServerConfig
	OpenAI OpenAIConfig
	App    AppConfig
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type AppConfig struct {
	ReportsDir     string
	MaxUploadBytes int64
}

// Load reads configuration from the environment. Everything except the API
// key has a default. The reports directory is created here so a bad path
// fails at startup rather than on the first request.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("OPENAI_TIMEOUT", "2m")
	v.SetDefault("REPORTS_DIR", "reports")
	v.SetDefault("MAX_UPLOAD_BYTES", int64(10*1024*1024)) // 10MB

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Addr:            v.GetString("SERVER_ADDR"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			BaseURL: v.GetString("OPENAI_BASE_URL"),
			Model:   v.GetString("OPENAI_MODEL"),
			Timeout: v.GetDuration("OPENAI_TIMEOUT"),
		},
		App: AppConfig{
			ReportsDir:     v.GetString("REPORTS_DIR"),
			MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		},
	}

	if cfg.OpenAI.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if err := os.MkdirAll(cfg.App.ReportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory %s: %w", cfg.App.ReportsDir, err)
	}

	return cfg, nil
}
