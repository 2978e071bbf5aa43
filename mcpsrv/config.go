package mcpsrv

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const envPrefix = "CATADMIN_MCP"

type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS"`
	Stateless      bool          `envconfig:"STATELESS" default:"false"`
	EnableAdmin    bool          `envconfig:"ENABLE_ADMIN" default:"false"`
	APIKey         string        `envconfig:"API_KEY"`
	RPS            float64       `envconfig:"RPS" default:"2"`
	Burst          int           `envconfig:"BURST" default:"5"`
	SessionTimeout time.Duration `envconfig:"SESSION_TIMEOUT" default:"15m"`
}

// LoadConfig reads CATADMIN_MCP_* settings. Values that parse but make no
// sense fall back to the defaults.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.RPS <= 0 {
		cfg.RPS = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	return cfg, nil
}

// AdminEnabled reports whether the mutating tools are registered. They
// need both the flag and an API key guarding the endpoint.
func (c Config) AdminEnabled() bool {
	return c.EnableAdmin && c.APIKey != ""
}

func StreamableOptions(cfg Config) *mcp.StreamableHTTPOptions {
	return &mcp.StreamableHTTPOptions{
		Stateless:      cfg.Stateless,
		SessionTimeout: cfg.SessionTimeout,
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
