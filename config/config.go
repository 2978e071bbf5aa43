package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "CATADMIN"

// Config holds the settings shared by the terminal client and the MCP servers.
type Config struct {
	APIBaseURL       string        `envconfig:"API_BASE_URL" default:"https://dummyjson.com"`
	APITimeout       time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	ProductsCategory string        `envconfig:"PRODUCTS_CATEGORY" default:"smartphones"`
	Locale           string        `envconfig:"LOCALE" default:"en"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile          string        `envconfig:"LOG_FILE" default:"catadmin.log"`

	// DotEnvLoaded reports whether a .env file was found and applied.
	DotEnvLoaded bool `ignored:"true"`
}

// Load reads an optional .env file and then the CATADMIN_* environment.
func Load() (Config, error) {
	loaded, err := LoadDotEnv()
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	cfg.DotEnvLoaded = loaded
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.APIBaseURL == "" {
		return Config{}, errors.New("CATADMIN_API_BASE_URL must not be empty")
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = 10 * time.Second
	}
	if strings.TrimSpace(cfg.ProductsCategory) == "" {
		cfg.ProductsCategory = "smartphones"
	}
	return cfg, nil
}

// LoadDotEnv applies ./.env if present. Variables already set in the
// environment win over the file.
func LoadDotEnv() (bool, error) {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load .env: %w", err)
	}
	return true, nil
}
