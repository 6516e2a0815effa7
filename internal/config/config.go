package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds environment-driven configuration for both binaries.
type Config struct {
	APIAddr string `envconfig:"API_ADDR" default:":4000"`
	AppAddr string `envconfig:"APP_ADDR" default:":8080"`

	Store       string `envconfig:"STORE" default:"postgres"`
	DatabaseURL string `envconfig:"DB_URL"`
	DBDriver    string `envconfig:"DB_DRIVER" default:"pgx"`

	AllowedGenders []string `envconfig:"ALLOWED_GENDERS" default:"男性"`

	APIURL     string        `envconfig:"API_URL" default:"http://localhost:4000/graphql"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"30m"`

	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Env          string `envconfig:"ENV" default:"dev"`
}

// Load reads a .env file when present, then environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	if c.APITimeout <= 0 {
		return Config{}, errors.New("API_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return Config{}, errors.New("SESSION_TTL must be positive")
	}
	return c, nil
}

// ValidateStore checks the settings the API process needs to reach its store.
func (c Config) ValidateStore() error {
	switch c.Store {
	case StoreMemory:
		return nil
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DB_URL is not set")
		}
		return nil
	default:
		return errors.New("STORE must be postgres or memory")
	}
}
