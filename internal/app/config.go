package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the service.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOGLEVEL" default:"debug"`

	MongoURI string `envconfig:"MONGO_URI" default:"mongodb://127.0.0.1:27017"`
	MongoDB  string `envconfig:"MONGO_DB" default:"ease_mdlwr"`

	JWTSecretKey string `envconfig:"JWT_SECRET_KEY" required:"true"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	TokenCacheTTL time.Duration `envconfig:"TOKEN_CACHE_TTL" default:"12h"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt secret key must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the service runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
