// Package config loads the service configuration from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the immutable process configuration, read once at startup.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Users UsersConfig
	HTTP  HTTPConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=720h"`
	// HashWorkers bounds concurrent bcrypt work; 0 means GOMAXPROCS.
	HashWorkers int `env:"HASH_WORKERS, default=0"`
}

type UsersConfig struct {
	ItemsPerPage int    `env:"ITEMS_PER_PAGE, default=10"`
	ListURL      string `env:"LIST_USER_URL,  default=/api/v1/user/list/"`
}

type HTTPConfig struct {
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,       default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,        default=user_service"`
	MaxPoolSize uint64 `env:"MONGO_POOL_SIZE, default=0"`
}

// RedisConfig leaves Addr empty to run without the lookup cache.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,  default=0"`
	CacheTTL time.Duration `env:"CACHE_TTL, default=5m"`
}

// Development reports whether the service runs in the development
// environment, where internal error details are exposed to clients.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Users.ItemsPerPage <= 0 {
		errs = append(errs, errors.New("ITEMS_PER_PAGE must be positive"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.HashWorkers < 0 {
		errs = append(errs, errors.New("HASH_WORKERS must not be negative"))
	}
	return errors.Join(errs...)
}
