package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Session backends understood by SESSION_BACKEND.
const (
	SessionMemory   = "memory"
	SessionRedis    = "redis"
	SessionPostgres = "postgres"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port             string `env:"PORT"                 envDefault:"8080"`
	ReadTimeoutSecs  int    `env:"SERVER_READ_TIMEOUT"  envDefault:"15"`
	WriteTimeoutSecs int    `env:"SERVER_WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeoutSecs  int    `env:"SERVER_IDLE_TIMEOUT"  envDefault:"60"`

	SessionBackend string `env:"SESSION_BACKEND"  envDefault:"memory"`
	SessionKey     string `env:"SESSION_KEY"      envDefault:"currentUser"`
	SessionTTLSecs int    `env:"SESSION_TTL_SECS" envDefault:"0"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB"         envDefault:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"session:"`

	DBURL             string `env:"DB_URL"`
	DBMaxConns        int    `env:"DB_MAX_CONNS"                envDefault:"20"`
	DBMinConns        int    `env:"DB_MIN_CONNS"                envDefault:"2"`
	DBMaxIdleSecs     int    `env:"DB_MAX_CONN_IDLE_SECS"       envDefault:"300"`
	DBMaxLifeSecs     int    `env:"DB_MAX_CONN_LIFETIME_SECS"   envDefault:"3600"`
	DBConnTimeoutSecs int    `env:"DB_CONN_TIMEOUT_SECS"        envDefault:"10"`
	DBStatementCache  int    `env:"DB_STATEMENT_CACHE_CAPACITY" envDefault:"256"`

	CatalogSeedPath  string `env:"CATALOG_SEED_PATH"`
	SeedSampleUser   bool   `env:"SEED_SAMPLE_USER"   envDefault:"true"`
	SimulatedLatency bool   `env:"SIMULATED_LATENCY"  envDefault:"false"`
	BcryptCost       int    `env:"BCRYPT_COST"        envDefault:"10"`
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (cfg Config) Validate() error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.SessionKey == "" {
		return fmt.Errorf("SESSION_KEY must not be empty")
	}
	if cfg.SessionTTLSecs < 0 {
		return fmt.Errorf("SESSION_TTL_SECS must be non-negative")
	}

	switch cfg.SessionBackend {
	case SessionMemory:
	case SessionRedis:
		if cfg.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_BACKEND=redis")
		}
	case SessionPostgres:
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when SESSION_BACKEND=postgres")
		}
		if cfg.DBMaxConns <= 0 {
			return fmt.Errorf("DB_MAX_CONNS must be positive")
		}
		if cfg.DBMinConns < 0 {
			return fmt.Errorf("DB_MIN_CONNS must be non-negative")
		}
		if cfg.DBMinConns > cfg.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
		}
		if cfg.DBStatementCache < 0 {
			return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of memory, redis, postgres; got %q", cfg.SessionBackend)
	}

	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	return nil
}
