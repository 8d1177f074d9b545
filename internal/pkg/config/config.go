package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT      JWTConfig
	Cookie   CookieConfig
	Security SecurityConfig

	MySQL   MySQLConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	Audit   AuditConfig
}

type JWTConfig struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET,  required"`
	AccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY,  default=15m"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET, required"`
	RefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY, default=168h"`
	Issuer        string        `env:"JWT_ISSUER,         default=blog-api"`
}

type CookieConfig struct {
	Secure bool `env:"COOKIE_SECURE, default=true"`
}

type SecurityConfig struct {
	BcryptCost int `env:"BCRYPT_COST, default=10"`
}

type MySQLConfig struct {
	DSN string `env:"MYSQL_DSN, default=root:root@tcp(localhost:3306)/blog?parseTime=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog_audit"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SessionConfig struct {
	CacheTTL time.Duration `env:"SESSION_CACHE_TTL, default=5m"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.JWT.AccessSecret == cfg.JWT.RefreshSecret {
		return nil, fmt.Errorf("config: JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	return &cfg, nil
}
