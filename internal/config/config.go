package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr string
		Mode string // debug or release
	}
	Store struct {
		Driver     string // sqlite, postgres or memory (standalone mode)
		DSN        string
		Standalone bool // seed the in-memory store with the demo dataset
	}
	Cache struct {
		Backend       string // memory or redis
		RedisAddr     string
		SweepInterval time.Duration
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
	RateLimit struct {
		PerSecond float64
		Burst     int
	}
	Sentry struct {
		DSN string
	}
	Tracing struct {
		Endpoint string
	}
}

// Load reads config.yaml (optional) plus IDEOSPHERE_* environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("ideosphere")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// no file: defaults + env only
	}

	cfg := &Config{}
	cfg.Server.Addr = v.GetString("server.addr")
	cfg.Server.Mode = v.GetString("server.mode")
	cfg.Store.Driver = v.GetString("store.driver")
	cfg.Store.DSN = v.GetString("store.dsn")
	cfg.Store.Standalone = v.GetBool("store.standalone")
	cfg.Cache.Backend = v.GetString("cache.backend")
	cfg.Cache.RedisAddr = v.GetString("cache.redis_addr")
	cfg.Cache.SweepInterval = v.GetDuration("cache.sweep_interval")
	cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	cfg.RateLimit.PerSecond = v.GetFloat64("rate_limit.per_second")
	cfg.RateLimit.Burst = v.GetInt("rate_limit.burst")
	cfg.Sentry.DSN = v.GetString("sentry.dsn")
	cfg.Tracing.Endpoint = v.GetString("tracing.endpoint")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "ideosphere.db")
	v.SetDefault("store.standalone", false)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.sweep_interval", 5*time.Minute)
	v.SetDefault("auth.jwt_secret", "dev-secret-change-me")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("rate_limit.per_second", 20.0)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("tracing.endpoint", "")
}
