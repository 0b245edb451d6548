package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// OAuth holds the per-provider settings needed to fetch a profile
// for an already-issued access token.
type OAuth struct {
	InfoURL string
}

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	DatabaseDSN string `env:"DATABASE_DSN,required"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	JWTSecretKey string `env:"JWT_SECRET_KEY,required"`

	GoogleInfoURL   string `env:"GOOGLE_INFO_URL" envDefault:"https://www.googleapis.com/oauth2/v1/userinfo"`
	FacebookInfoURL string `env:"FACEBOOK_INFO_URL" envDefault:"https://graph.facebook.com/me"`

	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"5s"`

	RolesCacheSize int `env:"ROLES_CACHE_SIZE" envDefault:"1024"`

	DBMaxOpenConns int `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Google returns the provider settings for Google sign-in.
func (c Config) Google() OAuth {
	return OAuth{InfoURL: c.GoogleInfoURL}
}

// Facebook returns the provider settings for Facebook sign-in.
func (c Config) Facebook() OAuth {
	return OAuth{InfoURL: c.FacebookInfoURL}
}
