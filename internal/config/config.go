// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ericfisherdev/bookshelf/internal/domain/model"
)

// minSecretLen is the shortest accepted signing secret, in bytes. HMAC keys
// shorter than the hash output weaken HS256.
const minSecretLen = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr     string
	DBPath         string
	SecretKey      []byte
	TokenAlgorithm string
	TokenTTL       time.Duration
	StoreTimeout   time.Duration
	AdminUsername  string
	AdminPassword  string
	CORSOrigins    []string
	Password       model.PasswordParams
}

// rawEnv holds raw env values before post-parse validation.
type rawEnv struct {
	ListenAddr      string        `env:"BOOKSHELF_LISTEN_ADDR"         envDefault:"127.0.0.1:8080"`
	DBPath          string        `env:"BOOKSHELF_DB_PATH"             envDefault:"bookshelf.db"`
	SecretKey       string        `env:"BOOKSHELF_SECRET_KEY"`
	TokenAlgorithm  string        `env:"BOOKSHELF_TOKEN_ALGORITHM"     envDefault:"HS256"`
	TokenTTL        time.Duration `env:"BOOKSHELF_TOKEN_TTL"           envDefault:"30m"`
	StoreTimeout    time.Duration `env:"BOOKSHELF_STORE_TIMEOUT"       envDefault:"5s"`
	AdminUsername   string        `env:"BOOKSHELF_ADMIN_USERNAME"      envDefault:"admin"`
	AdminPassword   string        `env:"BOOKSHELF_ADMIN_PASSWORD"      envDefault:"admin123"`
	CORSOrigins     []string      `env:"BOOKSHELF_CORS_ORIGINS"        envDefault:"*" envSeparator:","`
	PasswordMemory  uint32        `env:"BOOKSHELF_PASSWORD_MEMORY_KIB" envDefault:"65536"`
	PasswordTime    uint32        `env:"BOOKSHELF_PASSWORD_TIME"       envDefault:"3"`
	PasswordThreads uint8         `env:"BOOKSHELF_PASSWORD_THREADS"    envDefault:"2"`
}

// Load reads configuration from environment variables and returns a validated Config.
// BOOKSHELF_SECRET_KEY is required and must be at least 32 bytes; every
// instance sharing a store must use the same value or tokens will not verify
// across instances. All other variables have defaults.
func Load() (*Config, error) {
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	secret := strings.TrimSpace(raw.SecretKey)
	if secret == "" {
		return nil, fmt.Errorf("BOOKSHELF_SECRET_KEY is required")
	}
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("BOOKSHELF_SECRET_KEY must be at least %d bytes", minSecretLen)
	}

	algorithm := strings.ToUpper(strings.TrimSpace(raw.TokenAlgorithm))
	switch algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("BOOKSHELF_TOKEN_ALGORITHM %q is not supported (HS256, HS384, HS512)", raw.TokenAlgorithm)
	}

	if raw.TokenTTL < 0 {
		return nil, fmt.Errorf("BOOKSHELF_TOKEN_TTL must not be negative, got %s", raw.TokenTTL)
	}
	if raw.StoreTimeout < 0 {
		return nil, fmt.Errorf("BOOKSHELF_STORE_TIMEOUT must not be negative, got %s", raw.StoreTimeout)
	}

	adminUsername := strings.TrimSpace(raw.AdminUsername)
	if adminUsername == "" {
		return nil, fmt.Errorf("BOOKSHELF_ADMIN_USERNAME must not be empty")
	}
	if raw.AdminPassword == "" {
		return nil, fmt.Errorf("BOOKSHELF_ADMIN_PASSWORD must not be empty")
	}

	if raw.PasswordMemory == 0 || raw.PasswordTime == 0 || raw.PasswordThreads == 0 {
		return nil, fmt.Errorf("BOOKSHELF_PASSWORD_* cost parameters must be positive")
	}

	var origins []string
	for _, o := range raw.CORSOrigins {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	if origins == nil {
		origins = []string{}
	}

	return &Config{
		ListenAddr:     raw.ListenAddr,
		DBPath:         raw.DBPath,
		SecretKey:      []byte(secret),
		TokenAlgorithm: algorithm,
		TokenTTL:       raw.TokenTTL,
		StoreTimeout:   raw.StoreTimeout,
		AdminUsername:  adminUsername,
		AdminPassword:  raw.AdminPassword,
		CORSOrigins:    origins,
		Password: model.PasswordParams{
			Memory:  raw.PasswordMemory,
			Time:    raw.PasswordTime,
			Threads: raw.PasswordThreads,
		},
	}, nil
}
