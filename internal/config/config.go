package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Identity modes accepted by IDENTITY_MODE.
const (
	IdentityModeHeader = "header"
	IdentityModeToken  = "token"
)

// Common holds settings shared by both services
type Common struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"0s"`
	BodyLimit      string        `env:"BODY_LIMIT" envDefault:"1M"`
	IdentityMode   string        `env:"IDENTITY_MODE" envDefault:"header"`
	JWTSecret      string        `env:"JWT_SECRET"`
}

// AccountsConfig configures the accounts service
type AccountsConfig struct {
	Common
	Port             string        `env:"PORT" envDefault:"8001"`
	ProtectedUserIDs []int64       `env:"PROTECTED_USER_IDS" envDefault:"1,2" envSeparator:","`
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"10"`
	TokenTTL         time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Login throttling is enabled only when RedisAddr is set
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	LoginMaxFailures int           `env:"LOGIN_MAX_FAILURES" envDefault:"5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT" envDefault:"15m"`
}

// PurchasesConfig configures the purchases service
type PurchasesConfig struct {
	Common
	Port string `env:"PORT" envDefault:"8002"`
}

// LoadAccounts reads the accounts configuration from the environment
func LoadAccounts() (*AccountsConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &AccountsConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse accounts config: %w", err)
	}
	if err := cfg.Common.validate(); err != nil {
		return nil, err
	}
	if cfg.LoginMaxFailures <= 0 {
		return nil, fmt.Errorf("LOGIN_MAX_FAILURES must be positive, got %d", cfg.LoginMaxFailures)
	}
	return cfg, nil
}

// LoadPurchases reads the purchases configuration from the environment
func LoadPurchases() (*PurchasesConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &PurchasesConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse purchases config: %w", err)
	}
	if err := cfg.Common.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Common) validate() error {
	switch c.IdentityMode {
	case IdentityModeHeader:
	case IdentityModeToken:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when IDENTITY_MODE=%s", IdentityModeToken)
		}
	default:
		return fmt.Errorf("unknown IDENTITY_MODE %q (use %q or %q)", c.IdentityMode, IdentityModeHeader, IdentityModeToken)
	}
	return nil
}

// loadDotEnv loads .env when present; real environment variables win.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}
