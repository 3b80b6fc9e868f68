package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port int    `env:"PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL       string        `env:"DATABASE_URL,required,notEmpty"`
	ReplicaURLs       []string      `env:"DATABASE_REPLICA_URLS" envSeparator:","`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBQueryTimeout    time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`

	ReadTimeoutSeconds  int `env:"READ_TIMEOUT_SECONDS" envDefault:"30"`
	WriteTimeoutSeconds int `env:"WRITE_TIMEOUT_SECONDS" envDefault:"30"`
	IdleTimeoutSeconds  int `env:"IDLE_TIMEOUT_SECONDS" envDefault:"120"`

	AcceptedOrigins []string `env:"ACCEPTED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Shared with the sign-in frontend, which mints the bearer tokens.
	AuthJWTSecret string `env:"AUTH_JWT_SECRET,required"`
	ServiceKey    string `env:"SERVICE_KEY"`

	// TrustProxy takes the client address from X-Real-IP / X-Forwarded-For.
	// Only enable it behind a reverse proxy that overwrites those headers.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	SubmitRatePerMinute int `env:"SUBMIT_RATE_PER_MINUTE" envDefault:"6"`
	SubmitRateBurst     int `env:"SUBMIT_RATE_BURST" envDefault:"3"`

	ResendAPIKey      string   `env:"RESEND_API_KEY"`
	ResendFromEmail   string   `env:"RESEND_FROM_EMAIL"`
	AdminNotifyEmails []string `env:"ADMIN_NOTIFY_EMAILS" envSeparator:","`

	GenerateModels       bool `env:"GENERATE_MODELS" envDefault:"false"`
	GenerateColumnReport bool `env:"GENERATE_COLUMN_REPORT" envDefault:"false"`
}

// MinJWTSecretLength matches the HS256 key size.
const MinJWTSecretLength = 32

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.AuthJWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes long, got %d bytes",
			MinJWTSecretLength, len(cfg.AuthJWTSecret))
	}
	if cfg.DBQueryTimeout <= 0 {
		return nil, fmt.Errorf("DB_QUERY_TIMEOUT must be positive, got %s", cfg.DBQueryTimeout)
	}

	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr binds to all interfaces so the service is reachable from outside a container.
func (c Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

// NotificationsEnabled reports whether new submissions should be mailed to admins.
func (c Config) NotificationsEnabled() bool {
	return c.ResendAPIKey != "" && c.ResendFromEmail != "" && len(c.AdminNotifyEmails) > 0
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}
