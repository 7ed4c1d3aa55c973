package cmd

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/access"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable Config reads, e.g. DISPATCH_HTTP_PORT.
const EnvPrefix = "DISPATCH"

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"dispatch"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"dispatch"`
	DBName     string `envconfig:"DB_NAME" default:"dispatch"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer string `envconfig:"JWT_ISSUER" default:"dispatch"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"600"`

	StaleAssignmentTimeout time.Duration `envconfig:"STALE_ASSIGNMENT_TIMEOUT" default:"30m"`
	SystemRole             string        `envconfig:"SYSTEM_ROLE" default:"supervisor"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// LoadConfig reads an optional .env file, then the environment.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, err
	}
	if _, err := cfg.SystemActorRole(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN builds the PostgreSQL URL used by both gorm and the migrator.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return u.String()
}

// SystemActorRole is the role background jobs act as.
func (c Config) SystemActorRole() (access.Role, error) {
	role, err := access.ParseRole(c.SystemRole)
	if err != nil {
		return access.RoleUnknown, fmt.Errorf("%s_SYSTEM_ROLE: %w", EnvPrefix, err)
	}
	return role, nil
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%s_LOG_LEVEL: %w", EnvPrefix, err)
	}
	return level, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
