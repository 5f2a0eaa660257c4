// Package config loads process configuration from the environment, reading a
// local .env file first when one exists.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string `env:"PORT,default=8080"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
	ServiceVersion string `env:"SERVICE_VERSION,default=0.1.0"`

	PostgresURL     string        `env:"POSTGRES_URL,required"`
	MigrationsPath  string        `env:"MIGRATIONS_PATH,default=file://migrations"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=25"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=5m"`

	KafkaBrokers     string `env:"KAFKA_BROKERS"`
	OrderEventsTopic string `env:"ORDER_EVENTS_TOPIC,default=order.checked_out"`

	TracingEnabled bool   `env:"TRACING_ENABLED,default=true"`
	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT,default=localhost:4317"`

	TokenSecret  string        `env:"AUTH_TOKEN_SECRET"`
	TokenTTL     time.Duration `env:"AUTH_TOKEN_TTL,default=24h"`
	TrustHeaders string        `env:"AUTH_TRUST_HEADERS"`

	// TrustIdentityHeaders accepts X-Admin-Id/X-User-Id as identity. Only safe
	// behind a proxy that strips them from client requests. Unless
	// AUTH_TRUST_HEADERS says otherwise it is on only when no token secret is
	// configured.
	TrustIdentityHeaders bool

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=40"`

	BootstrapAdminUsername string `env:"BOOTSTRAP_ADMIN_USERNAME,default=admin"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD,default=admin"`
	BootstrapAdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL,default=admin"`
}

// NotifierConfig is the subset read by the order notifier.
type NotifierConfig struct {
	LogLevel         string `env:"LOG_LEVEL,default=info"`
	KafkaBrokers     string `env:"KAFKA_BROKERS,required"`
	OrderEventsTopic string `env:"ORDER_EVENTS_TOPIC,default=order.checked_out"`
	GroupID          string `env:"NOTIFIER_GROUP_ID,default=order-notifier"`
	EmailServiceURL  string `env:"EMAIL_SERVICE_URL,required"`
	TracingEnabled   bool   `env:"TRACING_ENABLED,default=true"`
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT,default=localhost:4317"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := load(&cfg); err != nil {
		return nil, err
	}

	cfg.TrustIdentityHeaders = cfg.TokenSecret == ""
	if cfg.TrustHeaders != "" {
		trust, err := strconv.ParseBool(cfg.TrustHeaders)
		if err != nil {
			return nil, fmt.Errorf("AUTH_TRUST_HEADERS: %w", err)
		}
		cfg.TrustIdentityHeaders = trust
	}
	return &cfg, nil
}

func LoadNotifier() (*NotifierConfig, error) {
	var cfg NotifierConfig
	if err := load(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(target any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := envdecode.StrictDecode(target); err != nil {
		return fmt.Errorf("decode environment: %w", err)
	}
	return nil
}

// Brokers splits a comma separated broker list, dropping empty entries.
func Brokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
