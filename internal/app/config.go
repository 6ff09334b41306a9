package app

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/shiplabel/shiplabel-backend/internal/data/db"
)

type DatabaseOptions struct {
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	Host       string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port       string `env:"POSTGRES_PORT" envDefault:"5432"`
	User       string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password   string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name       string `env:"POSTGRES_NAME" envDefault:"shiplabel"`
	SSLMode    string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"shiplabel.db"`
}

func (d DatabaseOptions) DBConfig() db.Config {
	return db.Config{
		Driver:           d.Driver,
		PostgresHost:     d.Host,
		PostgresPort:     d.Port,
		PostgresUser:     d.User,
		PostgresPassword: d.Password,
		PostgresName:     d.Name,
		PostgresSSLMode:  d.SSLMode,
		SQLitePath:       d.SQLitePath,
	}
}

type AddressValidationOptions struct {
	USPSBaseURL     string        `env:"USPS_BASE_URL"`
	USPSToken       string        `env:"USPS_TOKEN"`
	SmartyBaseURL   string        `env:"SMARTY_BASE_URL"`
	SmartyAuthID    string        `env:"SMARTY_AUTH_ID"`
	SmartyAuthToken string        `env:"SMARTY_AUTH_TOKEN"`
	Timeout         time.Duration `env:"ADDRESS_VALIDATION_TIMEOUT" envDefault:"5s"`
	Retries         int           `env:"ADDRESS_VALIDATION_RETRIES" envDefault:"2"`
	CacheTTL        time.Duration `env:"ADDRESS_VALIDATION_CACHE_TTL" envDefault:"24h"`
}

type OpenTelemetryOptions struct {
	Enabled     bool              `env:"OTEL_ENABLED" envDefault:"false"`
	ServiceName string            `env:"OTEL_SERVICE_NAME" envDefault:"shiplabel"`
	Endpoint    string            `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool              `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	Headers     map[string]string `env:"OTEL_EXPORTER_OTLP_HEADERS" envKeyValSeparator:"="`
	SampleRatio float64           `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

type Config struct {
	LogMode     string `env:"LOG_MODE" envDefault:"development"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8000"`

	Database          DatabaseOptions
	AddressValidation AddressValidationOptions
	OpenTelemetry     OpenTelemetryOptions

	RedisAddr      string   `env:"REDIS_ADDR"`
	UploadMaxBytes int64    `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	MetricsEnabled bool     `env:"METRICS_ENABLED" envDefault:"true"`
	CORSOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// LoadEnv loads whichever of the given dotenv files exist. Variables already set win.
func LoadEnv(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func LoadConfig() (Config, error) {
	if _, err := LoadEnv(".env", ".env.local"); err != nil {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.UploadMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", cfg.UploadMaxBytes)
	}
	return cfg, nil
}
