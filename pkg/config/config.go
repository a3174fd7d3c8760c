package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Environment string
	Port        string

	DatabaseDriver string
	DatabasePath   string
	DatabaseURL    string
	DBQueryLog     bool

	JWTSecret     string
	JWTIssuer     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration

	AllowedOrigins []string
	EnforceHTTPS   bool

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig
	RedisURL         string

	MetricsPort      string
	OTLPEndpoint     string
	TelemetryEnabled bool
	LokiURL          string
	ServiceName      string
	ServiceVersion   string
}

// RateLimitConfig is keyed by "METHOD /route/pattern" in Config.RateLimitConfigs.
// PerUser limits authenticated routes by user id instead of client IP.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	PerUser  bool
}

const developmentJWTSecret = "taskhub-development-secret"

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required in production")

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := Default()

	cfg.Environment = getEnv("APP_ENV", cfg.Environment)
	cfg.Port = getEnv("PORT", cfg.Port)

	cfg.DatabaseDriver = strings.ToLower(getEnv("DATABASE_DRIVER", cfg.DatabaseDriver))
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBQueryLog = getBool("DB_QUERY_LOG", cfg.DBQueryLog)

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	cfg.TokenTTL = getDuration("TOKEN_TTL", cfg.TokenTTL)
	cfg.ResetTokenTTL = getDuration("RESET_TOKEN_TTL", cfg.ResetTokenTTL)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}
	cfg.EnforceHTTPS = getBool("ENFORCE_HTTPS", cfg.IsProduction())

	cfg.RateLimitEnabled = getBool("RATE_LIMIT_ENABLED", cfg.RateLimitEnabled)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	cfg.MetricsPort = getEnv("METRICS_PORT", cfg.MetricsPort)
	cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.TelemetryEnabled = getBool("TELEMETRY_ENABLED", cfg.TelemetryEnabled)
	cfg.LokiURL = getEnv("LOKI_URL", cfg.LokiURL)
	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.ServiceVersion = getEnv("SERVICE_VERSION", cfg.ServiceVersion)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Default() *Config {
	return &Config{
		Environment:    "development",
		Port:           "5000",
		DatabaseDriver: DriverSQLite,
		DatabasePath:   "taskhub.db",
		JWTSecret:      developmentJWTSecret,
		JWTIssuer:      "taskhub",
		TokenTTL:       time.Hour,
		ResetTokenTTL:  10 * time.Minute,
		AllowedOrigins: []string{
			"http://localhost:5173",
			"https://taskoapp.netlify.app",
		},
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /api/users/register": {
				Requests: 5,
				Window:   time.Minute,
			},
			"POST /api/users/login": {
				Requests: 10,
				Window:   time.Minute,
			},
			"POST /api/users/forgotpassword": {
				Requests: 3,
				Window:   15 * time.Minute,
			},
			"POST /api/friends/request/:recipientId": {
				Requests: 20,
				Window:   time.Minute,
				PerUser:  true,
			},
			"POST /api/tasks": {
				Requests: 30,
				Window:   time.Minute,
				PerUser:  true,
			},
			"default": {
				Requests: 100,
				Window:   time.Minute,
				PerUser:  true,
			},
		},
		MetricsPort:    "9091",
		OTLPEndpoint:   "localhost:4317",
		ServiceName:    "taskhub",
		ServiceVersion: "1.0.0",
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return ErrMissingJWTSecret
		}
		c.JWTSecret = developmentJWTSecret
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return errors.New("DATABASE_DRIVER must be sqlite or postgres")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func getBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}

func splitList(value string) []string {
	var items []string

	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
