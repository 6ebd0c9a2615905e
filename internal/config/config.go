package config

import (
	"errors"
	"strings"

	"github.com/staybook/service-booking/internal/platform/config"
	"github.com/staybook/service-booking/internal/platform/middleware"
)

// BookingConfig holds the booking policy knobs.
type BookingConfig struct {
	AutoConfirm bool
	Currency    string
	MaxNights   int
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	MigrationsDir  string
	CORSOrigins    []string
	BcryptCost     int
	AuditQueue     string
	DBConfig       config.DatabaseConfig
	JWTConfig      config.JWTConfig
	KafkaConfig    config.KafkaConfig
	RedisConfig    config.RedisConfig
	RabbitMQConfig config.RabbitMQConfig
	RateLimit      middleware.RateLimitConfig
	Booking        BookingConfig
}

// Load reads configuration from environment variables (BOOKING_ prefix) and
// an optional .env file.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("BOOKING")
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "staybook_booking")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("AUDIT_QUEUE", "booking.audit")
	v.SetDefault("AUTO_CONFIRM", false)
	v.SetDefault("CURRENCY", "INR")
	v.SetDefault("MAX_NIGHTS", 365)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_CAPACITY", 60)
	v.SetDefault("RATE_LIMIT_REFILL_TOKENS", 1)
	v.SetDefault("RATE_LIMIT_REFILL_INTERVAL", "1s")
	v.SetDefault("RATE_LIMIT_TTL", "10m")
	v.SetDefault("RATE_LIMIT_KEY_STRATEGY", "ip")

	cfg := &ServiceConfig{
		Port:           config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:         config.GetAppEnv(v),
		MigrationsDir:  v.GetString("MIGRATIONS_DIR"),
		CORSOrigins:    splitOrigins(v.GetString("CORS_ORIGINS")),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
		AuditQueue:     v.GetString("AUDIT_QUEUE"),
		DBConfig:       config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:      config.LoadJWTConfig(v),
		KafkaConfig:    config.LoadKafkaConfig(v),
		RedisConfig:    config.LoadRedisConfig(v),
		RabbitMQConfig: config.LoadRabbitMQConfig(v),
		RateLimit: middleware.RateLimitConfig{
			Enabled:        v.GetBool("RATE_LIMIT_ENABLED"),
			Capacity:       v.GetInt("RATE_LIMIT_CAPACITY"),
			RefillTokens:   v.GetInt("RATE_LIMIT_REFILL_TOKENS"),
			RefillInterval: v.GetDuration("RATE_LIMIT_REFILL_INTERVAL"),
			TTL:            v.GetDuration("RATE_LIMIT_TTL"),
			KeyStrategy:    v.GetString("RATE_LIMIT_KEY_STRATEGY"),
			Prefix:         "ratelimit:booking",
		},
		Booking: BookingConfig{
			AutoConfirm: v.GetBool("AUTO_CONFIRM"),
			Currency:    strings.ToUpper(v.GetString("CURRENCY")),
			MaxNights:   v.GetInt("MAX_NIGHTS"),
		},
	}

	if cfg.JWTConfig.Secret == "" {
		if cfg.AppEnv != "development" {
			return nil, errors.New("BOOKING_JWT_SECRET is required")
		}
		cfg.JWTConfig.Secret = "development-only-secret"
	}
	return cfg, nil
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
