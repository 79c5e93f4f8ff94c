package config

import (
	"fmt"
	"os"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Environment string
	LogLevel    string
	Name        string
	Version     string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	JWT         JWTConfig
	S3          S3Config
	Booking     BookingConfig
	Storage     StorageConfig
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderMB     int
}

type PostgresConfig struct {
	Host               string
	Port               string
	Username           string
	Password           string
	DBName             string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MaxLifetime        time.Duration
	MigrationsDir      string
}

// RedisConfig configures the availability cache. An empty Addr disables it.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	AvailabilityTTL time.Duration
}

// JWTConfig holds the key used to verify tokens issued by the identity service.
type JWTConfig struct {
	SigningKey string
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	PresignExpiry   time.Duration
}

type BookingConfig struct {
	ClaimTimeout      time.Duration
	ClaimRetries      int
	ClaimBackoff      time.Duration
	LifecycleInterval time.Duration
	MaxRangeDays      int
}

type StorageConfig struct {
	Driver string
}

func NewConfig() (*Config, error) {
	httpReadTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	httpWriteTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	httpShutdownTimeout, err := getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	postgresMaxLifetime, err := getEnvAsDuration("POSTGRES_MAX_LIFETIME", "5m")
	if err != nil {
		return nil, err
	}

	availabilityTTL, err := getEnvAsDuration("REDIS_AVAILABILITY_TTL", "30s")
	if err != nil {
		return nil, err
	}

	presignExpiry, err := getEnvAsDuration("S3_PRESIGN_EXPIRY", "1h")
	if err != nil {
		return nil, err
	}

	claimTimeout, err := getEnvAsDuration("BOOKING_CLAIM_TIMEOUT", "3s")
	if err != nil {
		return nil, err
	}

	claimBackoff, err := getEnvAsDuration("BOOKING_CLAIM_BACKOFF", "50ms")
	if err != nil {
		return nil, err
	}

	lifecycleInterval, err := getEnvAsDuration("BOOKING_LIFECYCLE_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Name:        getEnv("APP_NAME", "medbook"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		HTTP: HTTPConfig{
			Port:            getEnv("HTTP_PORT", "8080"),
			ReadTimeout:     httpReadTimeout,
			WriteTimeout:    httpWriteTimeout,
			ShutdownTimeout: httpShutdownTimeout,
			MaxHeaderMB:     getEnvAsInt("HTTP_MAX_HEADER_MB", 1),
		},
		Postgres: PostgresConfig{
			Host:               getEnv("POSTGRES_HOST", "localhost"),
			Port:               getEnv("POSTGRES_PORT", "5432"),
			Username:           getEnv("POSTGRES_USER", "postgres"),
			Password:           getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:             getEnv("POSTGRES_DB", "medbook"),
			SSLMode:            getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConnections:     getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("POSTGRES_MAX_IDLE_CONNECTIONS", 5),
			MaxLifetime:        postgresMaxLifetime,
			MigrationsDir:      getEnv("POSTGRES_MIGRATIONS_DIR", "./migrations"),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", ""),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			AvailabilityTTL: availabilityTTL,
		},
		JWT: JWTConfig{
			SigningKey: getEnv("JWT_SIGNING_KEY", "your_secret_key"),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", "medbook"),
			UseSSL:          getEnv("S3_USE_SSL", "true") == "true",
			PresignExpiry:   presignExpiry,
		},
		Booking: BookingConfig{
			ClaimTimeout:      claimTimeout,
			ClaimRetries:      getEnvAsInt("BOOKING_CLAIM_RETRIES", 4),
			ClaimBackoff:      claimBackoff,
			LifecycleInterval: lifecycleInterval,
			MaxRangeDays:      getEnvAsInt("BOOKING_MAX_RANGE_DAYS", 62),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		},
	}

	if cfg.Storage.Driver != StorageDriverPostgres && cfg.Storage.Driver != StorageDriverMemory {
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	if cfg.Booking.ClaimRetries < 1 {
		return nil, fmt.Errorf("BOOKING_CLAIM_RETRIES must be positive, got %d", cfg.Booking.ClaimRetries)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value := 0
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
