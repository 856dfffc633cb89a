package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Auth      AuthConfig
	Directory DirectoryConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Enabled toggles the cache layer entirely; the service is correct without it.
	Enabled bool
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
}

// AuthConfig holds token verification configuration. When JWKSURL is set the
// service verifies RS256 tokens against the identity provider's key set;
// otherwise it falls back to a shared HS256 secret (local development only).
type AuthConfig struct {
	JWKSURL  string
	Audience string
	Issuer   string
	Secret   string
}

// DirectoryConfig points at the Employee Directory internal API.
type DirectoryConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments; env vars win either way.
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "leave_service"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		Enabled:  getEnvBool("REDIS_ENABLED", true),
	}

	config.Kafka = KafkaConfig{
		Brokers: getEnvSlice("KAFKA_BROKERS", "localhost:9092"),
		Enabled: getEnvBool("KAFKA_ENABLED", true),
	}

	config.Auth = AuthConfig{
		JWKSURL:  getEnv("AUTH_JWKS_URL", ""),
		Audience: getEnv("AUTH_AUDIENCE", ""),
		Issuer:   getEnv("AUTH_ISSUER", ""),
		Secret:   getEnv("AUTH_HS256_SECRET", ""),
	}

	directoryTimeout, err := time.ParseDuration(getEnv("DIRECTORY_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIRECTORY_TIMEOUT: %w", err)
	}

	config.Directory = DirectoryConfig{
		BaseURL: getEnv("DIRECTORY_BASE_URL", "http://localhost:8000"),
		Timeout: directoryTimeout,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Auth.JWKSURL == "" && c.Auth.Secret == "" {
		return fmt.Errorf("either AUTH_JWKS_URL or AUTH_HS256_SECRET is required")
	}
	if c.Directory.BaseURL == "" {
		return fmt.Errorf("DIRECTORY_BASE_URL is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when Kafka is enabled")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
