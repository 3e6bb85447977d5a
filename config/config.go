package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogLevel    string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Image storage
	StorageDriver string
	UploadDir     string
	S3BucketName  string
	AWSRegion     string

	// AI prediction service
	AIServiceURL string
	AITimeout    time.Duration
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether any Redis endpoint is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// LoadConfig creates a new Config from a .env file, environment variables and Docker secrets
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg := &Config{Environment: env}

	if err := loadConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadConfig(cfg *Config, env Environment) error {
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"))
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	defaultDriver := "sqlite"
	if env == Production {
		defaultDriver = "postgres"
	}
	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", defaultDriver))
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getSecret("db_user", "DB_USER", "postgres")
	cfg.DBPassword = getSecret("db_password", "DB_PASSWORD", "")
	cfg.DBName = getEnv("DB_NAME", "gfgm")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.DBPath = getEnv("DB_PATH", "gfgm.db")

	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = getSecret("redis_password", "REDIS_PASSWORD", "")
	cfg.RedisURL = getSecret("redis_url", "REDIS_URL", "")
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	jwtDefault := ""
	if env != Production {
		jwtDefault = "dev-secret-change-me"
	}
	cfg.JWTSecret = getSecret("jwt_secret", "JWT_SECRET", jwtDefault)
	if cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "24h")); err != nil {
		return fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", "local"))
	cfg.UploadDir = getEnv("UPLOAD_DIR", "uploads")
	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", "gfgm-images")
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")

	cfg.AIServiceURL = getEnv("AI_SERVICE_URL", "http://localhost:5000/predict")
	if cfg.AITimeout, err = time.ParseDuration(getEnv("AI_TIMEOUT", "30s")); err != nil {
		return fmt.Errorf("invalid AI_TIMEOUT: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// getSecret prefers the environment variable, then the Docker secret file, then the fallback
func getSecret(secret, key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := readSecret(secret); value != "" {
		return value
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
