package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort   string
	ServerHost   string
	SiteHostname string
	// Comma-separated in CORS_ALLOWED_ORIGINS; empty means the dev defaults
	AllowedOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Object storage for recipe images and avatars
	S3BucketName string
	AWSRegion    string

	LogLevel string
}

// LoadConfig builds a Config from docker secrets, environment variables and defaults.
// Environment variables win over secrets; defaults fill whatever is left.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env == Development {
		// .env is optional; a missing file is not an error
		_ = godotenv.Load()
	}

	cfg := &Config{}
	switch env {
	case CI:
		loadFromEnv(cfg)
	case Development, Test, Production:
		loadFromSecrets(cfg)
		loadFromEnv(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if env != Production {
		applyDefaults(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// ShortLinkBase is the prefix every short link is rendered with.
func (c *Config) ShortLinkBase() string {
	return strings.TrimRight(c.SiteHostname, "/") + "/s/"
}

// loadFromSecrets reads Docker secrets; missing files leave the field empty
func loadFromSecrets(cfg *Config) {
	cfg.ServerPort = readSecret("server_port")
	cfg.ServerHost = readSecret("server_host")
	cfg.DBHost = readSecret("db_host")
	cfg.DBPort = readSecret("db_port")
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.DBName = readSecret("db_name")
	cfg.DBSSLMode = readSecret("db_ssl_mode")
	cfg.RedisHost = readSecret("redis_host")
	cfg.RedisPort = readSecret("redis_port")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisURL = readSecret("redis_url")
	cfg.JWTSecret = readSecret("jwt_secret")
}

// loadFromEnv overrides fields with any environment variables that are set
func loadFromEnv(cfg *Config) {
	override(&cfg.ServerPort, "SERVER_PORT")
	override(&cfg.ServerHost, "SERVER_HOST")
	override(&cfg.SiteHostname, "SITE_HOSTNAME")
	override(&cfg.DBDriver, "DB_DRIVER")
	override(&cfg.DBHost, "DB_HOST")
	override(&cfg.DBPort, "DB_PORT")
	override(&cfg.DBUser, "DB_USER")
	override(&cfg.DBPassword, "DB_PASSWORD")
	override(&cfg.DBName, "DB_NAME")
	override(&cfg.DBSSLMode, "DB_SSL_MODE")
	override(&cfg.SQLitePath, "SQLITE_PATH")
	override(&cfg.RedisHost, "REDIS_HOST")
	override(&cfg.RedisPort, "REDIS_PORT")
	override(&cfg.RedisPassword, "REDIS_PASSWORD")
	override(&cfg.RedisURL, "REDIS_URL")
	override(&cfg.JWTSecret, "JWT_SECRET")
	override(&cfg.S3BucketName, "S3_BUCKET_NAME")
	override(&cfg.AWSRegion, "AWS_REGION")
	override(&cfg.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
}

func applyDefaults(cfg *Config) {
	setDefault(&cfg.ServerPort, "8080")
	setDefault(&cfg.ServerHost, "localhost")
	setDefault(&cfg.SiteHostname, "http://localhost:8080")
	setDefault(&cfg.DBDriver, "postgres")
	setDefault(&cfg.DBHost, "localhost")
	setDefault(&cfg.DBPort, "5432")
	setDefault(&cfg.DBUser, "postgres")
	setDefault(&cfg.DBName, "foodgram")
	setDefault(&cfg.DBSSLMode, "disable")
	setDefault(&cfg.SQLitePath, "foodgram.db")
	setDefault(&cfg.S3BucketName, "foodgram-media")
	setDefault(&cfg.LogLevel, "info")
}

func override(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
