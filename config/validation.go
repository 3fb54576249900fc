package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requirement names a config field that must be non-empty
type requirement struct {
	name  string
	value func(*Config) string
}

var (
	postgresFields = []requirement{
		{"DB_HOST", func(c *Config) string { return c.DBHost }},
		{"DB_PORT", func(c *Config) string { return c.DBPort }},
		{"DB_USER", func(c *Config) string { return c.DBUser }},
		{"DB_NAME", func(c *Config) string { return c.DBName }},
	}

	// Environment-specific requirements
	requirements = map[Environment][]requirement{
		Development: {
			{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }},
		},
		Test: {
			{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }},
		},
		CI: {
			{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }},
			{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
		},
		Production: {
			{"SERVER_PORT", func(c *Config) string { return c.ServerPort }},
			{"SITE_HOSTNAME", func(c *Config) string { return c.SiteHostname }},
			{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }},
			{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
			{"S3_BUCKET_NAME", func(c *Config) string { return c.S3BucketName }},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errors []string
	check := func(reqs []requirement) {
		for _, r := range reqs {
			if r.value(cfg) == "" {
				errors = append(errors, ValidationError{Field: r.name, Message: "is required"}.Error())
			}
		}
	}

	check(requirements[env])

	switch cfg.DBDriver {
	case "", "postgres":
		check(postgresFields)
	case "sqlite":
		if cfg.SQLitePath == "" {
			errors = append(errors, ValidationError{Field: "SQLITE_PATH", Message: "is required for sqlite driver"}.Error())
		}
	default:
		errors = append(errors, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
