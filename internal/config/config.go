// Package config loads the extractor's environment configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendGCP = "gcp"
	BackendAWS = "aws"
)

// Config holds every setting read from the environment.
type Config struct {
	Backend  string `env:"STORAGE_BACKEND" env-default:"gcp" env-description:"gcp (Cloud Storage + Firestore) or aws (S3 + DynamoDB)"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	GCP      GCPConfig
	AWS      AWSConfig
}

// GCPConfig configures the Cloud Storage and Firestore adapters.
type GCPConfig struct {
	ProjectID  string `env:"PROJECT_ID"`
	Collection string `env:"FIRESTORE_COLLECTION" env-default:"event_data"`
}

// AWSConfig configures the S3 and DynamoDB adapters.
type AWSConfig struct {
	Region          string `env:"AWS_REGION" env-default:"us-east-1"`
	Table           string `env:"DYNAMODB_TABLE" env-default:"event_data"`
	Endpoint        string `env:"AWS_ENDPOINT_URL"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings required by the selected backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGCP:
		if c.GCP.ProjectID == "" {
			return fmt.Errorf("PROJECT_ID environment variable must be set for the %q backend", BackendGCP)
		}
		if c.GCP.Collection == "" {
			return fmt.Errorf("FIRESTORE_COLLECTION must not be empty")
		}
	case BackendAWS:
		if c.AWS.Table == "" {
			return fmt.Errorf("DYNAMODB_TABLE must not be empty")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Backend)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
