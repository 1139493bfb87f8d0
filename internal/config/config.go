// Package config loads daemon configuration. File values are overridden by
// environment variables, and whatever is still empty falls back to a
// default.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"wxsampler/internal/netatmo"
	"wxsampler/internal/sampler"
)

const (
	DefaultListen   = ":8080"
	DefaultSchedule = "06:10"
)

// S3Config enables mirroring exports to object storage when Endpoint is set.
type S3Config struct {
	Endpoint      string `yaml:"endpoint"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	AccessKeyFile string `yaml:"access_key_file"`
	SecretKeyFile string `yaml:"secret_key_file"`
	Region        string `yaml:"region"`
}

// Config drives serve mode.
type Config struct {
	Listen          string   `yaml:"listen" validate:"required"`
	OutputDir       string   `yaml:"output_dir" validate:"required"`
	CredentialsFile string   `yaml:"credentials_file" validate:"required"`
	BaseURL         string   `yaml:"base_url"`
	Schedule        string   `yaml:"schedule" validate:"required,datetime=15:04"`
	Catalog         string   `yaml:"catalog"`
	LogLevel        string   `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	S3              S3Config `yaml:"s3"`
}

var validate = validator.New()

// Load reads the optional YAML file at path, applies environment overrides
// and defaults, and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Listen, "WXSAMPLER_LISTEN")
	setFromEnv(&cfg.OutputDir, "WXSAMPLER_OUTPUT_DIR")
	setFromEnv(&cfg.CredentialsFile, "WXSAMPLER_CREDENTIALS_FILE")
	setFromEnv(&cfg.BaseURL, "NETATMO_BASE_URL")
	setFromEnv(&cfg.Schedule, "WXSAMPLER_SCHEDULE")
	setFromEnv(&cfg.Catalog, "WXSAMPLER_CATALOG")
	setFromEnv(&cfg.LogLevel, "LOG_LEVEL")
	setFromEnv(&cfg.S3.Endpoint, "WXSAMPLER_S3_ENDPOINT")
	setFromEnv(&cfg.S3.Bucket, "WXSAMPLER_S3_BUCKET")
	setFromEnv(&cfg.S3.Prefix, "WXSAMPLER_S3_PREFIX")
	setFromEnv(&cfg.S3.AccessKeyFile, "WXSAMPLER_S3_ACCESS_KEY_FILE")
	setFromEnv(&cfg.S3.SecretKeyFile, "WXSAMPLER_S3_SECRET_KEY_FILE")
	setFromEnv(&cfg.S3.Region, "WXSAMPLER_S3_REGION")
}

func setFromEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = sampler.DefaultOutputDir
	}
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = netatmo.DefaultCredentialsFile
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
}

// Validate enforces the invariants yaml typing cannot express.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.S3.Endpoint != "" {
		if cfg.S3.Bucket == "" || cfg.S3.AccessKeyFile == "" || cfg.S3.SecretKeyFile == "" {
			return fmt.Errorf("s3 mirror requires bucket, access_key_file and secret_key_file")
		}
	}
	return nil
}
