// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"

	defaultSourceTimeoutSeconds = 5
	defaultDigestCron           = "0 7 * * 1"
	defaultDigestSubject        = "Your weekly availability"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

// SourceConfig selects where mentor schedules are fetched from.
type SourceConfig struct {
	Kind           string `yaml:"kind"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (s SourceConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return defaultSourceTimeoutSeconds * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type DigestConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	Sender  string `yaml:"sender"`
	Subject string `yaml:"subject"`
}

type AWSConfig struct {
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
	Region          string `yaml:"region"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		TrustProxy  bool   `yaml:"trust_proxy"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	Source   SourceConfig   `yaml:"source"`
	Digest   DigestConfig   `yaml:"digest"`
	AWS      AWSConfig      `yaml:"aws"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML config data, applies environment overrides and defaults,
// and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.AWS.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.AWS.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.AWS.Region = region
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceSQLite
	}
	if strings.TrimSpace(c.Digest.Cron) == "" {
		c.Digest.Cron = defaultDigestCron
	}
	if strings.TrimSpace(c.Digest.Subject) == "" {
		c.Digest.Subject = defaultDigestSubject
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	switch c.Source.Kind {
	case SourceSQLite:
	case SourceHTTP:
		if strings.TrimSpace(c.Source.BaseURL) == "" {
			return fmt.Errorf("source base_url is required for http source")
		}
	default:
		return fmt.Errorf("unsupported source kind: %s", c.Source.Kind)
	}

	if c.Digest.Enabled {
		if c.Digest.Sender == "" {
			return fmt.Errorf("digest sender is required when digest is enabled")
		}
		if c.AWS.AccessKeyID == "" || c.AWS.SecretAccessKey == "" || c.AWS.Region == "" {
			return fmt.Errorf("aws credentials and region are required when digest is enabled")
		}
	}

	return nil
}
