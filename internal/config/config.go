package config

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers understood by the datastore factory.
const (
	StorageLocal    = "local"
	StorageGitHub   = "github"
	StorageS3       = "s3"
	StoragePostgres = "postgres"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		MaxUploadMB int    `yaml:"max_upload_mb" env:"SERVER_MAX_UPLOAD_MB"`
	} `yaml:"server"`

	Storage struct {
		Driver string `yaml:"driver" env:"STORAGE_DRIVER"`

		Local struct {
			Path string `yaml:"path" env:"STORAGE_LOCAL_PATH"`
		} `yaml:"local"`

		GitHub struct {
			Token   string `yaml:"token" env:"GITHUB_TOKEN,file"`
			RepoURL string `yaml:"repo_url" env:"GITHUB_REPO_URL"`
			Branch  string `yaml:"branch" env:"GITHUB_BRANCH"`
			BaseURL string `yaml:"base_url" env:"GITHUB_BASE_URL"`
		} `yaml:"github"`

		S3 struct {
			Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
			Region    string `yaml:"region" env:"S3_REGION"`
			Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
			AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY,file"`
			Prefix    string `yaml:"prefix" env:"S3_PREFIX"`
		} `yaml:"s3"`
	} `yaml:"storage"`

	// Database is only used when the postgres storage driver is selected.
	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD,file"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Session struct {
		Secret string `yaml:"secret" env:"SESSION_SECRET,file"`
		TTL    string `yaml:"ttl" env:"SESSION_TTL"`
		Issuer string `yaml:"issuer" env:"SESSION_ISSUER"`
	} `yaml:"session"`

	// Colleges maps a college code to "username:password" admin credentials.
	// COLLEGE_CODES="CODE=user:pass,CODE2=user:pass" replaces the whole map.
	Colleges map[string]string `yaml:"colleges" env:"COLLEGE_CODES"`

	Events struct {
		Enabled  bool   `yaml:"enabled" env:"EVENTS_ENABLED"`
		URL      string `yaml:"url" env:"EVENTS_AMQP_URL"`
		Exchange string `yaml:"exchange" env:"EVENTS_EXCHANGE"`
	} `yaml:"events"`

	Seed struct {
		DemoCollege string `yaml:"demo_college" env:"SEED_DEMO_COLLEGE"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

var githubRepoPattern = regexp.MustCompile(`github\.com[/:]([^/]+)/([^/]+?)(?:\.git)?/?$`)

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.MaxUploadMB = 10

	config.Storage.Driver = StorageLocal
	config.Storage.Local.Path = "./data"
	config.Storage.S3.Region = "auto"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "hirelytics"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Session.TTL = "12h"
	config.Session.Issuer = "hirelytics"

	config.Events.Exchange = "hirelytics.datasets"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnv(reflect.ValueOf(config))
}

// ParseCollegeCodes parses the comma separated CODE=user:pass form.
func ParseCollegeCodes(raw string) (map[string]string, error) {
	colleges := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, creds, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(code) == "" || !strings.Contains(creds, ":") {
			return nil, fmt.Errorf("malformed college entry %q, expected CODE=user:pass", entry)
		}
		colleges[strings.TrimSpace(code)] = strings.TrimSpace(creds)
	}
	return colleges, nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if _, err := time.ParseDuration(config.Session.TTL); err != nil {
		return fmt.Errorf("invalid session ttl format: %w", err)
	}

	if config.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server max_upload_mb must be positive")
	}

	switch config.Storage.Driver {
	case StorageLocal:
		if config.Storage.Local.Path == "" {
			return fmt.Errorf("local storage path is required")
		}
	case StorageGitHub:
		if config.Storage.GitHub.Token == "" {
			return fmt.Errorf("github token is required")
		}
		if _, _, err := config.GitHubRepository(); err != nil {
			return err
		}
	case StorageS3:
		if config.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required")
		}
	case StoragePostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	for code, creds := range config.Colleges {
		if user, _, ok := strings.Cut(creds, ":"); !ok || user == "" {
			return fmt.Errorf("credentials for college %s must be user:pass", code)
		}
	}

	if config.Events.Enabled && config.Events.URL == "" {
		return fmt.Errorf("events url is required when events are enabled")
	}

	return nil
}

// GitHubRepository extracts owner and repository name from the configured repo URL.
func (c *Config) GitHubRepository() (string, string, error) {
	m := githubRepoPattern.FindStringSubmatch(strings.TrimSpace(c.Storage.GitHub.RepoURL))
	if m == nil {
		return "", "", fmt.Errorf("invalid github repo url %q", c.Storage.GitHub.RepoURL)
	}
	return m[1], m[2], nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
