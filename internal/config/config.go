package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"kanban/internal/storage"
)

// Config models kanban.yml.
type Config struct {
	Storage struct {
		Driver string `yaml:"driver"`
	} `yaml:"storage"`
	API struct {
		Delay       time.Duration `yaml:"delay"`
		FailureRate float64       `yaml:"failure_rate"`
		Breaker     struct {
			MaxFailures uint32        `yaml:"max_failures"`
			OpenFor     time.Duration `yaml:"open_for"`
		} `yaml:"breaker"`
	} `yaml:"api"`
	Auth struct {
		TTL        time.Duration `yaml:"ttl"`
		LoginDelay time.Duration `yaml:"login_delay"`
		Keyring    string        `yaml:"keyring"`
	} `yaml:"auth"`
	Server struct {
		Addr        string   `yaml:"addr"`
		BasePath    string   `yaml:"base_path"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with kanban init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if err := storage.Check(c.Storage.Driver); err != nil {
		return fmt.Errorf("config.storage.driver: %w", err)
	}
	if c.API.FailureRate < 0 || c.API.FailureRate > 1 {
		return fmt.Errorf("config.api.failure_rate must be within [0,1]")
	}
	if c.API.Delay < 0 {
		return fmt.Errorf("config.api.delay must not be negative")
	}
	if c.API.Breaker.OpenFor < 0 {
		return fmt.Errorf("config.api.breaker.open_for must not be negative")
	}
	if c.Auth.TTL < 0 {
		return fmt.Errorf("config.auth.ttl must not be negative")
	}
	if c.Auth.LoginDelay < 0 {
		return fmt.Errorf("config.auth.login_delay must not be negative")
	}
	switch c.Auth.Keyring {
	case "system", "file":
	default:
		return fmt.Errorf("config.auth.keyring must be 'system' or 'file'")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config.server.addr is required")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config.log.level: %w", err)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("config.log rotation limits must not be negative")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "kanban.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the default Config.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal([]byte(defaultTemplate), &cfg); err != nil {
		panic(fmt.Sprintf("default config template: %v", err))
	}
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Keys absent from
// data keep their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `storage:
  driver: sqlite

api:
  # simulated latency and failure probability of the board API
  delay: 3s
  failure_rate: 0
  breaker:
    max_failures: 3
    open_for: 10s

auth:
  ttl: 24h
  login_delay: 500ms
  keyring: system

server:
  addr: 127.0.0.1:8080
  base_path: /api
  cors_origins: ["http://localhost:5173"]

log:
  level: info
  file: ""
  max_size_mb: 10
  max_backups: 3
  max_age_days: 28
  compress: false
`
