// Package config assembles service settings from defaults, an optional YAML
// file, a .env file and the process environment. Command-line flags are
// applied on top by cmd/server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort        = 8080
	DefaultGracePeriod = 5 * time.Second
	DefaultAMQPQueue   = "customer_events"
)

// Config holds the resolved service settings.
type Config struct {
	Port        int
	GracePeriod time.Duration
	LogLevel    string
	LogFormat   string
	AMQPURL     string
	AMQPQueue   string
}

// FileConfig mirrors the YAML config file layout.
type FileConfig struct {
	Server struct {
		Port int `yaml:"port"`
		// Go duration format, e.g. "3s".
		GracePeriod string `yaml:"grace_period"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	AMQP struct {
		URL   string `yaml:"url"`
		Queue string `yaml:"queue"`
	} `yaml:"amqp"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:        DefaultPort,
		GracePeriod: DefaultGracePeriod,
		LogLevel:    "info",
		LogFormat:   "text",
		AMQPQueue:   DefaultAMQPQueue,
	}
}

// Load resolves the configuration. configPath may be empty; a missing .env
// file is ignored. envFiles defaults to ".env".
func Load(configPath string, envFiles ...string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		fc, err := loadFile(configPath)
		if err != nil {
			return cfg, err
		}
		if err := cfg.applyFile(fc); err != nil {
			return cfg, err
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load env file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string) (FileConfig, error) {
	var fc FileConfig

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fc, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("failed to parse config file: %w", err)
	}
	return fc, nil
}

func (c *Config) applyFile(fc FileConfig) error {
	if fc.Server.Port != 0 {
		c.Port = fc.Server.Port
	}
	if fc.Server.GracePeriod != "" {
		d, err := time.ParseDuration(fc.Server.GracePeriod)
		if err != nil {
			return fmt.Errorf("invalid server.grace_period %q: %w", fc.Server.GracePeriod, err)
		}
		c.GracePeriod = d
	}
	if fc.Log.Level != "" {
		c.LogLevel = fc.Log.Level
	}
	if fc.Log.Format != "" {
		c.LogFormat = fc.Log.Format
	}
	if fc.AMQP.URL != "" {
		c.AMQPURL = fc.AMQP.URL
	}
	if fc.AMQP.Queue != "" {
		c.AMQPQueue = fc.AMQP.Queue
	}
	return nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Port = p
	}
	if grace := os.Getenv("GRACE_PERIOD"); grace != "" {
		d, err := time.ParseDuration(grace)
		if err != nil {
			return fmt.Errorf("invalid GRACE_PERIOD %q: %w", grace, err)
		}
		c.GracePeriod = d
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.LogFormat = format
	}
	if url := os.Getenv("AMQP_URL"); url != "" {
		c.AMQPURL = url
	}
	if queue := os.Getenv("AMQP_QUEUE"); queue != "" {
		c.AMQPQueue = queue
	}
	return nil
}

// Validate checks the settings that cannot be corrected later.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.GracePeriod < 0 {
		return fmt.Errorf("grace period must not be negative, got %s", c.GracePeriod)
	}
	if c.AMQPURL != "" && c.AMQPQueue == "" {
		return errors.New("amqp queue name is required when an amqp url is set")
	}
	return nil
}
