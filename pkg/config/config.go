package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration fails validation
var ErrInvalidConfig = errors.New("invalid config")

// Config is the arenafeed runtime configuration
type Config struct {
	Host           string        `yaml:"host"`
	WebsocketPort  int           `yaml:"websocket_port"`
	RestPort       int           `yaml:"rest_port"`
	DataDir        string        `yaml:"data_dir"`
	MetricsAddr    string        `yaml:"metrics_addr"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	ResyncInterval time.Duration `yaml:"resync_interval"`

	Log    LogConfig    `yaml:"log"`
	Notify NotifyConfig `yaml:"notify"`
	Thumbs ThumbsConfig `yaml:"thumbs"`

	// LayerCategories are marked dirty whenever clip selection changes
	LayerCategories []string `yaml:"layer_categories"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type NotifyConfig struct {
	FlushInterval time.Duration `yaml:"flush_interval"`
}

type ThumbsConfig struct {
	Enabled       bool    `yaml:"enabled"`
	RatePerSecond float64 `yaml:"rate_per_second"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Host:           "127.0.0.1",
		WebsocketPort:  8080,
		RestPort:       8080,
		DataDir:        "./data",
		MetricsAddr:    ":9090",
		ReconnectDelay: 2 * time.Second,
		Log:            LogConfig{Level: "info"},
		Notify:         NotifyConfig{FlushInterval: 50 * time.Millisecond},
		Thumbs:         ThumbsConfig{Enabled: true, RatePerSecond: 10},
		LayerCategories: []string{
			"layerSelected",
			"selectedLayerName",
			"layerActive",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and required fields
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	if err := validPort("websocket_port", c.WebsocketPort); err != nil {
		return err
	}
	if err := validPort("rest_port", c.RestPort); err != nil {
		return err
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is required", ErrInvalidConfig)
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return fmt.Errorf("%w: metrics_addr: %v", ErrInvalidConfig, err)
		}
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("%w: reconnect_delay must be positive", ErrInvalidConfig)
	}
	if c.ResyncInterval < 0 {
		return fmt.Errorf("%w: resync_interval must not be negative", ErrInvalidConfig)
	}
	if c.Notify.FlushInterval <= 0 {
		return fmt.Errorf("%w: notify.flush_interval must be positive", ErrInvalidConfig)
	}
	if c.Thumbs.Enabled && c.Thumbs.RatePerSecond <= 0 {
		return fmt.Errorf("%w: thumbs.rate_per_second must be positive", ErrInvalidConfig)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// WebsocketURL returns the address of the remote websocket API
func (c *Config) WebsocketURL() string {
	return "ws://" + net.JoinHostPort(c.Host, strconv.Itoa(c.WebsocketPort)) + "/api/v1"
}

// RestURL returns the base address of the remote REST API
func (c *Config) RestURL() string {
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(c.RestPort)) + "/api/v1"
}

func validPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: %s %d out of range", ErrInvalidConfig, name, port)
	}
	return nil
}
