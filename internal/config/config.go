package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is the config file used when no --config flag is given.
	DefaultPath = "resocheck.yaml"

	addrEnv         = "RESOCHECK_ADDR"
	logLevelEnv     = "RESOCHECK_LOG_LEVEL"
	shareBaseURLEnv = "RESOCHECK_SHARE_BASE_URL"
)

// Config holds resocheck configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Batch     BatchConfig     `yaml:"batch"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`            // HTTP listen address, e.g. ":8080"
	PublicBaseURL string `yaml:"public_base_url"` // used to build share links

	MaxRequestBodyBytes int64 `yaml:"max_request_body_bytes"`
	MaxInputChars       int   `yaml:"max_input_chars"`
	MaxBatchItems       int   `yaml:"max_batch_items"`

	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level        string `yaml:"level"`         // debug | info | warn | error
	Format       string `yaml:"format"`        // json | console
	InputPreview string `yaml:"input_preview"` // none | redacted | full
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // grpc | http
	Service  string `yaml:"service"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(addrEnv)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(logLevelEnv)); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(shareBaseURLEnv)); v != "" {
		cfg.Server.PublicBaseURL = v
	}
}

func applyDefaults(cfg *Config) {
	s := &cfg.Server
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.PublicBaseURL == "" {
		s.PublicBaseURL = "http://localhost" + portSuffix(s.Addr) + "/"
	}
	if s.MaxRequestBodyBytes <= 0 {
		s.MaxRequestBodyBytes = 64 * 1024
	}
	if s.MaxInputChars <= 0 {
		s.MaxInputChars = 2000
	}
	if s.MaxBatchItems <= 0 {
		s.MaxBatchItems = 100
	}
	if s.ReadHeaderTimeout <= 0 {
		s.ReadHeaderTimeout = 5 * time.Second
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = 10 * time.Second
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = 10 * time.Second
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = 60 * time.Second
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 5 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.InputPreview == "" {
		cfg.Logging.InputPreview = "none"
	}

	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "http"
	}
	if cfg.Telemetry.Service == "" {
		cfg.Telemetry.Service = "resocheck"
	}

	if cfg.Batch.Workers <= 0 {
		cfg.Batch.Workers = 4
	}
}

// portSuffix turns ":8080" or "0.0.0.0:8080" into ":8080".
func portSuffix(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ""
}
