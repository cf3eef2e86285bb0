// Package config loads and validates application configuration from
// environment variables and an optional configuration file (YAML, or the
// legacy key=value format).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
}

// PipelineConfig carries the scalars the cleaning and alignment engines
// consume plus the I/O surface around them.
type PipelineConfig struct {
	InputFile       string   `yaml:"input_file" envconfig:"INPUT_FILE"`
	OutputFile      string   `yaml:"output_file" envconfig:"OUTPUT_FILE"`
	Delimiter       string   `yaml:"delimiter" envconfig:"DELIMITER" default:"," validate:"len=1"`
	TimeColumn      string   `yaml:"time_column" envconfig:"TIME_COLUMN"`
	DependentVars   []string `yaml:"dependent_variables" envconfig:"DEPENDENT_VARIABLES"`
	IndependentVars []string `yaml:"independent_variables" envconfig:"INDEPENDENT_VARIABLES"`
	TargetInterval  float64  `yaml:"target_time_interval" envconfig:"TARGET_TIME_INTERVAL" default:"1.0" validate:"gt=0"`
	Strategy        string   `yaml:"missing_value_strategy" envconfig:"MISSING_VALUE_STRATEGY" default:"mean" validate:"oneof=mean median zero"`
	Precision       int      `yaml:"numeric_precision" envconfig:"NUMERIC_PRECISION" default:"2" validate:"min=0,max=12"`
	Solver          string   `yaml:"solver_method" envconfig:"SOLVER_METHOD" default:"linear" validate:"oneof=linear runge-kutta heun cubic-spline"`
}

// DelimiterRune returns the configured delimiter as a rune, defaulting to
// comma.
func (p PipelineConfig) DelimiterRune() rune {
	for _, r := range p.Delimiter {
		return r
	}
	return ','
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/adapter.log"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// Load builds the configuration: environment variables first (prefix
// ADAPTER), then the optional config file layered on top, then
// validation. An empty path means environment and defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ADAPTER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFile layers a config file over the current values. YAML extensions
// go through the YAML loader; anything else is treated as the legacy
// key=value format.
func (c *Config) loadFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(data, c)
	default:
		return c.loadLegacy(path)
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
