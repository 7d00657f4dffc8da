// Package config provides Viper-based configuration management for fastimage
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"fastimage"
)

// Config represents the complete fastimage configuration
type Config struct {
	Sniff   SniffConfig   `mapstructure:"sniff"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Local   LocalConfig   `mapstructure:"local"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// SniffConfig controls header buffering
type SniffConfig struct {
	MaxBufferBytes int `mapstructure:"max_buffer_bytes"`
	ChunkSize      int `mapstructure:"chunk_size"`
}

// RemoteConfig contains HTTP settings
type RemoteConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRedirects int           `mapstructure:"max_redirects"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// LocalConfig contains filesystem settings
type LocalConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// BatchConfig controls multi-locator runs
type BatchConfig struct {
	Concurrency int     `mapstructure:"concurrency"`
	RateLimit   float64 `mapstructure:"rate_limit"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Colors bool   `mapstructure:"colors"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// Load reads configuration from file and environment variables
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".fastimage")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/fastimage")
	}

	// FASTIMAGE_REMOTE_TIMEOUT overrides remote.timeout
	v.SetEnvPrefix("FASTIMAGE")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("sniff.max_buffer_bytes", fastimage.DefaultMaxBufferSize)
	v.SetDefault("sniff.chunk_size", fastimage.DefaultChunkSize)

	v.SetDefault("remote.timeout", 30*time.Second)
	v.SetDefault("remote.max_redirects", fastimage.DefaultMaxRedirects)
	v.SetDefault("remote.user_agent", fastimage.DefaultUserAgent)

	v.SetDefault("local.timeout", time.Duration(0))

	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.rate_limit", 0.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.format", "table")
	v.SetDefault("output.colors", true)
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	if cfg.Sniff.MaxBufferBytes <= 0 {
		return fmt.Errorf("sniff.max_buffer_bytes must be positive, got %d", cfg.Sniff.MaxBufferBytes)
	}
	if cfg.Sniff.ChunkSize <= 0 {
		return fmt.Errorf("sniff.chunk_size must be positive, got %d", cfg.Sniff.ChunkSize)
	}
	if cfg.Sniff.ChunkSize > cfg.Sniff.MaxBufferBytes {
		return fmt.Errorf("sniff.chunk_size (%d) exceeds sniff.max_buffer_bytes (%d)",
			cfg.Sniff.ChunkSize, cfg.Sniff.MaxBufferBytes)
	}

	if cfg.Remote.Timeout < 0 || cfg.Local.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if cfg.Remote.MaxRedirects < 0 {
		return fmt.Errorf("remote.max_redirects must not be negative, got %d", cfg.Remote.MaxRedirects)
	}

	if cfg.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1, got %d", cfg.Batch.Concurrency)
	}
	if cfg.Batch.RateLimit < 0 {
		return fmt.Errorf("batch.rate_limit must not be negative, got %v", cfg.Batch.RateLimit)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	validOutputs := map[string]bool{"table": true, "json": true}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be table or json)", cfg.Output.Format)
	}

	return nil
}

// AnalyzerOptions returns the analyzer options described by the config
func (c *Config) AnalyzerOptions() fastimage.Options {
	redirects := c.Remote.MaxRedirects
	if redirects == 0 {
		// Zero disables redirects in the config file; the library uses zero
		// for its default
		redirects = -1
	}

	return fastimage.Options{
		MaxBufferSize: c.Sniff.MaxBufferBytes,
		ChunkSize:     c.Sniff.ChunkSize,
		Timeout:       c.Remote.Timeout,
		LocalTimeout:  c.Local.Timeout,
		MaxRedirects:  redirects,
		UserAgent:     c.Remote.UserAgent,
	}
}

// BatchOptions returns the options for AnalyzeAll
func (c *Config) BatchOptions() fastimage.BatchOptions {
	return fastimage.BatchOptions{
		Concurrency:       c.Batch.Concurrency,
		RequestsPerSecond: c.Batch.RateLimit,
	}
}
