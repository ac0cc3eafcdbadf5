// Package config provides configuration loading and validation for midiwire.
// Supports YAML files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/midiwire-io/midiwire/internal/midi"
)

// Config holds all configuration for a midiwire hub.
type Config struct {
	Listener      ListenerConfig      `yaml:"listener"`
	Port          PortConfig          `yaml:"port"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ListenerConfig configures the TCP hub listener and any locally attached
// device.
type ListenerConfig struct {
	ListenAddr string `yaml:"listenAddr" env:"MIDIWIRE_LISTEN_ADDR"`
	ReadPollMs int64  `yaml:"readPollMs" env:"MIDIWIRE_READ_POLL_MS"`

	// SerialDevice is a character device path (e.g. /dev/ttyUSB0) attached
	// to the hub as a participant. Empty means none.
	SerialDevice string `yaml:"serialDevice" env:"MIDIWIRE_SERIAL_DEVICE"`
}

// PortConfig configures each per-connection MIDI port.
type PortConfig struct {
	InBufferSize int    `yaml:"inBufferSize" env:"MIDIWIRE_IN_BUFFER_SIZE"`
	ScratchSize  int    `yaml:"scratchSize" env:"MIDIWIRE_SCRATCH_SIZE"`
	InChannels   string `yaml:"inChannels" env:"MIDIWIRE_IN_CHANNELS"`
	OutChannel   int    `yaml:"outChannel" env:"MIDIWIRE_OUT_CHANNEL"`
}

// ObservabilityConfig configures metrics and logging.
type ObservabilityConfig struct {
	MetricsAddr string `yaml:"metricsAddr" env:"MIDIWIRE_METRICS_ADDR"`
	LogLevel    string `yaml:"logLevel" env:"MIDIWIRE_LOG_LEVEL"`
	LogFormat   string `yaml:"logFormat" env:"MIDIWIRE_LOG_FORMAT"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listener: ListenerConfig{
			ListenAddr: ":5004",
			ReadPollMs: 5,
		},
		Port: PortConfig{
			InBufferSize: 64,
			ScratchSize:  32,
			InChannels:   "all",
			OutChannel:   0,
		},
		Observability: ObservabilityConfig{
			MetricsAddr: ":9090",
			LogLevel:    "info",
			LogFormat:   "json",
		},
	}
}

// Load builds the configuration from defaults plus environment overrides.
func Load() (*Config, error) {
	cfg := Default()
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads a YAML configuration file, then applies environment
// overrides on top.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that must fail at configuration time rather than
// at use time.
func (c *Config) Validate() error {
	if _, err := midi.ParseChannelFilter(c.Port.InChannels); err != nil {
		return fmt.Errorf("config: inChannels: %w", err)
	}
	if c.Port.OutChannel < 0 || c.Port.OutChannel > 15 {
		return fmt.Errorf("config: outChannel: %w: %d", midi.ErrInvalidChannel, c.Port.OutChannel)
	}
	if c.Port.InBufferSize <= 0 {
		return fmt.Errorf("config: inBufferSize must be positive, got %d", c.Port.InBufferSize)
	}
	if c.Port.ScratchSize <= 0 {
		return fmt.Errorf("config: scratchSize must be positive, got %d", c.Port.ScratchSize)
	}
	return nil
}

// InChannelFilter returns the validated channel filter for the port config.
func (c *Config) InChannelFilter() (midi.ChannelFilter, error) {
	return midi.ParseChannelFilter(c.Port.InChannels)
}

func applyEnv(cfg *Config) {
	setString(&cfg.Listener.ListenAddr, "MIDIWIRE_LISTEN_ADDR")
	setInt64(&cfg.Listener.ReadPollMs, "MIDIWIRE_READ_POLL_MS")
	setString(&cfg.Listener.SerialDevice, "MIDIWIRE_SERIAL_DEVICE")
	setInt(&cfg.Port.InBufferSize, "MIDIWIRE_IN_BUFFER_SIZE")
	setInt(&cfg.Port.ScratchSize, "MIDIWIRE_SCRATCH_SIZE")
	setString(&cfg.Port.InChannels, "MIDIWIRE_IN_CHANNELS")
	setInt(&cfg.Port.OutChannel, "MIDIWIRE_OUT_CHANNEL")
	setString(&cfg.Observability.MetricsAddr, "MIDIWIRE_METRICS_ADDR")
	setString(&cfg.Observability.LogLevel, "MIDIWIRE_LOG_LEVEL")
	setString(&cfg.Observability.LogFormat, "MIDIWIRE_LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
