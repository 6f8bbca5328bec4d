// Package config provides the configuration structure for the
// audiobook-service.
package config

import (
	"fmt"
	"time"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Defaults applied by Validate when a field is unset.
const (
	DefaultVoice          = "American Female"
	DefaultMethod         = "auto"
	DefaultMaxChunkSize   = 500
	DefaultWorkers        = 4
	DefaultTimeoutSeconds = 30
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                      string `toml:"url"`
	AudiobookStreamName      string `toml:"audiobook_stream_name"`
	AudiobookConsumerName    string `toml:"audiobook_consumer_name"`
	TextProcessedSubject     string `toml:"text_processed_subject"`
	AudioChunkCreatedSubject string `toml:"audio_chunk_created_subject"`
	TextObjectStoreBucket    string `toml:"text_object_store_bucket"`
	AudioObjectStoreBucket   string `toml:"audio_object_store_bucket"`
}

// SynthesisConfig holds the defaults applied to render requests that do
// not specify their own.
type SynthesisConfig struct {
	Voice          string `toml:"voice"`
	Method         string `toml:"method"`
	MaxChunkSize   int    `toml:"max_chunk_size"`
	Workers        int    `toml:"workers"`
	SystemBinary   string `toml:"system_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// CloudConfig holds the connection settings for the online synthesis
// backend. The API key is deliberately absent: it is read from the
// environment so it never lands in a config file.
type CloudConfig struct {
	Endpoint string `toml:"endpoint"`
	FolderID string `toml:"folder_id"`
}

// Timeout returns the configured per-request synthesis timeout as a
// duration, for handing to the cloud backend.
func (s SynthesisConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
	PersonaFile string `toml:"persona_file"`
}

// Config is the root configuration structure.
type Config struct {
	NATS      NATSConfig      `toml:"nats"`
	Synthesis SynthesisConfig `toml:"synthesis"`
	Cloud     CloudConfig     `toml:"cloud"`
	Paths     PathsConfig     `toml:"paths"`
}

// Load loads the configuration for the audiobook-service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.Validate()

	return &cfg, nil
}

// Validate fills unset synthesis fields with defaults.
func (c *Config) Validate() {
	if c.Synthesis.Voice == "" {
		c.Synthesis.Voice = DefaultVoice
	}

	if c.Synthesis.Method == "" {
		c.Synthesis.Method = DefaultMethod
	}

	if c.Synthesis.MaxChunkSize <= 0 {
		c.Synthesis.MaxChunkSize = DefaultMaxChunkSize
	}

	if c.Synthesis.Workers <= 0 {
		c.Synthesis.Workers = DefaultWorkers
	}

	if c.Synthesis.TimeoutSeconds <= 0 {
		c.Synthesis.TimeoutSeconds = DefaultTimeoutSeconds
	}
}
