package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"audio-bridge/domain/distribution"
	"audio-bridge/domain/media"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Dispatch modes for POST /download-audio
const (
	ModeAsync = "async"
	ModeSync  = "sync"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Callback   CallbackConfig   `yaml:"callback"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Mode            string        `yaml:"mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig contains object storage settings
type StorageConfig struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	PublicHost      string `yaml:"public_host"`
	CredentialsFile string `yaml:"credentials_file"`
}

// ExtractionConfig contains extraction engine settings
type ExtractionConfig struct {
	Binary       string        `yaml:"binary"`
	WorkDir      string        `yaml:"work_dir"`
	AudioQuality string        `yaml:"audio_quality"`
	CookiesFile  string        `yaml:"cookies_file"`
	Timeout      time.Duration `yaml:"timeout"` // zero means no deadline
}

// CallbackConfig contains outbound notification settings
type CallbackConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            ModeAsync,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Prefix:     distribution.DefaultKeyPrefix,
			PublicHost: distribution.DefaultPublicHost,
		},
		Extraction: ExtractionConfig{
			Binary:       "yt-dlp",
			WorkDir:      os.TempDir(),
			AudioQuality: media.DefaultAudioQuality,
			CookiesFile:  "/app/cookies.txt",
		},
		Callback: CallbackConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// Load reads the YAML file at path on top of the defaults
// A missing file is not an error: the service is usually configured from the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file into the process environment
// Variables already set are kept. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would prevent the server from starting
// An empty bucket is allowed and reported per job instead
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Server.Mode != ModeAsync && c.Server.Mode != ModeSync {
		return fmt.Errorf("invalid mode %q (expected %q or %q)", c.Server.Mode, ModeAsync, ModeSync)
	}
	if c.Extraction.WorkDir == "" {
		return fmt.Errorf("extraction work_dir is required")
	}
	return nil
}
