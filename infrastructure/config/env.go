package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variables that override the file configuration
const (
	EnvBucket          = "GCS_BUCKET"
	EnvPrefix          = "GCS_PREFIX"
	EnvCredentialsFile = "GOOGLE_CREDENTIALS_FILE"
	EnvPort            = "PORT"
	EnvMode            = "DISPATCH_MODE"
	EnvBinary          = "YTDLP_PATH"
	EnvCookiesFile     = "COOKIES_FILE"
	EnvWorkDir         = "WORK_DIR"
	EnvExtractTimeout  = "EXTRACT_TIMEOUT"
	EnvCallbackTimeout = "CALLBACK_TIMEOUT"
)

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from environment variables that are set
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	str(EnvBucket, &c.Storage.Bucket)
	str(EnvPrefix, &c.Storage.Prefix)
	str(EnvCredentialsFile, &c.Storage.CredentialsFile)
	str(EnvMode, &c.Server.Mode)
	str(EnvBinary, &c.Extraction.Binary)
	str(EnvCookiesFile, &c.Extraction.CookiesFile)
	str(EnvWorkDir, &c.Extraction.WorkDir)

	if v, ok := lookup(EnvPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}

	for key, dst := range map[string]*time.Duration{
		EnvExtractTimeout:  &c.Extraction.Timeout,
		EnvCallbackTimeout: &c.Callback.Timeout,
	} {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = d
	}

	return nil
}
