package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != ModeAsync {
		t.Errorf("expected mode async, got %q", cfg.Server.Mode)
	}
	if cfg.Storage.Prefix != "audio" {
		t.Errorf("expected prefix audio, got %q", cfg.Storage.Prefix)
	}
	if cfg.Extraction.AudioQuality != "192" {
		t.Errorf("expected quality 192, got %q", cfg.Extraction.AudioQuality)
	}
	if cfg.Extraction.Timeout != 0 {
		t.Errorf("expected no extraction timeout, got %v", cfg.Extraction.Timeout)
	}
	if cfg.Callback.Timeout != 10*time.Second {
		t.Errorf("expected callback timeout 10s, got %v", cfg.Callback.Timeout)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  port: 9090
  mode: sync
storage:
  bucket: podcasts
extraction:
  timeout: 5m
callback:
  timeout: 3s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != ModeSync {
		t.Errorf("expected mode sync, got %q", cfg.Server.Mode)
	}
	if cfg.Storage.Bucket != "podcasts" {
		t.Errorf("expected bucket podcasts, got %q", cfg.Storage.Bucket)
	}
	if cfg.Storage.Prefix != "audio" {
		t.Errorf("unset prefix should keep default, got %q", cfg.Storage.Prefix)
	}
	if cfg.Extraction.Timeout != 5*time.Minute {
		t.Errorf("expected extraction timeout 5m, got %v", cfg.Extraction.Timeout)
	}
	if cfg.Callback.Timeout != 3*time.Second {
		t.Errorf("expected callback timeout 3s, got %v", cfg.Callback.Timeout)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Storage.Bucket = "roundtrip"
	cfg.Extraction.Timeout = 90 * time.Second

	if err := Save(cfg, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Storage.Bucket != "roundtrip" {
		t.Errorf("expected bucket roundtrip, got %q", loaded.Storage.Bucket)
	}
	if loaded.Extraction.Timeout != 90*time.Second {
		t.Errorf("expected timeout 90s, got %v", loaded.Extraction.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty bucket allowed", mutate: func(c *Config) { c.Storage.Bucket = "" }},
		{name: "bad mode", mutate: func(c *Config) { c.Server.Mode = "batch" }, wantErr: true},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "no work dir", mutate: func(c *Config) { c.Extraction.WorkDir = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	if err := LoadDotEnv(filepath.Join(dir, ".env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("AUDIO_BRIDGE_TEST_KEY=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AUDIO_BRIDGE_TEST_KEY", "")
	os.Unsetenv("AUDIO_BRIDGE_TEST_KEY")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("AUDIO_BRIDGE_TEST_KEY"); got != "from-dotenv" {
		t.Errorf("expected from-dotenv, got %q", got)
	}
}
