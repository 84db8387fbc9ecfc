package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itglue.yaml")
	content := []byte("api_key: file-key\npage_size: 250\ncache_ttl: 10m\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q, want file-key", cfg.APIKey)
	}
	if cfg.PageSize != 250 {
		t.Errorf("PageSize = %d, want 250", cfg.PageSize)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", cfg.CacheTTL)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itglue.yaml")
	if err := os.WriteFile(path, []byte("api_key: file-key\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("ITGLUE_API_KEY", "env-key")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key (environment takes precedence)", cfg.APIKey)
	}
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // no $HOME/.itglue.yaml
	t.Setenv("ITGLUE_API_KEY", "env-key")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.APIKey)
	}
	if cfg.PageSize != 1000 {
		t.Errorf("PageSize = %d, want default 1000", cfg.PageSize)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want default 5m", cfg.CacheTTL)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() accepted a missing explicit config file")
	}
}

func TestLoadConfig_NoCredentials(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ITGLUE_API_KEY", "")
	t.Setenv("ITGLUE_EMAIL", "")

	_, err := LoadConfig("")
	if err == nil {
		t.Fatal("LoadConfig() accepted empty credentials")
	}
}
