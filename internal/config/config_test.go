package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rohangit/ilab-test/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "config-test-secret-key-32-chars!")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.MiddlewareTimeout != 2*time.Minute {
		t.Errorf("expected middleware timeout 2m, got %v", cfg.Server.MiddlewareTimeout)
	}
	if cfg.Auth.Algorithm != "HS256" {
		t.Errorf("expected algorithm HS256, got %q", cfg.Auth.Algorithm)
	}
	if cfg.Auth.AccessTokenTTL != 20*time.Minute {
		t.Errorf("expected access token TTL 20m, got %v", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Quota.DailyLimit != 10 {
		t.Errorf("expected daily limit 10, got %d", cfg.Quota.DailyLimit)
	}
	if cfg.LLM.FallbackMessage == "" {
		t.Error("expected a fallback message default")
	}
}

func TestLoad_FileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  middleware_timeout: 45s\n  port: 9090\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "config-test-secret-key-32-chars!")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.MiddlewareTimeout != 45*time.Second {
		t.Errorf("expected middleware timeout 45s, got %v", cfg.Server.MiddlewareTimeout)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	// Untouched keys keep their defaults.
	if cfg.Quota.DailyLimit != 10 {
		t.Errorf("expected daily limit 10, got %d", cfg.Quota.DailyLimit)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected an error without a JWT secret")
	}
}
