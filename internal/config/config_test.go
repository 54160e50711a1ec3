package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "DB_DRIVER", "MINIO_ENDPOINT", "REDIS_ADDR", "REDIS_TTL",
		"AUTH_ENABLED", "ROSTER_BASE_URL", "APP_PUBLIC_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.App.Port != "8080" {
		t.Errorf("App.Port = %q", cfg.App.Port)
	}
	if cfg.Database.Driver != "pgx" {
		t.Errorf("Database.Driver = %q", cfg.Database.Driver)
	}
	if !cfg.App.AuthEnabled {
		t.Error("auth should be enabled by default")
	}
	if cfg.MinIO.Enabled() {
		t.Error("MinIO should be disabled without endpoint")
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis should be disabled without address")
	}
	if cfg.Redis.TTL != 5*time.Minute {
		t.Errorf("Redis.TTL = %v", cfg.Redis.TTL)
	}
	if cfg.Client.BaseURL != "http://localhost:8080/api/v1" {
		t.Errorf("Client.BaseURL = %q", cfg.Client.BaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TTL", "not-a-duration")
	t.Setenv("ROSTER_BASE_URL", "http://10.0.2.2:3000/")

	cfg := Load()

	if cfg.App.Port != "9090" {
		t.Errorf("App.Port = %q", cfg.App.Port)
	}
	if cfg.Database.Driver != "sqlite3" {
		t.Errorf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.App.AuthEnabled {
		t.Error("AUTH_ENABLED=false ignored")
	}
	if !cfg.Redis.Enabled() {
		t.Error("Redis should be enabled")
	}
	if cfg.Redis.TTL != 5*time.Minute {
		t.Errorf("invalid TTL should fall back, got %v", cfg.Redis.TTL)
	}
	if cfg.Client.BaseURL != "http://10.0.2.2:3000" {
		t.Errorf("trailing slash not trimmed: %q", cfg.Client.BaseURL)
	}
}
