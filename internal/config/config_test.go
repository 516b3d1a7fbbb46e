package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.RequestTimeout != 30*time.Second {
		t.Errorf("request_timeout = %s", cfg.API.RequestTimeout)
	}
	if cfg.Redis.Enabled {
		t.Error("redis enabled by default")
	}
	if cfg.Redis.SnapshotTTL != 15*time.Minute {
		t.Errorf("snapshot_ttl = %s", cfg.Redis.SnapshotTTL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MRP_API_URL", "https://mrp.example.com")
	t.Setenv("MRP_API_TOKEN", "key-1")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://mrp.example.com" {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Token != "key-1" {
		t.Errorf("token = %q", cfg.API.Token)
	}
	if !cfg.Redis.Enabled {
		t.Error("REDIS_ENABLED override ignored")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}
