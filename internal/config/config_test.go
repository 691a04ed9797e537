package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.API.BaseURL != "http://localhost:8080/api" {
		t.Errorf("BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.API.Delay != 300*time.Millisecond {
		t.Errorf("Delay = %v", cfg.API.Delay)
	}
	if cfg.Notify.TTL != 5*time.Second {
		t.Errorf("TTL = %v", cfg.Notify.TTL)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.yaml")
	data := []byte("api:\n  base_url: http://staging:9090/api\n  delay: 50ms\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.API.BaseURL != "http://staging:9090/api" {
		t.Errorf("BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.API.Delay != 50*time.Millisecond {
		t.Errorf("Delay = %v", cfg.API.Delay)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %s", cfg.Log.Level)
	}
	// Unspecified sections keep defaults.
	if cfg.Notify.TTL != 5*time.Second {
		t.Errorf("TTL = %v", cfg.Notify.TTL)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadFromPath() succeeded on missing file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("POINTS_API_BASE_URL", "http://override:7070/api")
	t.Setenv("POINTS_API_DELAY", "0s")

	cfg := LoadOrDefault()
	if cfg.API.BaseURL != "http://override:7070/api" {
		t.Errorf("BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.API.Delay != 0 {
		t.Errorf("Delay = %v", cfg.API.Delay)
	}
}

func TestValidateRejectsNegativeDelay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.yaml")
	if err := os.WriteFile(path, []byte("api:\n  delay: -1s\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("LoadFromPath() accepted negative delay")
	}
}
