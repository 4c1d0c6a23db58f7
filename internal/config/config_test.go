package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.TileSize != 256 {
		t.Fatalf("TileSize = %d, want 256", cfg.TileSize)
	}
	if cfg.SignTimeout != 10*time.Second {
		t.Fatalf("SignTimeout = %s, want 10s", cfg.SignTimeout)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aperture.yaml")
	content := []byte("http_addr: \":9090\"\ntile_size: 64\nrate_limit_requests: 50\nrate_limit_window: 30s\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.TileSize != 64 {
		t.Fatalf("TileSize = %d, want 64", cfg.TileSize)
	}
	if cfg.RateLimitRequests != 50 || cfg.RateLimitWindow != 30*time.Second {
		t.Fatalf("rate limit = %d/%s, want 50/30s", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APERTURE_TILE_SIZE", "128")
	t.Setenv("APERTURE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TileSize != 128 {
		t.Fatalf("TileSize = %d, want 128", cfg.TileSize)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidTileSize(t *testing.T) {
	t.Setenv("APERTURE_TILE_SIZE", "0")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for zero tile size")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/aperture.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
