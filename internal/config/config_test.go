package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "CART_STORAGE", "CART_TTL_HOURS", "CORS_ALLOWED_ORIGINS", "REDIS_DB"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.CartStorage != "postgres" {
		t.Fatalf("unexpected storage %q", cfg.CartStorage)
	}
	if cfg.CartTTL != 7*24*time.Hour {
		t.Fatalf("unexpected cart ttl %s", cfg.CartTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CART_STORAGE", "Redis")
	t.Setenv("CART_TTL_HOURS", "2")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := FromEnv()
	if cfg.CartStorage != "redis" {
		t.Fatalf("expected lowercased storage, got %q", cfg.CartStorage)
	}
	if cfg.CartTTL != 2*time.Hour || cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected durations %s %s", cfg.CartTTL, cfg.ShutdownTimeout)
	}
	if cfg.RedisDB != 4 {
		t.Fatalf("unexpected redis db %d", cfg.RedisDB)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("CART_TTL_HOURS", "soon")
	t.Setenv("REDIS_DB", "x")
	cfg := FromEnv()
	if cfg.CartTTL != 7*24*time.Hour || cfg.RedisDB != 0 {
		t.Fatalf("expected defaults, got %s %d", cfg.CartTTL, cfg.RedisDB)
	}
}
