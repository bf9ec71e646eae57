package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "MESH_DEFAULT_LEVEL", "H3_RES", "REDIS_ADDR", "CACHE_TTL", "METRICS_ENABLED"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Addr != ":8090" {
		t.Fatalf("Addr=%q want :8090", cfg.Addr)
	}
	if cfg.DefaultLevel != 3 || cfg.H3Res != 8 {
		t.Fatalf("level=%d res=%d want 3/8", cfg.DefaultLevel, cfg.H3Res)
	}
	if cfg.Cache.RedisAddr != "" {
		t.Fatalf("redis should be disabled by default, got %q", cfg.Cache.RedisAddr)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Fatalf("TTL=%v want 1h", cfg.Cache.TTL)
	}
	if cfg.Metrics.Enabled {
		t.Fatal("metrics listener should be off by default")
	}
}

func TestFromEnv_OverridesAndClamps(t *testing.T) {
	t.Setenv("MESH_DEFAULT_LEVEL", "6")
	t.Setenv("H3_RES", "16")
	t.Setenv("CACHE_OP_TIMEOUT", "1s")
	t.Setenv("LOG_CONSOLE", "yes")
	t.Setenv("REDIS_ADDR", " localhost:6379 ")

	cfg := FromEnv()
	if cfg.DefaultLevel != 6 {
		t.Fatalf("DefaultLevel=%d want 6", cfg.DefaultLevel)
	}
	if cfg.H3Res != 8 {
		t.Fatalf("out-of-range H3_RES should fall back to 8, got %d", cfg.H3Res)
	}
	if cfg.Cache.OpTimeout != time.Second {
		t.Fatalf("OpTimeout=%v want 1s", cfg.Cache.OpTimeout)
	}
	if !cfg.LogConsole {
		t.Fatal("LOG_CONSOLE=yes should enable console logging")
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Fatalf("RedisAddr=%q", cfg.Cache.RedisAddr)
	}

	t.Setenv("MESH_DEFAULT_LEVEL", "0")
	if got := FromEnv().DefaultLevel; got != 3 {
		t.Fatalf("invalid level should fall back to 3, got %d", got)
	}
}
