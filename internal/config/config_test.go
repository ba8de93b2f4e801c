package config

import (
	"testing"
	"time"
)

var envKeys = []string{
	"BARBERQ_HTTP_ADDR", "HTTP_ADDR", "BARBERQ_PORT", "PORT",
	"BARBERQ_HTTP_ALLOWED_ORIGIN", "ALLOWED_ORIGIN",
	"BARBERQ_HTTP_RATE_LIMIT_PER_MINUTE", "BARBERQ_HTTP_REQUEST_TIMEOUT",
	"BARBERQ_GRPC_HEALTH_ADDR", "GRPC_ADDR", "BARBERQ_GRPC_REQUEST_TIMEOUT",
	"BARBERQ_STORE_DRIVER", "BARBERQ_DATABASE_URL", "DATABASE_URL",
	"BARBERQ_DATABASE_AUTO_MIGRATE",
	"BARBERQ_AUTH_JWT_SECRET", "JWT_SECRET", "BARBERQ_AUTH_ISSUER",
	"BARBERQ_REDIS_ADDR", "REDIS_ADDR", "BARBERQ_REDIS_SLOT_TTL",
	"BARBERQ_EXPIRY_SWEEP_SCHEDULE", "BARBERQ_SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT",
	"BARBERQ_LOG_LEVEL", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without a jwt secret")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BARBERQ_AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.GRPCHealthAddr != ":50051" {
		t.Fatalf("addrs = %q %q", cfg.HTTPAddr, cfg.GRPCHealthAddr)
	}
	if cfg.StoreDriver != StoreDriverPostgres || !cfg.AutoMigrate {
		t.Fatalf("store = %q automigrate = %v", cfg.StoreDriver, cfg.AutoMigrate)
	}
	if cfg.RateLimitPerMinute != 600 || cfg.HTTPRequestTimeout != 10*time.Second {
		t.Fatalf("http = %d %v", cfg.RateLimitPerMinute, cfg.HTTPRequestTimeout)
	}
	if cfg.RedisAddr != "" || cfg.SlotCacheTTL != 30*time.Second {
		t.Fatalf("redis = %q %v", cfg.RedisAddr, cfg.SlotCacheTTL)
	}
	if cfg.SweepSchedule != "@every 5m" || cfg.ProbeSchedule != "@every 15s" {
		t.Fatalf("schedules = %q %q", cfg.SweepSchedule, cfg.ProbeSchedule)
	}
	if cfg.ShutdownTimeout != 10*time.Second || cfg.LogLevel != "info" {
		t.Fatalf("shutdown = %v level = %q", cfg.ShutdownTimeout, cfg.LogLevel)
	}
}

func TestLoad_OverridesAndAliases(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "from-alias")
	t.Setenv("PORT", "9090")
	t.Setenv("BARBERQ_STORE_DRIVER", "Memory")
	t.Setenv("BARBERQ_REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("BARBERQ_REDIS_SLOT_TTL", "1m")
	t.Setenv("BARBERQ_HTTP_RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("BARBERQ_DATABASE_AUTO_MIGRATE", "false")
	t.Setenv("ALLOWED_ORIGIN", "https://book.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.JWTSecret != "from-alias" {
		t.Fatalf("secret = %q", cfg.JWTSecret)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("http addr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.StoreDriver != StoreDriverMemory {
		t.Fatalf("driver = %q", cfg.StoreDriver)
	}
	if cfg.RedisAddr != "127.0.0.1:6379" || cfg.SlotCacheTTL != time.Minute {
		t.Fatalf("redis = %q %v", cfg.RedisAddr, cfg.SlotCacheTTL)
	}
	if cfg.RateLimitPerMinute != 0 || cfg.AutoMigrate {
		t.Fatalf("rate = %d automigrate = %v", cfg.RateLimitPerMinute, cfg.AutoMigrate)
	}
	if cfg.AllowedOrigin != "https://book.example.com" {
		t.Fatalf("origin = %q", cfg.AllowedOrigin)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := map[string]map[string]string{
		"duration": {"BARBERQ_SHUTDOWN_TIMEOUT": "soon"},
		"driver":   {"BARBERQ_STORE_DRIVER": "dynamodb"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("BARBERQ_AUTH_JWT_SECRET", "s3cret")
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
