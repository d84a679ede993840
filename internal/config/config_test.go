package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	envVars := []string{
		"APP_NAME", "APP_HOST", "APP_PORT",
		"POSTGRES_DSN", "REDIS_ADDR", "REDIS_DB", "LOG_LEVEL",
		"AUTH_JWT_SECRET", "AUTH_ACCESS_TOKEN_TTL_MINUTES",
		"INGEST_MEMBER_WINDOW_MINUTES", "INGEST_STAFF_WINDOW_MINUTES",
		"INGEST_DEVICE_CACHE_TTL_SECONDS",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "gym-attendance-service" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "gym-attendance-service")
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Errorf("App.Addr() = %q, want %q", cfg.App.Addr(), "0.0.0.0:8080")
	}
	if cfg.Ingest.MemberWindow() != 5*time.Minute {
		t.Errorf("MemberWindow = %v, want 5m", cfg.Ingest.MemberWindow())
	}
	if cfg.Ingest.StaffWindow() != 10*time.Minute {
		t.Errorf("StaffWindow = %v, want 10m", cfg.Ingest.StaffWindow())
	}
	if cfg.Ingest.DeviceCacheTTL() != 30*time.Second {
		t.Errorf("DeviceCacheTTL = %v, want 30s", cfg.Ingest.DeviceCacheTTL())
	}
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("INGEST_MEMBER_WINDOW_MINUTES", "3")
	os.Setenv("INGEST_STAFF_WINDOW_MINUTES", "20")
	defer os.Unsetenv("INGEST_MEMBER_WINDOW_MINUTES")
	defer os.Unsetenv("INGEST_STAFF_WINDOW_MINUTES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Ingest.MemberWindow() != 3*time.Minute {
		t.Errorf("MemberWindow = %v, want 3m", cfg.Ingest.MemberWindow())
	}
	if cfg.Ingest.StaffWindow() != 20*time.Minute {
		t.Errorf("StaffWindow = %v, want 20m", cfg.Ingest.StaffWindow())
	}
}

func TestIngestConfig_WindowFallbacks(t *testing.T) {
	var ingest IngestConfig
	if ingest.MemberWindow() != 5*time.Minute {
		t.Errorf("zero-value MemberWindow = %v, want 5m", ingest.MemberWindow())
	}
	if ingest.StaffWindow() != 10*time.Minute {
		t.Errorf("zero-value StaffWindow = %v, want 10m", ingest.StaffWindow())
	}
	if ingest.DeviceCacheTTL() != 0 {
		t.Errorf("zero-value DeviceCacheTTL = %v, want 0 (disabled)", ingest.DeviceCacheTTL())
	}
}
