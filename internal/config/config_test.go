package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
	}
	if cfg.NBAStatsMaxRetries != 3 {
		t.Fatalf("unexpected NBAStatsMaxRetries: %d", cfg.NBAStatsMaxRetries)
	}
	if cfg.SyncWorkerCount != 3 {
		t.Fatalf("unexpected SyncWorkerCount: %d", cfg.SyncWorkerCount)
	}
}

func TestLoad_NBAStatsConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NBASTATS_BASE_URL", "https://stats.example.com/v1")
	t.Setenv("NBASTATS_API_KEY", "key-123")
	t.Setenv("NBASTATS_TIMEOUT", "7s")
	t.Setenv("NBASTATS_MAX_RETRIES", "5")
	t.Setenv("NBASTATS_REQUESTS_PER_MINUTE", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NBAStatsBaseURL != "https://stats.example.com/v1" {
		t.Fatalf("unexpected NBAStatsBaseURL: %q", cfg.NBAStatsBaseURL)
	}
	if cfg.NBAStatsAPIKey != "key-123" {
		t.Fatalf("unexpected NBAStatsAPIKey")
	}
	if cfg.NBAStatsTimeout != 7*time.Second {
		t.Fatalf("unexpected NBAStatsTimeout: %s", cfg.NBAStatsTimeout)
	}
	if cfg.NBAStatsMaxRetries != 5 {
		t.Fatalf("unexpected NBAStatsMaxRetries: %d", cfg.NBAStatsMaxRetries)
	}
	if cfg.NBAStatsRequestsPerMinute != 30 {
		t.Fatalf("unexpected NBAStatsRequestsPerMinute: %d", cfg.NBAStatsRequestsPerMinute)
	}
}

func TestLoad_ProdRequiresAPIKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("NBASTATS_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APP_ENV=prod without NBASTATS_API_KEY")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_APITokenMap(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_TOKENS", "abc123:u-1, def456:u-2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got := cfg.APITokens["abc123"]; got != "u-1" {
		t.Fatalf("unexpected user for abc123: %q", got)
	}
	if got := cfg.APITokens["def456"]; got != "u-2" {
		t.Fatalf("unexpected user for def456: %q", got)
	}
}

func TestLoad_APITokenMapRejectsMalformedItems(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_TOKENS", "missing-user-id")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed API_TOKENS item")
	}
}

func TestLoad_PageSizeBounds(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NBASTATS_PAGE_SIZE", "500")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for out-of-range NBASTATS_PAGE_SIZE")
	}
}
