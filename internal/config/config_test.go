package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_GEMINI_API_KEY", "test-key")
	t.Setenv("POSTGRES_HOST", "db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Postgres.Host != "db" || cfg.Postgres.Port != 5432 {
		t.Fatalf("unexpected postgres config: %+v", cfg.Postgres)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected gemini model %q", cfg.Gemini.Model)
	}
	if cfg.Cache.SnapshotTTL != 10*time.Minute {
		t.Fatalf("unexpected snapshot ttl %v", cfg.Cache.SnapshotTTL)
	}
}

func TestLoadRequiresGeminiKey(t *testing.T) {
	t.Setenv("GOOGLE_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error without gemini key")
	}
}

func TestLoadInstagramTokenNeedsAccountID(t *testing.T) {
	t.Setenv("GOOGLE_GEMINI_API_KEY", "test-key")
	t.Setenv("INSTAGRAM_ACCESS_TOKEN", "token")
	t.Setenv("INSTAGRAM_BUSINESS_ACCOUNT_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for token without account id")
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION_GO", "90s")
	t.Setenv("TEST_DURATION_SECONDS", "30")
	t.Setenv("TEST_DURATION_BAD", "soon")

	if got := getEnvDuration("TEST_DURATION_GO", time.Second); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	if got := getEnvDuration("TEST_DURATION_SECONDS", time.Second); got != 30*time.Second {
		t.Fatalf("expected 30s, got %v", got)
	}
	if got := getEnvDuration("TEST_DURATION_BAD", time.Second); got != time.Second {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestPostgresURL(t *testing.T) {
	p := PostgresConfig{Host: "h", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	if got, want := p.URL(), "postgres://u:p@h:5433/d?sslmode=disable"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
