package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := loadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Errorf("expected 15m access TTL, got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 168*time.Hour {
		t.Errorf("expected 168h refresh TTL, got %v", cfg.RefreshTTL)
	}
	if cfg.ResetDigestTTL != 15*time.Minute || cfg.ResetMaxPayloadAge != 30*time.Minute {
		t.Errorf("unexpected reset windows: %v / %v", cfg.ResetDigestTTL, cfg.ResetMaxPayloadAge)
	}
	if cfg.VerificationCodeTTL != 5*time.Minute {
		t.Errorf("expected 5m code TTL, got %v", cfg.VerificationCodeTTL)
	}
	if cfg.JWTIssuer != "accountsvc" {
		t.Errorf("expected default issuer, got %s", cfg.JWTIssuer)
	}
	if cfg.ResetKey == "" || cfg.ResetKey == cfg.JWTSecret {
		t.Error("reset key must be derived, non-empty, and distinct from the jwt secret")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("REFRESH_TOKEN_TTL", "24h")
	t.Setenv("RESET_TOKEN_KEY", "explicit-key")
	t.Setenv("REDIS_DB", "3")

	cfg, err := loadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AccessTTL != 30*time.Minute || cfg.RefreshTTL != 24*time.Hour {
		t.Errorf("overrides not applied: %v / %v", cfg.AccessTTL, cfg.RefreshTTL)
	}
	if cfg.ResetKey != "explicit-key" {
		t.Errorf("explicit reset key must win over derivation, got %s", cfg.ResetKey)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.RedisDB)
	}
}

func TestLoadFromEnv_Failures(t *testing.T) {
	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		if _, err := loadFromEnv(); err == nil {
			t.Fatal("expected missing jwt secret to fail")
		}
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("ACCESS_TOKEN_TTL", "soonish")
		if _, err := loadFromEnv(); err == nil {
			t.Fatal("expected malformed TTL to fail")
		}
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := `
app:
  port: 9090
database:
  dsn: "host=db user=acct dbname=acct"
redis:
  addr: "redis:6379"
  db: 1
jwt:
  secret: "file-secret"
  issuer: "acct-test"
  access_ttl: "10m"
session:
  refresh_ttl: "72h"
reset:
  digest_ttl: "20m"
  max_payload_age: "40m"
verification:
  code_ttl: "3m"
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.JWTSecret != "file-secret" || cfg.JWTIssuer != "acct-test" {
		t.Errorf("jwt section not applied: %s / %s", cfg.JWTSecret, cfg.JWTIssuer)
	}
	if cfg.AccessTTL != 10*time.Minute || cfg.RefreshTTL != 72*time.Hour {
		t.Errorf("ttl section not applied: %v / %v", cfg.AccessTTL, cfg.RefreshTTL)
	}
	if cfg.ResetDigestTTL != 20*time.Minute || cfg.ResetMaxPayloadAge != 40*time.Minute {
		t.Errorf("reset section not applied: %v / %v", cfg.ResetDigestTTL, cfg.ResetMaxPayloadAge)
	}
	if cfg.VerificationCodeTTL != 3*time.Minute {
		t.Errorf("verification section not applied: %v", cfg.VerificationCodeTTL)
	}
	if cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 1 {
		t.Errorf("redis section not applied: %s / %d", cfg.RedisAddr, cfg.RedisDB)
	}
}
