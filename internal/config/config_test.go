package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost:5432/chirpy?sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("POLKA_KEY", "test-polka-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.ServerAddr != ":8080" {
		t.Errorf("server addr = %q, want :8080", cfg.ServerAddr)
	}
	if cfg.Platform != "dev" {
		t.Errorf("platform = %q, want dev", cfg.Platform)
	}
	if cfg.AccessTokenTTL != DefaultAccessTokenTTL {
		t.Errorf("access TTL = %v, want %v", cfg.AccessTokenTTL, DefaultAccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != DefaultRefreshTokenTTL {
		t.Errorf("refresh TTL = %v, want %v", cfg.RefreshTokenTTL, DefaultRefreshTokenTTL)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []string{"DB_URL", "JWT_SECRET", "POLKA_KEY"}

	for _, missing := range tests {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(missing, "")

			if _, err := Load(); err == nil {
				t.Errorf("load should fail without %s", missing)
			}
		})
	}
}

func TestLoadTokenTTLs(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("REFRESH_TOKEN_TTL", "720h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("access TTL = %v, want 15m", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 720*time.Hour {
		t.Errorf("refresh TTL = %v, want 720h", cfg.RefreshTokenTTL)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not a duration", "soon"},
		{"zero", "0s"},
		{"negative", "-1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("ACCESS_TOKEN_TTL", tt.value)

			if _, err := Load(); err == nil {
				t.Error("load should reject the TTL")
			}
		})
	}
}
