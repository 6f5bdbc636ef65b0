package config

import (
	"strings"
	"testing"
	"time"
)

// --- テスト ---

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/noteman?sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RECAPTCHA_SECRET", "captcha-secret")
}

func TestLoad_RequiredVariables(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/noteman?sslmode=disable" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Errorf("JWTSecret = %q, want test-secret", cfg.JWTSecret)
	}
	if cfg.CaptchaSecret != "captcha-secret" {
		t.Errorf("CaptchaSecret = %q, want captcha-secret", cfg.CaptchaSecret)
	}
}

func TestLoad_MissingRequiredVariablesListedInError(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("RECAPTCHA_SECRET", "captcha-secret")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	// 欠落している変数はすべてエラーメッセージに列挙される
	for _, name := range []string{"DATABASE_URL", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err.Error(), name)
		}
	}
	if strings.Contains(err.Error(), "RECAPTCHA_SECRET") {
		t.Errorf("error %q should not mention RECAPTCHA_SECRET", err.Error())
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("RECAPTCHA_TIMEOUT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGIN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.TokenTTL != 1*time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.CaptchaTimeout != 10*time.Second {
		t.Errorf("CaptchaTimeout = %v, want 10s", cfg.CaptchaTimeout)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.CORSAllowedOrigin != "http://localhost:3000" {
		t.Errorf("CORSAllowedOrigin = %q, want http://localhost:3000", cfg.CORSAllowedOrigin)
	}
}

func TestLoad_OptionalOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("RECAPTCHA_VERIFY_URL", "http://localhost:9999/verify")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.CaptchaVerifyURL != "http://localhost:9999/verify" {
		t.Errorf("CaptchaVerifyURL = %q", cfg.CaptchaVerifyURL)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
}

func TestLoad_InvalidOptionalValuesFallBackToDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_TTL", "not-a-duration")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.TokenTTL != 1*time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
}
