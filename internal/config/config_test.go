package config

import "testing"

func TestValidate_DevWithoutAuth(t *testing.T) {
	cfg := &Config{Env: "development"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("dev mode should not require auth config: %v", err)
	}
}

func TestValidate_ProductionRequiresAuth(t *testing.T) {
	cfg := &Config{Env: "production"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when production runs without auth config")
	}
}

func TestValidate_ShortSigningKey(t *testing.T) {
	cfg := &Config{Env: "production", AuthSigningKey: "short"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short signing key")
	}
}

func TestValidate_ProductionWithSigningKey(t *testing.T) {
	cfg := &Config{Env: "production", AuthSigningKey: "0123456789abcdef0123456789abcdef"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsDev(t *testing.T) {
	if !(&Config{Env: "development"}).IsDev() {
		t.Error("expected IsDev true for development")
	}
	if (&Config{Env: "production"}).IsDev() {
		t.Error("expected IsDev false for production")
	}
}
