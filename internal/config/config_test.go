// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "ZLEX_JWT_SECRET", "test-secret-key-32-bytes-long!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/zafiralex.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/zafiralex.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.EventRetentionDays != 90 {
		t.Errorf("EventRetentionDays = %d, want 90", cfg.EventRetentionDays)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	customSecret := "custom-secret-key-32-bytes-long!"
	setEnv(t, "ZLEX_JWT_SECRET", customSecret)
	setEnv(t, "ZLEX_DB_PATH", "/custom/path.db")
	setEnv(t, "ZLEX_SERVER_HOST", "0.0.0.0")
	setEnv(t, "ZLEX_SERVER_PORT", "3000")
	setEnv(t, "ZLEX_ENV", "production")
	setEnv(t, "ZLEX_ADMIN_EMAIL", "root@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.JWTSecret != customSecret {
		t.Errorf("JWTSecret = %q, want %q", cfg.JWTSecret, customSecret)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want 0.0.0.0:3000", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("production env reported as development")
	}
	if cfg.AdminEmail != "root@example.com" {
		t.Errorf("AdminEmail = %q", cfg.AdminEmail)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()
	if _, err := Load(); err == nil {
		t.Fatal("Load() without ZLEX_JWT_SECRET should fail")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "ZLEX_JWT_SECRET", "too-short")
	if _, err := Load(); err == nil {
		t.Fatal("Load() with short secret should fail")
	}
}

func TestLoad_KnownWeakSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "ZLEX_JWT_SECRET", "change-me-to-32-byte-secret-key!")
	if _, err := Load(); err == nil {
		t.Fatal("Load() with known weak secret should fail")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"abcdefghijklmnopqrstuvwxyz", false},
		{"abcABC123", true},
		{"abc123!@#", true},
		{"aaaaaaaaaaaaaaaa1111111111111111", false},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
