// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"secreto-super-seguro-cambiar-ya!!",
}

// MinJWTSecretLength is the minimum required length for the JWT signing secret.
const MinJWTSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"ZLEX_DB_PATH" envDefault:"./data/zafiralex.db"`
	JWTSecret  string `env:"ZLEX_JWT_SECRET,required"`
	ServerHost string `env:"ZLEX_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"ZLEX_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"ZLEX_ENV" envDefault:"development"`
	LogLevel   string `env:"ZLEX_LOG_LEVEL" envDefault:"info"`

	// File storage
	UploadsDir   string `env:"ZLEX_UPLOADS_DIR" envDefault:"./uploads"`     // Public assets (news images)
	DocumentsDir string `env:"ZLEX_DOCUMENTS_DIR" envDefault:"./documents"` // Private document storage

	// Bootstrap admin account created on first start
	AdminEmail    string `env:"ZLEX_ADMIN_EMAIL" envDefault:"admin@zafiralex.example"`
	AdminPassword string `env:"ZLEX_ADMIN_PASSWORD"`
	AdminName     string `env:"ZLEX_ADMIN_NAME" envDefault:"Administrator"`
	DoSeed        bool   `env:"ZLEX_DO_SEED" envDefault:"true"`

	// Audit event retention, in days. Events older than this are purged nightly.
	EventRetentionDays int `env:"ZLEX_EVENT_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("ZLEX_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("ZLEX_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("ZLEX_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
