package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/auth"
	"github.com/sergio129/zafiralex-sub000/internal/rbac"
)

// SeedParams holds the bootstrap admin account configuration.
type SeedParams struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Seed creates the bootstrap admin account if no user with that email exists.
// An empty AdminPassword disables seeding so production deployments must opt in.
func Seed(ctx context.Context, db *sql.DB, params SeedParams) error {
	if params.AdminPassword == "" {
		slog.Info("no bootstrap admin password configured, skipping seed")
		return nil
	}

	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, params.AdminEmail)
	if err == nil {
		slog.Info("bootstrap admin already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for bootstrap admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(params.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        params.AdminEmail,
		PasswordHash: passwordHash,
		Role:         string(rbac.RoleAdmin),
		Name:         params.AdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating bootstrap admin: %w", err)
	}

	slog.Info("created bootstrap admin user", "id", user.ID, "email", user.Email)
	return nil
}
