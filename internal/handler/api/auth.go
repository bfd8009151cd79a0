// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/auth"
	"github.com/sergio129/zafiralex-sub000/internal/middleware"
	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/rbac"
	"github.com/sergio129/zafiralex-sub000/internal/store"
)

// LoginRequest is the request body for POST /api/v1/auth/login.
// Username carries the account email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID          int64         `json:"id"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Role        string        `json:"role"`
	Modules     []rbac.Module `json:"modules"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func userToResponse(u model.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Modules:   rbac.ModulesFor(rbac.Role(u.Role)),
		CreatedAt: u.CreatedAt,
	}
	if u.LastLoginAt.Valid {
		resp.LastLoginAt = &u.LastLoginAt.Time
	}
	return resp
}

// writeInvalidCredentials sends the uniform response for any credential
// failure so that account enumeration is not possible.
func writeInvalidCredentials(w http.ResponseWriter) {
	WriteUnauthorized(w, "Invalid username or password")
}

// Login handles POST /api/v1/auth/login. On success it sets the session
// cookie and returns the user profile.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := clientIP(r)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteBadRequest(w, "Username and password are required", nil)
		return
	}

	if locked, remaining := h.protection.IsAccountLocked(req.Username); locked {
		slog.Warn("login attempt on locked account", "category", "auth", "ip", ip)
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			"Account temporarily locked. Try again in "+remaining.Round(time.Minute).String(), nil)
		return
	}

	user, err := h.queries.GetUserByEmail(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("failed to look up user", "error", err)
			WriteInternalError(w, "Login failed")
			return
		}
		// Unknown account counts as a failed attempt too
		h.protection.RecordFailedAttempt(req.Username)
		_ = h.events.LogLogin(ctx, false, nil, ip, r.UserAgent())
		writeInvalidCredentials(w)
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.protection.RecordFailedAttempt(req.Username)
		_ = h.events.LogLogin(ctx, false, &user.ID, ip, r.UserAgent())
		writeInvalidCredentials(w)
		return
	}

	h.protection.RecordSuccessfulLogin(req.Username)

	// Transparently upgrade hashes created with older parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, hashErr := auth.HashPassword(req.Password); hashErr == nil {
			_ = h.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			})
		}
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}

	_ = h.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now(), Valid: true},
		ID:          user.ID,
	})
	_ = h.events.LogLogin(ctx, true, &user.ID, ip, r.UserAgent())

	http.SetCookie(w, h.sessionCookie(token, int(auth.TokenLifetime.Seconds())))

	WriteSuccess(w, userToResponse(user), nil)
}

// Logout handles POST /api/v1/auth/logout by expiring the session cookie.
// The token itself stays valid until it expires; there is no server-side
// revocation list.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))

	if userID := middleware.GetUserIDPtr(r); userID != nil {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "Logout", userID, clientIP(r), nil)
	}

	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}

// Me handles GET /api/v1/auth/me. Runs behind Authenticate, so the context
// user reflects the current database state.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	WriteSuccess(w, userToResponse(*user), nil)
}

// sessionCookie builds the auth cookie with the given value and lifetime.
func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
