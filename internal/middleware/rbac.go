// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/sergio129/zafiralex-sub000/internal/rbac"
)

// RequirePermission creates middleware that checks the current user's role
// against the permission table. It must run after Authenticate. Denied
// requests get a 403 and are logged for auditing.
func RequirePermission(module rbac.Module, action rbac.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				writeUnauthorized(w)
				return
			}

			if !rbac.Allowed(rbac.Role(user.Role), module, action) {
				slog.Warn("permission denied",
					"category", "auth",
					"user_id", user.ID,
					"role", user.Role,
					"module", string(module),
					"action", string(action),
					"path", r.URL.Path,
				)
				WriteAPIError(w, http.StatusForbidden, "forbidden", "You do not have permission to perform this action", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that only lets administrators through.
// It must run after Authenticate.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				writeUnauthorized(w)
				return
			}

			if !user.IsAdmin() {
				slog.Warn("permission denied",
					"category", "auth",
					"user_id", user.ID,
					"role", user.Role,
					"path", r.URL.Path,
				)
				WriteAPIError(w, http.StatusForbidden, "forbidden", "You do not have permission to perform this action", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
