// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/rbac"
)

// requestWithUser builds a request whose context carries a user with the
// given role, as Authenticate would leave it.
func requestWithUser(role rbac.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	user := model.User{ID: 1, Email: "u@example.com", Role: string(role)}
	ctx := context.WithValue(req.Context(), ContextKeyUser, user)
	return req.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequirePermissionAllowed(t *testing.T) {
	handler := RequirePermission(rbac.ModuleUsers, rbac.ActionView)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser(rbac.RoleAdmin))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequirePermissionDenied(t *testing.T) {
	tests := []struct {
		name   string
		role   rbac.Role
		module rbac.Module
		action rbac.Action
	}{
		{"editor cannot view users", rbac.RoleEditor, rbac.ModuleUsers, rbac.ActionView},
		{"secretary cannot view news admin", rbac.RoleSecretary, rbac.ModuleNews, rbac.ActionView},
		{"lawyer cannot delete documents", rbac.RoleLawyer, rbac.ModuleDocuments, rbac.ActionDelete},
		{"secretary cannot edit users", rbac.RoleSecretary, rbac.ModuleUsers, rbac.ActionEdit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequirePermission(tt.module, tt.action)(okHandler())

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithUser(tt.role))

			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
		})
	}
}

func TestRequirePermissionNoUser(t *testing.T) {
	handler := RequirePermission(rbac.ModuleNews, rbac.ActionView)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/news", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin()(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser(rbac.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}

	for _, role := range []rbac.Role{rbac.RoleEditor, rbac.RoleSecretary, rbac.RoleLawyer} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithUser(role))
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: status = %d, want 403", role, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/events", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no user: status = %d, want 401", rec.Code)
	}
}

func TestRequirePermissionUnknownRole(t *testing.T) {
	handler := RequirePermission(rbac.ModuleNews, rbac.ActionView)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser(rbac.Role("superuser")))

	if rec.Code != http.StatusForbidden {
		t.Errorf("unknown role: status = %d, want 403", rec.Code)
	}
}
