// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/sergio129/zafiralex-sub000/internal/model"
)

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")

	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{"invalid email", CreateUserRequest{Email: "nope", Name: "N", Role: "editor", Password: "long-enough-pass"}},
		{"unknown role", CreateUserRequest{Email: "a@b.com", Name: "N", Role: "superuser", Password: "long-enough-pass"}},
		{"short password", CreateUserRequest{Email: "a@b.com", Name: "N", Role: "editor", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", jsonBody(t, tt.req)), admin)
			w := httptest.NewRecorder()
			env.handler.CreateUser(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	env.createUser(t, "taken@example.com", "editor")

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", jsonBody(t, CreateUserRequest{
		Email:    "Taken@Example.com",
		Name:     "Dup",
		Role:     "editor",
		Password: "long-enough-pass",
	})), admin)
	w := httptest.NewRecorder()
	env.handler.CreateUser(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for duplicate email", w.Code)
	}
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", jsonBody(t, CreateUserRequest{
		Email:    "abogado@example.com",
		Name:     "Carlos Ruiz",
		Role:     "abogado",
		Password: "long-enough-pass",
	})), admin)
	w := httptest.NewRecorder()
	env.handler.CreateUser(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var resp UserResponse
	decodeData(t, w.Body.Bytes(), &resp)
	if resp.Role != "abogado" {
		t.Errorf("role = %q", resp.Role)
	}

	// The new account can log in right away
	login := doLogin(t, env, "abogado@example.com", "long-enough-pass")
	if login.Code != http.StatusOK {
		t.Errorf("new user login status = %d, want 200", login.Code)
	}
}

func TestCannotDemoteLastAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")

	id := strconv.FormatInt(admin.ID, 10)
	role := "editor"
	req := asUser(withURLParam(
		httptest.NewRequest(http.MethodPut, "/api/v1/admin/users/"+id,
			jsonBody(t, UpdateUserRequest{Role: &role})), "id", id), admin)
	w := httptest.NewRecorder()
	env.handler.UpdateUser(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	// Role must be unchanged
	got, err := env.queries.GetUserByID(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("getting user: %v", err)
	}
	if got.Role != "admin" {
		t.Errorf("role = %q, want admin", got.Role)
	}
}

func TestDemoteAdminWithAnotherPresent(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	second := env.createUser(t, "second@example.com", "admin")

	id := strconv.FormatInt(second.ID, 10)
	role := "editor"
	req := asUser(withURLParam(
		httptest.NewRequest(http.MethodPut, "/api/v1/admin/users/"+id,
			jsonBody(t, UpdateUserRequest{Role: &role})), "id", id), admin)
	w := httptest.NewRecorder()
	env.handler.UpdateUser(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp UserResponse
	decodeData(t, w.Body.Bytes(), &resp)
	if resp.Role != "editor" {
		t.Errorf("role = %q, want editor", resp.Role)
	}
}

func TestCannotDeleteSelf(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	env.createUser(t, "second@example.com", "admin")

	id := strconv.FormatInt(admin.ID, 10)
	req := asUser(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/v1/admin/users/"+id, nil), "id", id), admin)
	w := httptest.NewRecorder()
	env.handler.DeleteUser(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCannotDeleteLastAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	actor := env.createUser(t, "editor@example.com", "editor")

	id := strconv.FormatInt(admin.ID, 10)
	req := asUser(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/v1/admin/users/"+id, nil), "id", id), actor)
	w := httptest.NewRecorder()
	env.handler.DeleteUser(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	victim := env.createUser(t, "editor@example.com", "editor")

	id := strconv.FormatInt(victim.ID, 10)
	req := asUser(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/v1/admin/users/"+id, nil), "id", id), admin)
	w := httptest.NewRecorder()
	env.handler.DeleteUser(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestDeleteUserWithContentRejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	author := env.createUser(t, "editor@example.com", "editor")
	article := env.createNews(t, "owned-article", model.NewsStatusDraft, author.ID)

	id := strconv.FormatInt(author.ID, 10)
	req := asUser(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/v1/admin/users/"+id, nil), "id", id), admin)
	w := httptest.NewRecorder()
	env.handler.DeleteUser(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
	if _, err := env.queries.GetUserByID(context.Background(), author.ID); err != nil {
		t.Errorf("author should still exist: %v", err)
	}

	// Once their content is gone the user can be removed
	if err := env.queries.DeleteNews(context.Background(), article.ID); err != nil {
		t.Fatalf("deleting article: %v", err)
	}
	req = asUser(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/v1/admin/users/"+id, nil), "id", id), admin)
	w = httptest.NewRecorder()
	env.handler.DeleteUser(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestChangeUserPassword(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	target := env.createUser(t, "editor@example.com", "editor")

	id := strconv.FormatInt(target.ID, 10)
	req := asUser(withURLParam(
		httptest.NewRequest(http.MethodPut, "/api/v1/admin/users/"+id+"/password",
			jsonBody(t, ChangePasswordRequest{Password: "brand-new-password"})), "id", id), admin)
	w := httptest.NewRecorder()
	env.handler.ChangeUserPassword(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if login := doLogin(t, env, "editor@example.com", "brand-new-password"); login.Code != http.StatusOK {
		t.Errorf("login with new password = %d, want 200", login.Code)
	}
	if login := doLogin(t, env, "editor@example.com", "correct-horse-battery"); login.Code != http.StatusUnauthorized {
		t.Errorf("login with old password = %d, want 401", login.Code)
	}
}

