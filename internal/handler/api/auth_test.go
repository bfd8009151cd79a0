// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sergio129/zafiralex-sub000/internal/middleware"
)

func doLogin(t *testing.T, env *testEnv, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		jsonBody(t, LoginRequest{Username: username, Password: password}))
	w := httptest.NewRecorder()
	env.handler.Login(w, req)
	return w
}

func authCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			return c
		}
	}
	return nil
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin@example.com", "admin")

	w := doLogin(t, env, "admin@example.com", "correct-horse-battery")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	cookie := authCookie(t, w)
	if cookie == nil {
		t.Fatal("auth cookie not set")
	}
	if !cookie.HttpOnly {
		t.Error("auth cookie should be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("auth cookie should be SameSite=Lax")
	}
	if cookie.Value == "" {
		t.Error("auth cookie is empty")
	}
	if _, err := env.tokens.Verify(cookie.Value); err != nil {
		t.Errorf("cookie does not hold a valid token: %v", err)
	}

	var user UserResponse
	decodeData(t, w.Body.Bytes(), &user)
	if user.Email != "admin@example.com" || user.Role != "admin" {
		t.Errorf("unexpected user response: %+v", user)
	}
	if len(user.Modules) == 0 {
		t.Error("admin should list accessible modules")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin@example.com", "admin")

	w := doLogin(t, env, "admin@example.com", "wrong-password")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if authCookie(t, w) != nil {
		t.Error("no cookie should be set on failed login")
	}
}

func TestLoginUnknownUserSameResponse(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin@example.com", "admin")

	wrongPassword := doLogin(t, env, "admin@example.com", "wrong-password")
	unknownUser := doLogin(t, env, "nobody@example.com", "wrong-password")

	if wrongPassword.Code != unknownUser.Code {
		t.Errorf("status codes differ: %d vs %d", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Error("wrong password and unknown user must produce identical responses")
	}
}

func TestLoginLockout(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin@example.com", "admin")

	// Protection allows 3 failures before locking
	for i := 0; i < 3; i++ {
		w := doLogin(t, env, "admin@example.com", "wrong-password")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i+1, w.Code)
		}
	}

	w := doLogin(t, env, "admin@example.com", "correct-horse-battery")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 when locked", w.Code)
	}
	if code := decodeErrorCode(t, w.Body.Bytes()); code != "account_locked" {
		t.Errorf("error code = %q, want account_locked", code)
	}
}

func TestLoginEmptyCredentials(t *testing.T) {
	env := newTestEnv(t)

	w := doLogin(t, env, "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "admin@example.com", "admin")

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), user)
	w := httptest.NewRecorder()
	env.handler.Logout(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	cookie := authCookie(t, w)
	if cookie == nil {
		t.Fatal("expiring cookie not set")
	}
	if cookie.Value != "" || cookie.MaxAge != -1 {
		t.Errorf("cookie not cleared: value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "editor@example.com", "editor")

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), user)
	w := httptest.NewRecorder()
	env.handler.Me(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp UserResponse
	decodeData(t, w.Body.Bytes(), &resp)
	if resp.Email != "editor@example.com" {
		t.Errorf("email = %q", resp.Email)
	}
	// Editors have no access to the users module
	for _, m := range resp.Modules {
		if m == "users" {
			t.Error("editor must not list the users module")
		}
	}
}
