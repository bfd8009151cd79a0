// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sergio129/zafiralex-sub000/internal/auth"
	"github.com/sergio129/zafiralex-sub000/internal/middleware"
	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/service"
	"github.com/sergio129/zafiralex-sub000/internal/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// testEnv bundles a handler with its database for API tests.
type testEnv struct {
	handler *Handler
	db      *sql.DB
	queries *store.Queries
	tokens  *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	f, err := os.CreateTemp("", "zafiralex-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	f.Close()

	db, err := store.NewDB(f.Name())
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(f.Name())
	})

	tokens := auth.NewTokenManager(testSecret)
	protection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	h := NewHandler(Config{
		DB:            db,
		Tokens:        tokens,
		Documents:     service.NewDocumentService(db, t.TempDir()),
		Protection:    protection,
		ImagesDir:     t.TempDir(),
		SecureCookies: false,
	})

	return &testEnv{handler: h, db: db, queries: store.New(db), tokens: tokens}
}

// createUser inserts a user with the given role and returns it. The
// password is always "correct-horse-battery".
func (e *testEnv) createUser(t *testing.T, email, role string) model.User {
	t.Helper()

	hash, err := auth.HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	now := time.Now()
	user, err := e.queries.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

// createNews inserts an article directly through the store.
func (e *testEnv) createNews(t *testing.T, slug, status string, authorID int64) model.News {
	t.Helper()

	now := time.Now()
	params := store.CreateNewsParams{
		Title:     "Article " + slug,
		Slug:      slug,
		Summary:   "Summary",
		Body:      "Body",
		BodyHTML:  "<p>Body</p>",
		Status:    status,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == model.NewsStatusPublished {
		params.PublishedAt = sql.NullTime{Time: now, Valid: true}
	}
	article, err := e.queries.CreateNews(context.Background(), params)
	if err != nil {
		t.Fatalf("creating news: %v", err)
	}
	return article
}

// asUser attaches the user to the request context, simulating the
// Authenticate middleware.
func asUser(r *http.Request, user model.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, user)
	return r.WithContext(ctx)
}

// withURLParam adds a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling body: %v", err)
	}
	return bytes.NewReader(data)
}

// decodeData decodes the "data" member of a response envelope into dst.
func decodeData(t *testing.T, body []byte, dst any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	env.handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var health HealthResponse
	decodeData(t, w.Body.Bytes(), &health)
	if health.Status != "ok" {
		t.Errorf("health status = %q, want ok", health.Status)
	}
}

func TestRequireEntityByIDInvalidID(t *testing.T) {
	env := newTestEnv(t)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/admin/news/abc", nil), "id", "abc")
	w := httptest.NewRecorder()
	env.handler.GetNews(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRequireEntityByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/admin/news/999", nil), "id", "999")
	w := httptest.NewRecorder()
	env.handler.GetNews(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPaginationMeta(t *testing.T) {
	meta := paginationMeta(45, 2, 20)
	if meta.Pages != 3 {
		t.Errorf("pages = %d, want 3", meta.Pages)
	}
	if meta.Total != 45 || meta.Page != 2 || meta.PerPage != 20 {
		t.Errorf("unexpected meta: %+v", meta)
	}
}
