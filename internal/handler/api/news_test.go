// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/sergio129/zafiralex-sub000/internal/model"
)

func TestCreateNewsGeneratesSlug(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/admin/news", jsonBody(t, CreateNewsRequest{
		Title:   "Nueva Reforma Laboral en Colombia",
		Summary: "Resumen",
		Body:    "Contenido **importante**",
	})), admin)
	w := httptest.NewRecorder()
	env.handler.CreateNews(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var resp NewsResponse
	decodeData(t, w.Body.Bytes(), &resp)
	if resp.Slug != "nueva-reforma-laboral-en-colombia" {
		t.Errorf("slug = %q", resp.Slug)
	}
	if resp.Status != model.NewsStatusDraft {
		t.Errorf("status = %q, want draft", resp.Status)
	}
	if resp.BodyHTML == "" {
		t.Error("body should be rendered to HTML")
	}
}

func TestCreateNewsDuplicateSlug(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	env.createNews(t, "taken", model.NewsStatusDraft, admin.ID)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/admin/news", jsonBody(t, CreateNewsRequest{
		Title: "Another",
		Slug:  "taken",
		Body:  "Body",
	})), admin)
	w := httptest.NewRecorder()
	env.handler.CreateNews(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateNewsMissingTitle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/admin/news", jsonBody(t, CreateNewsRequest{
		Body: "Body",
	})), admin)
	w := httptest.NewRecorder()
	env.handler.CreateNews(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPublishNewsToggle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	article := env.createNews(t, "toggle-me", model.NewsStatusDraft, admin.ID)

	id := strconv.FormatInt(article.ID, 10)

	publish := func() *httptest.ResponseRecorder {
		req := asUser(withURLParam(
			httptest.NewRequest(http.MethodPost, "/api/v1/admin/news/"+id+"/publish", nil), "id", id), admin)
		w := httptest.NewRecorder()
		env.handler.PublishNews(w, req)
		return w
	}

	w := publish()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp NewsResponse
	decodeData(t, w.Body.Bytes(), &resp)
	if resp.Status != model.NewsStatusPublished {
		t.Errorf("status = %q, want published", resp.Status)
	}
	if resp.PublishedAt == nil {
		t.Error("published_at should be set on first publish")
	}

	w = publish()
	decodeData(t, w.Body.Bytes(), &resp)
	if resp.Status != model.NewsStatusDraft {
		t.Errorf("status = %q, want draft after second toggle", resp.Status)
	}
}

func TestUpdateNewsRendersBody(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	article := env.createNews(t, "update-me", model.NewsStatusDraft, admin.ID)

	id := strconv.FormatInt(article.ID, 10)
	body := "Updated *content*"
	req := asUser(withURLParam(
		httptest.NewRequest(http.MethodPut, "/api/v1/admin/news/"+id,
			jsonBody(t, UpdateNewsRequest{Body: &body})), "id", id), admin)
	w := httptest.NewRecorder()
	env.handler.UpdateNews(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp NewsResponse
	decodeData(t, w.Body.Bytes(), &resp)
	if resp.Body != body {
		t.Errorf("body = %q", resp.Body)
	}
	if resp.BodyHTML == "" || resp.BodyHTML == article.BodyHTML {
		t.Error("body_html should be re-rendered on update")
	}
}

func TestDeleteNews(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	article := env.createNews(t, "delete-me", model.NewsStatusDraft, admin.ID)

	id := strconv.FormatInt(article.ID, 10)
	req := asUser(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/v1/admin/news/"+id, nil), "id", id), admin)
	w := httptest.NewRecorder()
	env.handler.DeleteNews(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/admin/news/"+id, nil), "id", id)
	w = httptest.NewRecorder()
	env.handler.GetNews(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", w.Code)
	}
}

func TestUploadNewsImageSanitizesFilename(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	article := env.createNews(t, "with-image", model.NewsStatusDraft, admin.ID)

	var img bytes.Buffer
	if err := jpeg.Encode(&img, image.NewRGBA(image.Rect(0, 0, 10, 10)), nil); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	body, contentType := multipartUpload(t, "image", "../../evil/portada.jpg", "image/jpeg",
		img.Bytes(), nil)

	id := strconv.FormatInt(article.ID, 10)
	req := asUser(withURLParam(
		httptest.NewRequest(http.MethodPost, "/api/v1/admin/news/"+id+"/image", body), "id", id), admin)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	env.handler.UploadNewsImage(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp NewsResponse
	decodeData(t, w.Body.Bytes(), &resp)
	if resp.ImageURL == "" {
		t.Fatal("image_url should be set")
	}
	// The URL must point at the stored basename, not the client path
	if !strings.HasSuffix(resp.ImageURL, "/portada.jpg") || strings.Contains(resp.ImageURL, "..") {
		t.Errorf("image_url = %q", resp.ImageURL)
	}
}

func TestListNewsStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "admin")
	env.createNews(t, "one", model.NewsStatusPublished, admin.ID)
	env.createNews(t, "two", model.NewsStatusDraft, admin.ID)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/admin/news?status=draft", nil), admin)
	w := httptest.NewRecorder()
	env.handler.ListNews(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var items []NewsResponse
	decodeData(t, w.Body.Bytes(), &items)
	if len(items) != 1 || items[0].Slug != "two" {
		t.Errorf("unexpected filtered items: %+v", items)
	}
}
