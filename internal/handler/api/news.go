// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sergio129/zafiralex-sub000/internal/imaging"
	"github.com/sergio129/zafiralex-sub000/internal/middleware"
	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/service"
	"github.com/sergio129/zafiralex-sub000/internal/store"
	"github.com/sergio129/zafiralex-sub000/internal/util"
)

// CreateNewsRequest is the request body for creating an article.
type CreateNewsRequest struct {
	Title   string `json:"title"`
	Slug    string `json:"slug,omitempty"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
	Status  string `json:"status,omitempty"`
}

// UpdateNewsRequest is the request body for updating an article.
type UpdateNewsRequest struct {
	Title   *string `json:"title,omitempty"`
	Slug    *string `json:"slug,omitempty"`
	Summary *string `json:"summary,omitempty"`
	Body    *string `json:"body,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// ListNews handles GET /api/v1/admin/news with an optional status filter.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := r.URL.Query().Get("status")
	if status != "" && status != model.NewsStatusDraft && status != model.NewsStatusPublished {
		WriteBadRequest(w, "Unknown status filter", nil)
		return
	}

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)

	items, err := h.queries.ListNews(ctx, store.ListNewsParams{
		Status: status,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list news")
		return
	}
	total, err := h.queries.CountNews(ctx, status)
	if err != nil {
		WriteInternalError(w, "Failed to list news")
		return
	}

	responses := make([]NewsResponse, 0, len(items))
	for _, n := range items {
		responses = append(responses, newsToListResponse(n))
	}

	WriteSuccess(w, responses, paginationMeta(total, page, perPage))
}

// GetNews handles GET /api/v1/admin/news/{id}.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	article, ok := requireEntityByID(w, r, "article", func(id int64) (model.News, error) {
		return h.queries.GetNewsByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, newsToResponse(article), nil)
}

// CreateNews handles POST /api/v1/admin/news.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	validationErrors := make(map[string]string)
	if req.Title == "" {
		validationErrors["title"] = "Title is required"
	}
	if req.Body == "" {
		validationErrors["body"] = "Body is required"
	}
	if req.Status == "" {
		req.Status = model.NewsStatusDraft
	}
	if req.Status != model.NewsStatusDraft && req.Status != model.NewsStatusPublished {
		validationErrors["status"] = "Status must be 'draft' or 'published'"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(slug) {
		WriteValidationError(w, map[string]string{"slug": "Slug may only contain lowercase letters, digits and hyphens"})
		return
	}

	if !h.checkNewsSlugUnique(w, r, slug, 0) {
		return
	}

	bodyHTML, err := service.RenderMarkdown(req.Body)
	if err != nil {
		WriteBadRequest(w, "Body could not be rendered", nil)
		return
	}

	now := time.Now()
	params := store.CreateNewsParams{
		Title:     req.Title,
		Slug:      slug,
		Summary:   req.Summary,
		Body:      req.Body,
		BodyHTML:  bodyHTML,
		Status:    req.Status,
		AuthorID:  middleware.GetUserID(r),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Status == model.NewsStatusPublished {
		params.PublishedAt = sql.NullTime{Time: now, Valid: true}
	}

	article, err := h.queries.CreateNews(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create article")
		return
	}

	_ = h.events.LogNewsEvent(ctx, model.EventLevelInfo, "Article created",
		middleware.GetUserIDPtr(r), clientIP(r), map[string]any{"id": article.ID, "slug": article.Slug})

	WriteCreated(w, newsToResponse(article))
}

// UpdateNews handles PUT /api/v1/admin/news/{id}.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	article, ok := requireEntityByID(w, r, "article", func(id int64) (model.News, error) {
		return h.queries.GetNewsByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			WriteValidationError(w, map[string]string{"title": "Title cannot be empty"})
			return
		}
		article.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != article.Slug {
		if !util.IsValidSlug(*req.Slug) {
			WriteValidationError(w, map[string]string{"slug": "Slug may only contain lowercase letters, digits and hyphens"})
			return
		}
		if !h.checkNewsSlugUnique(w, r, *req.Slug, article.ID) {
			return
		}
		article.Slug = *req.Slug
	}
	if req.Summary != nil {
		article.Summary = *req.Summary
	}
	if req.Body != nil {
		if *req.Body == "" {
			WriteValidationError(w, map[string]string{"body": "Body cannot be empty"})
			return
		}
		bodyHTML, err := service.RenderMarkdown(*req.Body)
		if err != nil {
			WriteBadRequest(w, "Body could not be rendered", nil)
			return
		}
		article.Body = *req.Body
		article.BodyHTML = bodyHTML
	}
	if req.Status != nil {
		if *req.Status != model.NewsStatusDraft && *req.Status != model.NewsStatusPublished {
			WriteValidationError(w, map[string]string{"status": "Status must be 'draft' or 'published'"})
			return
		}
		if *req.Status == model.NewsStatusPublished && !article.PublishedAt.Valid {
			article.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
		}
		article.Status = *req.Status
	}

	if err := h.updateNewsRecord(w, r, article); err != nil {
		return
	}

	WriteSuccess(w, newsToResponse(article), nil)
}

// PublishNews handles POST /api/v1/admin/news/{id}/publish. It toggles
// the article between draft and published.
func (h *Handler) PublishNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	article, ok := requireEntityByID(w, r, "article", func(id int64) (model.News, error) {
		return h.queries.GetNewsByID(ctx, id)
	})
	if !ok {
		return
	}

	if article.IsPublished() {
		article.Status = model.NewsStatusDraft
	} else {
		article.Status = model.NewsStatusPublished
		if !article.PublishedAt.Valid {
			article.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
		}
	}

	if err := h.updateNewsRecord(w, r, article); err != nil {
		return
	}

	_ = h.events.LogNewsEvent(ctx, model.EventLevelInfo, "Article status changed",
		middleware.GetUserIDPtr(r), clientIP(r),
		map[string]any{"id": article.ID, "status": article.Status})

	WriteSuccess(w, newsToResponse(article), nil)
}

// UploadNewsImage handles POST /api/v1/admin/news/{id}/image. The image
// is processed and stored under the public uploads directory.
func (h *Handler) UploadNewsImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	article, ok := requireEntityByID(w, r, "article", func(id int64) (model.News, error) {
		return h.queries.GetNewsByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		WriteBadRequest(w, "Image file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > service.MaxUploadSize {
		WriteValidationError(w, map[string]string{"image": "Image is too large"})
		return
	}

	processor := imaging.NewProcessor(h.imagesDir)
	imageUUID := uuid.New().String()

	result, err := processor.ProcessCover(file, imageUUID, header.Filename)
	if err != nil {
		WriteValidationError(w, map[string]string{"image": "File is not a supported image"})
		return
	}

	article.ImagePath = sql.NullString{String: "news/" + imageUUID + "/" + result.Filename, Valid: true}
	if err := h.updateNewsRecord(w, r, article); err != nil {
		_ = processor.DeleteFiles(imageUUID)
		return
	}

	slog.Info("news image uploaded", "id", article.ID, "size", result.Size)
	WriteSuccess(w, newsToResponse(article), nil)
}

// DeleteNews handles DELETE /api/v1/admin/news/{id}.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	article, ok := requireEntityByID(w, r, "article", func(id int64) (model.News, error) {
		return h.queries.GetNewsByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteNews(ctx, article.ID); err != nil {
		WriteInternalError(w, "Failed to delete article")
		return
	}

	_ = h.events.LogNewsEvent(ctx, model.EventLevelInfo, "Article deleted",
		middleware.GetUserIDPtr(r), clientIP(r), map[string]any{"id": article.ID, "slug": article.Slug})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// checkNewsSlugUnique verifies no other article uses the slug. Returns
// false if a response was written.
func (h *Handler) checkNewsSlugUnique(w http.ResponseWriter, r *http.Request, slug string, excludeID int64) bool {
	existing, err := h.queries.GetNewsBySlug(r.Context(), slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return true
		}
		WriteInternalError(w, "Failed to check slug")
		return false
	}
	if existing.ID == excludeID {
		return true
	}
	WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
	return false
}

// updateNewsRecord persists the article and writes an error response on
// failure.
func (h *Handler) updateNewsRecord(w http.ResponseWriter, r *http.Request, article model.News) error {
	err := h.queries.UpdateNews(r.Context(), store.UpdateNewsParams{
		Title:       article.Title,
		Slug:        article.Slug,
		Summary:     article.Summary,
		Body:        article.Body,
		BodyHTML:    article.BodyHTML,
		Status:      article.Status,
		ImagePath:   article.ImagePath,
		PublishedAt: article.PublishedAt,
		UpdatedAt:   time.Now(),
		ID:          article.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update article")
	}
	return err
}
