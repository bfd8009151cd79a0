// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/service"
	"github.com/sergio129/zafiralex-sub000/internal/store"
)

// NewsResponse represents a news article in API responses.
type NewsResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body,omitempty"`
	BodyHTML    string     `json:"body_html,omitempty"`
	Status      string     `json:"status"`
	ImageURL    string     `json:"image_url,omitempty"`
	AuthorID    int64      `json:"author_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newsToResponse(n model.News) NewsResponse {
	resp := NewsResponse{
		ID:        n.ID,
		Title:     n.Title,
		Slug:      n.Slug,
		Summary:   n.Summary,
		Body:      n.Body,
		BodyHTML:  n.BodyHTML,
		Status:    n.Status,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if n.ImagePath.Valid {
		resp.ImageURL = "/uploads/" + n.ImagePath.String
	}
	if n.PublishedAt.Valid {
		resp.PublishedAt = &n.PublishedAt.Time
	}
	return resp
}

// newsToListResponse is newsToResponse without the body fields, for listings.
func newsToListResponse(n model.News) NewsResponse {
	resp := newsToResponse(n)
	resp.Body = ""
	resp.BodyHTML = ""
	return resp
}

// TestimonialResponse represents a testimonial in API responses.
type TestimonialResponse struct {
	ID          int64     `json:"id"`
	AuthorName  string    `json:"author_name"`
	AuthorTitle string    `json:"author_title,omitempty"`
	Body        string    `json:"body"`
	BodyHTML    string    `json:"body_html,omitempty"`
	Rating      int64     `json:"rating"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func testimonialToResponse(t model.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:          t.ID,
		AuthorName:  t.AuthorName,
		AuthorTitle: t.AuthorTitle,
		Body:        t.Body,
		BodyHTML:    t.BodyHTML,
		Rating:      t.Rating,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}

// publicTestimonialToResponse hides moderation state on the public site.
func publicTestimonialToResponse(t model.Testimonial) TestimonialResponse {
	resp := testimonialToResponse(t)
	resp.Status = ""
	return resp
}

// ListPublishedNews handles GET /api/v1/news.
func (h *Handler) ListPublishedNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 10, 50)

	items, err := h.queries.ListPublishedNews(ctx, int64(perPage), int64((page-1)*perPage))
	if err != nil {
		WriteInternalError(w, "Failed to list news")
		return
	}
	total, err := h.queries.CountNews(ctx, model.NewsStatusPublished)
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

// GetPublishedNewsBySlug handles GET /api/v1/news/{slug}. Drafts are
// indistinguishable from missing articles.
func (h *Handler) GetPublishedNewsBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Slug is required", nil)
		return
	}

	article, err := h.queries.GetNewsBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Article not found")
		} else {
			WriteInternalError(w, "Failed to retrieve article")
		}
		return
	}

	if !article.IsPublished() {
		WriteNotFound(w, "Article not found")
		return
	}

	WriteSuccess(w, newsToResponse(article), nil)
}

// ListApprovedTestimonials handles GET /api/v1/testimonials.
func (h *Handler) ListApprovedTestimonials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)

	items, err := h.queries.ListTestimonials(ctx, store.ListTestimonialsParams{
		Status: model.TestimonialStatusApproved,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list testimonials")
		return
	}
	total, err := h.queries.CountTestimonials(ctx, model.TestimonialStatusApproved)
	if err != nil {
		WriteInternalError(w, "Failed to list testimonials")
		return
	}

	responses := make([]TestimonialResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, publicTestimonialToResponse(item))
	}

	WriteSuccess(w, responses, paginationMeta(total, page, perPage))
}

// ContactRequest is the request body for POST /api/v1/contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

const (
	maxContactNameLen    = 200
	maxContactSubjectLen = 300
	maxContactBodyLen    = 5000
)

// SubmitContact handles POST /api/v1/contact.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := clientIP(r)

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	req.Name = strings.TrimSpace(service.SanitizeText(req.Name))
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(service.SanitizeText(req.Phone))
	req.Subject = strings.TrimSpace(service.SanitizeText(req.Subject))
	req.Body = strings.TrimSpace(service.SanitizeText(req.Body))

	validationErrors := make(map[string]string)
	if req.Name == "" {
		validationErrors["name"] = "Name is required"
	} else if len(req.Name) > maxContactNameLen {
		validationErrors["name"] = "Name is too long"
	}
	if req.Email == "" {
		validationErrors["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		validationErrors["email"] = "Email is not valid"
	}
	if req.Subject == "" {
		validationErrors["subject"] = "Subject is required"
	} else if len(req.Subject) > maxContactSubjectLen {
		validationErrors["subject"] = "Subject is too long"
	}
	if req.Body == "" {
		validationErrors["body"] = "Message is required"
	} else if len(req.Body) > maxContactBodyLen {
		validationErrors["body"] = "Message is too long"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	now := time.Now()
	msg, err := h.queries.CreateMessage(ctx, store.CreateMessageParams{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Body:      req.Body,
		Status:    model.MessageStatusNew,
		IPAddress: ip,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to submit message")
		return
	}

	_ = h.events.LogMessageEvent(ctx, model.EventLevelInfo, "Contact message received", nil, ip,
		map[string]any{"message_id": msg.ID})

	WriteCreated(w, map[string]any{"id": msg.ID, "status": msg.Status})
}
