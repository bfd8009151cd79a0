// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/middleware"
	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/service"
	"github.com/sergio129/zafiralex-sub000/internal/store"
)

// TestimonialRequest is the request body for creating or updating a
// testimonial.
type TestimonialRequest struct {
	AuthorName  string `json:"author_name"`
	AuthorTitle string `json:"author_title,omitempty"`
	Body        string `json:"body"`
	Rating      int64  `json:"rating"`
}

func validateTestimonialRequest(req TestimonialRequest) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(req.AuthorName) == "" {
		errs["author_name"] = "Author name is required"
	}
	if strings.TrimSpace(req.Body) == "" {
		errs["body"] = "Body is required"
	}
	if req.Rating < 1 || req.Rating > 5 {
		errs["rating"] = "Rating must be between 1 and 5"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ListTestimonials handles GET /api/v1/admin/testimonials with an
// optional status filter.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidTestimonialStatus(status) {
		WriteBadRequest(w, "Unknown status filter", nil)
		return
	}

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)

	items, err := h.queries.ListTestimonials(ctx, store.ListTestimonialsParams{
		Status: status,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list testimonials")
		return
	}
	total, err := h.queries.CountTestimonials(ctx, status)
	if err != nil {
		WriteInternalError(w, "Failed to list testimonials")
		return
	}

	responses := make([]TestimonialResponse, 0, len(items))
	for _, t := range items {
		responses = append(responses, testimonialToResponse(t))
	}

	WriteSuccess(w, responses, paginationMeta(total, page, perPage))
}

// GetTestimonial handles GET /api/v1/admin/testimonials/{id}.
func (h *Handler) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	t, ok := requireEntityByID(w, r, "testimonial", func(id int64) (model.Testimonial, error) {
		return h.queries.GetTestimonialByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, testimonialToResponse(t), nil)
}

// CreateTestimonial handles POST /api/v1/admin/testimonials. New
// testimonials start in pending status.
func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if errs := validateTestimonialRequest(req); errs != nil {
		WriteValidationError(w, errs)
		return
	}

	bodyHTML, err := service.RenderMarkdown(req.Body)
	if err != nil {
		WriteBadRequest(w, "Body could not be rendered", nil)
		return
	}

	now := time.Now()
	t, err := h.queries.CreateTestimonial(ctx, store.CreateTestimonialParams{
		AuthorName:  service.SanitizeText(req.AuthorName),
		AuthorTitle: service.SanitizeText(req.AuthorTitle),
		Body:        req.Body,
		BodyHTML:    bodyHTML,
		Rating:      req.Rating,
		Status:      model.TestimonialStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create testimonial")
		return
	}

	_ = h.events.LogTestimonialEvent(ctx, model.EventLevelInfo, "Testimonial created",
		middleware.GetUserIDPtr(r), clientIP(r), map[string]any{"id": t.ID})

	WriteCreated(w, testimonialToResponse(t))
}

// UpdateTestimonial handles PUT /api/v1/admin/testimonials/{id}.
func (h *Handler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	t, ok := requireEntityByID(w, r, "testimonial", func(id int64) (model.Testimonial, error) {
		return h.queries.GetTestimonialByID(ctx, id)
	})
	if !ok {
		return
	}

	var req TestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if errs := validateTestimonialRequest(req); errs != nil {
		WriteValidationError(w, errs)
		return
	}

	bodyHTML, err := service.RenderMarkdown(req.Body)
	if err != nil {
		WriteBadRequest(w, "Body could not be rendered", nil)
		return
	}

	err = h.queries.UpdateTestimonial(ctx, store.UpdateTestimonialParams{
		AuthorName:  service.SanitizeText(req.AuthorName),
		AuthorTitle: service.SanitizeText(req.AuthorTitle),
		Body:        req.Body,
		BodyHTML:    bodyHTML,
		Rating:      req.Rating,
		Status:      t.Status,
		UpdatedAt:   time.Now(),
		ID:          t.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update testimonial")
		return
	}

	updated, err := h.queries.GetTestimonialByID(ctx, t.ID)
	if err != nil {
		WriteInternalError(w, "Failed to update testimonial")
		return
	}
	WriteSuccess(w, testimonialToResponse(updated), nil)
}

// SetTestimonialStatus returns a handler that moves a testimonial to
// the given moderation status. Used for the approve and reject routes.
func (h *Handler) SetTestimonialStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		t, ok := requireEntityByID(w, r, "testimonial", func(id int64) (model.Testimonial, error) {
			return h.queries.GetTestimonialByID(ctx, id)
		})
		if !ok {
			return
		}

		err := h.queries.UpdateTestimonialStatus(ctx, store.UpdateTestimonialStatusParams{
			Status:    status,
			UpdatedAt: time.Now(),
			ID:        t.ID,
		})
		if err != nil {
			WriteInternalError(w, "Failed to update testimonial")
			return
		}

		_ = h.events.LogTestimonialEvent(ctx, model.EventLevelInfo, "Testimonial status changed",
			middleware.GetUserIDPtr(r), clientIP(r),
			map[string]any{"id": t.ID, "status": status})

		t.Status = status
		WriteSuccess(w, testimonialToResponse(t), nil)
	}
}

// DeleteTestimonial handles DELETE /api/v1/admin/testimonials/{id}.
func (h *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	t, ok := requireEntityByID(w, r, "testimonial", func(id int64) (model.Testimonial, error) {
		return h.queries.GetTestimonialByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteTestimonial(ctx, t.ID); err != nil {
		WriteInternalError(w, "Failed to delete testimonial")
		return
	}

	_ = h.events.LogTestimonialEvent(ctx, model.EventLevelInfo, "Testimonial deleted",
		middleware.GetUserIDPtr(r), clientIP(r), map[string]any{"id": t.ID})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
