// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/store"
)

// EventResponse represents an audit event in API responses.
type EventResponse struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    *int64    `json:"user_id,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

func eventToResponse(e model.Event) EventResponse {
	resp := EventResponse{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		IPAddress: e.IPAddress,
		Metadata:  e.Metadata,
		CreatedAt: e.CreatedAt,
	}
	if e.UserID.Valid {
		resp.UserID = &e.UserID.Int64
	}
	return resp
}

func eventsToResponses(items []model.Event) []EventResponse {
	responses := make([]EventResponse, 0, len(items))
	for _, e := range items {
		responses = append(responses, eventToResponse(e))
	}
	return responses
}

// StatsResponse holds the dashboard counters and recent activity.
type StatsResponse struct {
	NewsTotal           int64           `json:"news_total"`
	NewsPublished       int64           `json:"news_published"`
	NewsDraft           int64           `json:"news_draft"`
	TestimonialsTotal   int64           `json:"testimonials_total"`
	TestimonialsPending int64           `json:"testimonials_pending"`
	MessagesTotal       int64           `json:"messages_total"`
	MessagesNew         int64           `json:"messages_new"`
	UsersTotal          int64           `json:"users_total"`
	DocumentsTotal      int64           `json:"documents_total"`
	RecentEvents        []EventResponse `json:"recent_events"`
}

// GetStats handles GET /api/v1/admin/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var stats StatsResponse
	var err error

	counts := []struct {
		dst  *int64
		load func() (int64, error)
	}{
		{&stats.NewsTotal, func() (int64, error) { return h.queries.CountNews(ctx, "") }},
		{&stats.NewsPublished, func() (int64, error) { return h.queries.CountNews(ctx, model.NewsStatusPublished) }},
		{&stats.NewsDraft, func() (int64, error) { return h.queries.CountNews(ctx, model.NewsStatusDraft) }},
		{&stats.TestimonialsTotal, func() (int64, error) { return h.queries.CountTestimonials(ctx, "") }},
		{&stats.TestimonialsPending, func() (int64, error) { return h.queries.CountTestimonials(ctx, model.TestimonialStatusPending) }},
		{&stats.MessagesTotal, func() (int64, error) { return h.queries.CountMessages(ctx, "") }},
		{&stats.MessagesNew, func() (int64, error) { return h.queries.CountMessages(ctx, model.MessageStatusNew) }},
		{&stats.UsersTotal, func() (int64, error) { return h.queries.CountUsers(ctx) }},
		{&stats.DocumentsTotal, func() (int64, error) { return h.queries.CountDocuments(ctx) }},
	}
	for _, c := range counts {
		if *c.dst, err = c.load(); err != nil {
			WriteInternalError(w, "Failed to load statistics")
			return
		}
	}

	recent, err := h.queries.ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		WriteInternalError(w, "Failed to load statistics")
		return
	}
	stats.RecentEvents = eventsToResponses(recent)

	WriteSuccess(w, stats, nil)
}

// ListEvents handles GET /api/v1/admin/events with an optional category
// filter.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := r.URL.Query().Get("category")
	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 50, 200)

	items, err := h.queries.ListEvents(ctx, store.ListEventsParams{
		Category: category,
		Limit:    int64(perPage),
		Offset:   int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}
	total, err := h.queries.CountEvents(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}

	WriteSuccess(w, eventsToResponses(items), paginationMeta(total, page, perPage))
}
