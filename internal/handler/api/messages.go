// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/middleware"
	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/store"
)

// UpdateMessageStatusRequest is the request body for changing a contact
// message status.
type UpdateMessageStatusRequest struct {
	Status string `json:"status"`
}

// ListMessages handles GET /api/v1/admin/messages with an optional
// status filter.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidMessageStatus(status) {
		WriteBadRequest(w, "Unknown status filter", nil)
		return
	}

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)

	items, err := h.queries.ListMessages(ctx, store.ListMessagesParams{
		Status: status,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list messages")
		return
	}
	total, err := h.queries.CountMessages(ctx, status)
	if err != nil {
		WriteInternalError(w, "Failed to list messages")
		return
	}

	WriteSuccess(w, items, paginationMeta(total, page, perPage))
}

// GetMessage handles GET /api/v1/admin/messages/{id}. Reading a new
// message moves it to read status.
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	msg, ok := requireEntityByID(w, r, "message", func(id int64) (model.ContactMessage, error) {
		return h.queries.GetMessageByID(ctx, id)
	})
	if !ok {
		return
	}

	if msg.Status == model.MessageStatusNew {
		err := h.queries.UpdateMessageStatus(ctx, store.UpdateMessageStatusParams{
			Status:    model.MessageStatusRead,
			UpdatedAt: time.Now(),
			ID:        msg.ID,
		})
		if err != nil {
			slog.Warn("failed to mark message as read", "id", msg.ID, "error", err)
		} else {
			msg.Status = model.MessageStatusRead
		}
	}

	WriteSuccess(w, msg, nil)
}

// UpdateMessageStatus handles PUT /api/v1/admin/messages/{id}/status.
func (h *Handler) UpdateMessageStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	msg, ok := requireEntityByID(w, r, "message", func(id int64) (model.ContactMessage, error) {
		return h.queries.GetMessageByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateMessageStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if !model.IsValidMessageStatus(req.Status) {
		WriteValidationError(w, map[string]string{"status": "Unknown message status"})
		return
	}

	err := h.queries.UpdateMessageStatus(ctx, store.UpdateMessageStatusParams{
		Status:    req.Status,
		UpdatedAt: time.Now(),
		ID:        msg.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update message")
		return
	}

	_ = h.events.LogMessageEvent(ctx, model.EventLevelInfo, "Message status changed",
		middleware.GetUserIDPtr(r), clientIP(r),
		map[string]any{"id": msg.ID, "status": req.Status})

	msg.Status = req.Status
	WriteSuccess(w, msg, nil)
}

// DeleteMessage handles DELETE /api/v1/admin/messages/{id}.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	msg, ok := requireEntityByID(w, r, "message", func(id int64) (model.ContactMessage, error) {
		return h.queries.GetMessageByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteMessage(ctx, msg.ID); err != nil {
		WriteInternalError(w, "Failed to delete message")
		return
	}

	_ = h.events.LogMessageEvent(ctx, model.EventLevelInfo, "Message deleted",
		middleware.GetUserIDPtr(r), clientIP(r), map[string]any{"id": msg.ID})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
