// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/middleware"
	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/service"
	"github.com/sergio129/zafiralex-sub000/internal/store"
)

// DocumentResponse represents a document in API responses.
type DocumentResponse struct {
	ID           int64     `json:"id"`
	UUID         string    `json:"uuid"`
	Filename     string    `json:"filename"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	Description  string    `json:"description"`
	HasThumbnail bool      `json:"has_thumbnail"`
	UploadedBy   int64     `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func documentToResponse(d model.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		UUID:         d.UUID,
		Filename:     d.Filename,
		MimeType:     d.MimeType,
		Size:         d.Size,
		Description:  d.Description,
		HasThumbnail: d.ThumbPath.Valid,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ListDocuments handles GET /api/v1/admin/documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)

	items, err := h.queries.ListDocuments(ctx, store.ListDocumentsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list documents")
		return
	}
	total, err := h.queries.CountDocuments(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list documents")
		return
	}

	responses := make([]DocumentResponse, 0, len(items))
	for _, d := range items {
		responses = append(responses, documentToResponse(d))
	}
	WriteSuccess(w, responses, paginationMeta(total, page, perPage))
}

// GetDocument handles GET /api/v1/admin/documents/{id}.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := requireEntityByID(w, r, "document", func(id int64) (model.Document, error) {
		return h.queries.GetDocumentByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, documentToResponse(doc), nil)
}

// UploadDocument handles POST /api/v1/admin/documents.
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "File is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	description := r.FormValue("description")

	doc, err := h.documents.Upload(ctx, file, header, service.SanitizeText(description), middleware.GetUserID(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			WriteValidationError(w, map[string]string{"file": "File is too large"})
		case errors.Is(err, service.ErrUnsupportedType):
			WriteValidationError(w, map[string]string{"file": "File type is not allowed"})
		default:
			WriteInternalError(w, "Failed to store document")
		}
		return
	}

	_ = h.events.LogDocumentEvent(ctx, model.EventLevelInfo, "Document uploaded",
		middleware.GetUserIDPtr(r), clientIP(r),
		map[string]any{"id": doc.ID, "filename": doc.Filename, "size": doc.Size})

	WriteCreated(w, documentToResponse(doc))
}

// DownloadDocument handles GET /api/v1/admin/documents/{id}/download.
// The file is streamed from private storage so access stays behind the
// permission checks.
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := requireEntityByID(w, r, "document", func(id int64) (model.Document, error) {
		return h.queries.GetDocumentByID(r.Context(), id)
	})
	if !ok {
		return
	}

	path := h.documents.FilePath(doc)
	f, err := os.Open(path)
	if err != nil {
		WriteNotFound(w, "Document file not found")
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	http.ServeContent(w, r, doc.Filename, doc.UpdatedAt, f)
}

// DeleteDocument handles DELETE /api/v1/admin/documents/{id}.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, ok := requireEntityByID(w, r, "document", func(id int64) (model.Document, error) {
		return h.queries.GetDocumentByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.documents.Delete(ctx, doc.ID); err != nil {
		WriteInternalError(w, "Failed to delete document")
		return
	}

	_ = h.events.LogDocumentEvent(ctx, model.EventLevelInfo, "Document deleted",
		middleware.GetUserIDPtr(r), clientIP(r),
		map[string]any{"id": doc.ID, "filename": doc.Filename})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
