// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// MIME types accepted for document uploads.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypePDF  = "application/pdf"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Document represents an uploaded file kept in private storage.
type Document struct {
	ID          int64          `json:"id"`
	UUID        string         `json:"uuid"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	Size        int64          `json:"size"`
	Description string         `json:"description"`
	ThumbPath   sql.NullString
	UploadedBy  int64          `json:"uploaded_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
