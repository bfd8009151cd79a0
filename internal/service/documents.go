// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sergio129/zafiralex-sub000/internal/imaging"
	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/store"
)

// Upload limits
const (
	MaxUploadSize      = 20 * 1024 * 1024 // 20MB
	DefaultDocumentDir = "./documents"
)

// AllowedDocumentTypes defines the MIME types that can be uploaded.
var AllowedDocumentTypes = map[string]bool{
	model.MimeTypeJPEG: true,
	model.MimeTypePNG:  true,
	model.MimeTypeGIF:  true,
	model.MimeTypeWebP: true,
	model.MimeTypePDF:  true,
	model.MimeTypeDOCX: true,
}

// ErrFileTooLarge is returned when the uploaded file exceeds MaxUploadSize.
var ErrFileTooLarge = errors.New("file size exceeds maximum allowed")

// ErrUnsupportedType is returned for uploads outside AllowedDocumentTypes.
var ErrUnsupportedType = errors.New("file type is not allowed")

// DocumentService handles private document storage.
type DocumentService struct {
	db          *sql.DB
	processor   *imaging.Processor
	documentDir string
}

// NewDocumentService creates a new document service writing under documentDir.
func NewDocumentService(db *sql.DB, documentDir string) *DocumentService {
	if documentDir == "" {
		documentDir = DefaultDocumentDir
	}
	return &DocumentService{
		db:          db,
		processor:   imaging.NewProcessor(documentDir),
		documentDir: documentDir,
	}
}

// Upload validates, stores and records an uploaded document. Image uploads
// get a best-effort thumbnail; thumbnail failures do not fail the upload.
func (s *DocumentService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, description string, userID int64) (model.Document, error) {
	if header.Size > MaxUploadSize {
		return model.Document{}, fmt.Errorf("%w (%d bytes)", ErrFileTooLarge, MaxUploadSize)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromExtension(header.Filename)
	}
	if !AllowedDocumentTypes[mimeType] {
		return model.Document{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	fileUUID := uuid.New().String()
	filename := sanitizeFilename(header.Filename)

	filePath, size, err := s.saveFile(file, fileUUID, filename)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to save file: %w", err)
	}

	var thumbPath sql.NullString
	if s.processor.IsImage(mimeType) {
		if tp, err := s.processor.CreateThumbnail(filePath, fileUUID); err != nil {
			slog.Warn("thumbnail generation failed", "uuid", fileUUID, "error", err)
		} else {
			thumbPath = sql.NullString{String: tp, Valid: true}
		}
	}

	now := time.Now()
	doc, err := store.New(s.db).CreateDocument(ctx, store.CreateDocumentParams{
		UUID:        fileUUID,
		Filename:    filename,
		MimeType:    mimeType,
		Size:        size,
		Description: description,
		ThumbPath:   thumbPath,
		UploadedBy:  userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		// Clean up files on record failure
		_ = os.Remove(filePath)
		_ = s.processor.DeleteFiles(fileUUID)
		return model.Document{}, fmt.Errorf("failed to create document record: %w", err)
	}

	return doc, nil
}

// FilePath returns the on-disk location of a stored document.
func (s *DocumentService) FilePath(doc model.Document) string {
	return filepath.Join(s.documentDir, "files", doc.UUID, doc.Filename)
}

// Delete removes a document record and its files.
func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	queries := store.New(s.db)

	doc, err := queries.GetDocumentByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if err := queries.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}

	// Files are removed after the record so a failed DB delete leaves
	// the document intact.
	filesDir := filepath.Join(s.documentDir, "files", doc.UUID)
	if err := os.RemoveAll(filesDir); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to delete document files", "id", id, "error", err)
	}
	if err := s.processor.DeleteFiles(doc.UUID); err != nil {
		slog.Warn("failed to delete document thumbnails", "id", id, "error", err)
	}

	return nil
}

// saveFile writes the uploaded data under files/<uuid>/<filename>.
func (s *DocumentService) saveFile(file io.Reader, fileUUID, filename string) (string, int64, error) {
	dir := filepath.Join(s.documentDir, "files", fileUUID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(dir, filename)
	out, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = out.Close() }()

	size, err := io.Copy(out, io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		_ = os.Remove(filePath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}
	if size > MaxUploadSize {
		_ = os.Remove(filePath)
		return "", 0, ErrFileTooLarge
	}

	return filePath, size, nil
}

// sanitizeFilename strips path components and unsafe characters from an
// uploaded filename.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "..", "")

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	result := b.String()
	if result == "" || result == "." {
		return "file"
	}
	return result
}

// mimeTypeFromExtension guesses a MIME type when the client did not send one.
func mimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	case ".pdf":
		return model.MimeTypePDF
	case ".docx":
		return model.MimeTypeDOCX
	default:
		return "application/octet-stream"
	}
}
