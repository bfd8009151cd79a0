// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/model"
)

const documentColumns = "id, uuid, filename, mime_type, size, description, thumb_path, uploaded_by, created_at, updated_at"

func scanDocument(row *sql.Row) (model.Document, error) {
	var d model.Document
	err := row.Scan(&d.ID, &d.UUID, &d.Filename, &d.MimeType, &d.Size,
		&d.Description, &d.ThumbPath, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// GetDocumentByID returns the document with the given ID.
func (q *Queries) GetDocumentByID(ctx context.Context, id int64) (model.Document, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	return scanDocument(row)
}

// ListDocumentsParams holds parameters for ListDocuments.
type ListDocumentsParams struct {
	Limit  int64
	Offset int64
}

// ListDocuments returns documents ordered by upload time, newest first.
func (q *Queries) ListDocuments(ctx context.Context, arg ListDocumentsParams) ([]model.Document, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents ORDER BY created_at DESC LIMIT ? OFFSET ?",
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.UUID, &d.Filename, &d.MimeType, &d.Size,
			&d.Description, &d.ThumbPath, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// CountDocuments returns the total number of documents.
func (q *Queries) CountDocuments(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n)
	return n, err
}

// CountDocumentsByUploader returns the number of documents uploaded by the user.
func (q *Queries) CountDocumentsByUploader(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE uploaded_by = ?", userID).Scan(&n)
	return n, err
}

// CreateDocumentParams holds parameters for CreateDocument.
type CreateDocumentParams struct {
	UUID        string
	Filename    string
	MimeType    string
	Size        int64
	Description string
	ThumbPath   sql.NullString
	UploadedBy  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateDocument inserts a new document record and returns it.
func (q *Queries) CreateDocument(ctx context.Context, arg CreateDocumentParams) (model.Document, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO documents (uuid, filename, mime_type, size, description, thumb_path, uploaded_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UUID, arg.Filename, arg.MimeType, arg.Size, arg.Description,
		arg.ThumbPath, arg.UploadedBy, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Document{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Document{}, err
	}
	return q.GetDocumentByID(ctx, id)
}

// DeleteDocument removes a document record.
func (q *Queries) DeleteDocument(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	return err
}
