// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/model"
)

const newsColumns = "id, title, slug, summary, body, body_html, status, image_path, author_id, published_at, created_at, updated_at"

func scanNewsRow(row *sql.Row) (model.News, error) {
	var n model.News
	err := row.Scan(&n.ID, &n.Title, &n.Slug, &n.Summary, &n.Body, &n.BodyHTML,
		&n.Status, &n.ImagePath, &n.AuthorID, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func scanNewsRows(rows *sql.Rows) ([]model.News, error) {
	defer rows.Close()
	var items []model.News
	for rows.Next() {
		var n model.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Slug, &n.Summary, &n.Body, &n.BodyHTML,
			&n.Status, &n.ImagePath, &n.AuthorID, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// GetNewsByID returns the news article with the given ID.
func (q *Queries) GetNewsByID(ctx context.Context, id int64) (model.News, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+newsColumns+" FROM news WHERE id = ?", id)
	return scanNewsRow(row)
}

// GetNewsBySlug returns the news article with the given slug.
func (q *Queries) GetNewsBySlug(ctx context.Context, slug string) (model.News, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+newsColumns+" FROM news WHERE slug = ?", slug)
	return scanNewsRow(row)
}

// CountNewsBySlug returns the number of articles with the given slug.
func (q *Queries) CountNewsBySlug(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM news WHERE slug = ?", slug).Scan(&n)
	return n, err
}

// CountNewsByAuthor returns the number of articles written by the user.
func (q *Queries) CountNewsByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM news WHERE author_id = ?", authorID).Scan(&n)
	return n, err
}

// ListNewsParams holds parameters for ListNews.
type ListNewsParams struct {
	Status string // empty = all statuses
	Limit  int64
	Offset int64
}

// ListNews returns news articles ordered by creation time, newest first.
func (q *Queries) ListNews(ctx context.Context, arg ListNewsParams) ([]model.News, error) {
	if arg.Status != "" {
		rows, err := q.db.QueryContext(ctx,
			"SELECT "+newsColumns+" FROM news WHERE status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?",
			arg.Status, arg.Limit, arg.Offset)
		if err != nil {
			return nil, err
		}
		return scanNewsRows(rows)
	}
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+newsColumns+" FROM news ORDER BY created_at DESC LIMIT ? OFFSET ?",
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanNewsRows(rows)
}

// ListPublishedNews returns published articles ordered by publish time, newest first.
func (q *Queries) ListPublishedNews(ctx context.Context, limit, offset int64) ([]model.News, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+newsColumns+" FROM news WHERE status = ? ORDER BY published_at DESC LIMIT ? OFFSET ?",
		model.NewsStatusPublished, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanNewsRows(rows)
}

// CountNews returns the number of articles, optionally filtered by status.
func (q *Queries) CountNews(ctx context.Context, status string) (int64, error) {
	var n int64
	if status != "" {
		err := q.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM news WHERE status = ?", status).Scan(&n)
		return n, err
	}
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM news").Scan(&n)
	return n, err
}

// CreateNewsParams holds parameters for CreateNews.
type CreateNewsParams struct {
	Title       string
	Slug        string
	Summary     string
	Body        string
	BodyHTML    string
	Status      string
	ImagePath   sql.NullString
	AuthorID    int64
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateNews inserts a new article and returns it.
func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (model.News, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO news (title, slug, summary, body, body_html, status, image_path, author_id, published_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Summary, arg.Body, arg.BodyHTML, arg.Status,
		arg.ImagePath, arg.AuthorID, arg.PublishedAt, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.News{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.News{}, err
	}
	return q.GetNewsByID(ctx, id)
}

// UpdateNewsParams holds parameters for UpdateNews.
type UpdateNewsParams struct {
	Title       string
	Slug        string
	Summary     string
	Body        string
	BodyHTML    string
	Status      string
	ImagePath   sql.NullString
	PublishedAt sql.NullTime
	UpdatedAt   time.Time
	ID          int64
}

// UpdateNews updates an existing article.
func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE news SET title = ?, slug = ?, summary = ?, body = ?, body_html = ?,
		 status = ?, image_path = ?, published_at = ?, updated_at = ? WHERE id = ?`,
		arg.Title, arg.Slug, arg.Summary, arg.Body, arg.BodyHTML, arg.Status,
		arg.ImagePath, arg.PublishedAt, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteNews removes an article.
func (q *Queries) DeleteNews(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM news WHERE id = ?", id)
	return err
}
