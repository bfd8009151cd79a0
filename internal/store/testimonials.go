// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/model"
)

const testimonialColumns = "id, author_name, author_title, body, body_html, rating, status, created_at, updated_at"

func scanTestimonial(row *sql.Row) (model.Testimonial, error) {
	var t model.Testimonial
	err := row.Scan(&t.ID, &t.AuthorName, &t.AuthorTitle, &t.Body, &t.BodyHTML,
		&t.Rating, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanTestimonials(rows *sql.Rows) ([]model.Testimonial, error) {
	defer rows.Close()
	var items []model.Testimonial
	for rows.Next() {
		var t model.Testimonial
		if err := rows.Scan(&t.ID, &t.AuthorName, &t.AuthorTitle, &t.Body, &t.BodyHTML,
			&t.Rating, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// GetTestimonialByID returns the testimonial with the given ID.
func (q *Queries) GetTestimonialByID(ctx context.Context, id int64) (model.Testimonial, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+testimonialColumns+" FROM testimonials WHERE id = ?", id)
	return scanTestimonial(row)
}

// ListTestimonialsParams holds parameters for ListTestimonials.
type ListTestimonialsParams struct {
	Status string // empty = all statuses
	Limit  int64
	Offset int64
}

// ListTestimonials returns testimonials ordered by creation time, newest first.
func (q *Queries) ListTestimonials(ctx context.Context, arg ListTestimonialsParams) ([]model.Testimonial, error) {
	if arg.Status != "" {
		rows, err := q.db.QueryContext(ctx,
			"SELECT "+testimonialColumns+" FROM testimonials WHERE status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?",
			arg.Status, arg.Limit, arg.Offset)
		if err != nil {
			return nil, err
		}
		return scanTestimonials(rows)
	}
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+testimonialColumns+" FROM testimonials ORDER BY created_at DESC LIMIT ? OFFSET ?",
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanTestimonials(rows)
}

// CountTestimonials returns the number of testimonials, optionally filtered by status.
func (q *Queries) CountTestimonials(ctx context.Context, status string) (int64, error) {
	var n int64
	if status != "" {
		err := q.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM testimonials WHERE status = ?", status).Scan(&n)
		return n, err
	}
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM testimonials").Scan(&n)
	return n, err
}

// CreateTestimonialParams holds parameters for CreateTestimonial.
type CreateTestimonialParams struct {
	AuthorName  string
	AuthorTitle string
	Body        string
	BodyHTML    string
	Rating      int64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTestimonial inserts a new testimonial and returns it.
func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (model.Testimonial, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO testimonials (author_name, author_title, body, body_html, rating, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.AuthorName, arg.AuthorTitle, arg.Body, arg.BodyHTML, arg.Rating,
		arg.Status, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Testimonial{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Testimonial{}, err
	}
	return q.GetTestimonialByID(ctx, id)
}

// UpdateTestimonialParams holds parameters for UpdateTestimonial.
type UpdateTestimonialParams struct {
	AuthorName  string
	AuthorTitle string
	Body        string
	BodyHTML    string
	Rating      int64
	Status      string
	UpdatedAt   time.Time
	ID          int64
}

// UpdateTestimonial updates an existing testimonial.
func (q *Queries) UpdateTestimonial(ctx context.Context, arg UpdateTestimonialParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE testimonials SET author_name = ?, author_title = ?, body = ?, body_html = ?,
		 rating = ?, status = ?, updated_at = ? WHERE id = ?`,
		arg.AuthorName, arg.AuthorTitle, arg.Body, arg.BodyHTML, arg.Rating,
		arg.Status, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateTestimonialStatusParams holds parameters for UpdateTestimonialStatus.
type UpdateTestimonialStatusParams struct {
	Status    string
	UpdatedAt time.Time
	ID        int64
}

// UpdateTestimonialStatus changes only the moderation status.
func (q *Queries) UpdateTestimonialStatus(ctx context.Context, arg UpdateTestimonialStatusParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE testimonials SET status = ?, updated_at = ? WHERE id = ?",
		arg.Status, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteTestimonial removes a testimonial.
func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM testimonials WHERE id = ?", id)
	return err
}
