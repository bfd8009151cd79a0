// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// News statuses.
const (
	NewsStatusDraft     = "draft"
	NewsStatusPublished = "published"
)

// News represents a news article shown on the public site.
type News struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Summary     string         `json:"summary"`
	Body        string         `json:"body"`      // Markdown source
	BodyHTML    string         `json:"body_html"` // Rendered and sanitized
	Status      string         `json:"status"`
	ImagePath   sql.NullString `json:"image_path,omitempty"`
	AuthorID    int64          `json:"author_id"`
	PublishedAt sql.NullTime   `json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IsPublished returns true if the article is visible on the public site.
func (n *News) IsPublished() bool {
	return n.Status == NewsStatusPublished
}
