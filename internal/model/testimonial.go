// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Testimonial statuses.
const (
	TestimonialStatusPending  = "pending"
	TestimonialStatusApproved = "approved"
	TestimonialStatusRejected = "rejected"
)

// ValidTestimonialStatuses contains all valid testimonial statuses.
var ValidTestimonialStatuses = []string{
	TestimonialStatusPending,
	TestimonialStatusApproved,
	TestimonialStatusRejected,
}

// Testimonial represents a client testimonial.
type Testimonial struct {
	ID          int64     `json:"id"`
	AuthorName  string    `json:"author_name"`
	AuthorTitle string    `json:"author_title"`
	Body        string    `json:"body"`
	BodyHTML    string    `json:"body_html"`
	Rating      int64     `json:"rating"` // 1..5
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsApproved returns true if the testimonial is visible on the public site.
func (t *Testimonial) IsApproved() bool {
	return t.Status == TestimonialStatusApproved
}

// IsValidTestimonialStatus reports whether s is a known testimonial status.
func IsValidTestimonialStatus(s string) bool {
	for _, v := range ValidTestimonialStatuses {
		if v == s {
			return true
		}
	}
	return false
}
