// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Contact message statuses.
const (
	MessageStatusNew      = "new"
	MessageStatusRead     = "read"
	MessageStatusAnswered = "answered"
	MessageStatusArchived = "archived"
)

// ValidMessageStatuses contains all valid contact message statuses.
var ValidMessageStatuses = []string{
	MessageStatusNew,
	MessageStatusRead,
	MessageStatusAnswered,
	MessageStatusArchived,
}

// ContactMessage represents a message submitted through the public contact form.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	IPAddress string    `json:"-"` // Kept for abuse handling, not exposed
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidMessageStatus reports whether s is a known contact message status.
func IsValidMessageStatus(s string) bool {
	for _, v := range ValidMessageStatuses {
		if v == s {
			return true
		}
	}
	return false
}
