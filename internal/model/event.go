package model

import (
	"database/sql"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth        = "auth"
	EventCategoryNews        = "news"
	EventCategoryTestimonial = "testimonial"
	EventCategoryMessage     = "message"
	EventCategoryUser        = "user"
	EventCategoryDocument    = "document"
	EventCategorySystem      = "system"
)

// Event represents an audit log entry.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    sql.NullInt64
	IPAddress string    `json:"ip_address"`
	Metadata  string    `json:"metadata"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}
