package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/model"
)

const eventColumns = "id, level, category, message, user_id, ip_address, metadata, created_at"

// CreateEventParams holds parameters for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IPAddress string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts a new audit event.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, user_id, ip_address, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.IPAddress,
		arg.Metadata, arg.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListEventsParams holds parameters for ListEvents.
type ListEventsParams struct {
	Category string // empty = all categories
	Limit    int64
	Offset   int64
}

// ListEvents returns audit events, newest first.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]model.Event, error) {
	query := "SELECT " + eventColumns + " FROM events ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args := []any{arg.Limit, arg.Offset}
	if arg.Category != "" {
		query = "SELECT " + eventColumns + " FROM events WHERE category = ? ORDER BY created_at DESC LIMIT ? OFFSET ?"
		args = []any{arg.Category, arg.Limit, arg.Offset}
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID,
			&e.IPAddress, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// CountEvents returns the total number of audit events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n)
	return n, err
}

// DeleteEventsBefore removes audit events created before the cutoff.
// Returns the number of rows deleted.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
