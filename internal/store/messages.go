// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/model"
)

const messageColumns = "id, name, email, phone, subject, body, status, ip_address, created_at, updated_at"

func scanMessage(row *sql.Row) (model.ContactMessage, error) {
	var m model.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Body,
		&m.Status, &m.IPAddress, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// GetMessageByID returns the contact message with the given ID.
func (q *Queries) GetMessageByID(ctx context.Context, id int64) (model.ContactMessage, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE id = ?", id)
	return scanMessage(row)
}

// ListMessagesParams holds parameters for ListMessages.
type ListMessagesParams struct {
	Status string // empty = all statuses
	Limit  int64
	Offset int64
}

// ListMessages returns contact messages ordered by creation time, newest first.
func (q *Queries) ListMessages(ctx context.Context, arg ListMessagesParams) ([]model.ContactMessage, error) {
	query := "SELECT " + messageColumns + " FROM messages ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args := []any{arg.Limit, arg.Offset}
	if arg.Status != "" {
		query = "SELECT " + messageColumns + " FROM messages WHERE status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?"
		args = []any{arg.Status, arg.Limit, arg.Offset}
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.ContactMessage
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Body,
			&m.Status, &m.IPAddress, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// CountMessages returns the number of contact messages, optionally filtered by status.
func (q *Queries) CountMessages(ctx context.Context, status string) (int64, error) {
	var n int64
	if status != "" {
		err := q.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM messages WHERE status = ?", status).Scan(&n)
		return n, err
	}
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

// CreateMessageParams holds parameters for CreateMessage.
type CreateMessageParams struct {
	Name      string
	Email     string
	Phone     string
	Subject   string
	Body      string
	Status    string
	IPAddress string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateMessage inserts a new contact message and returns it.
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (model.ContactMessage, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO messages (name, email, phone, subject, body, status, ip_address, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Email, arg.Phone, arg.Subject, arg.Body, arg.Status,
		arg.IPAddress, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.ContactMessage{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ContactMessage{}, err
	}
	return q.GetMessageByID(ctx, id)
}

// UpdateMessageStatusParams holds parameters for UpdateMessageStatus.
type UpdateMessageStatusParams struct {
	Status    string
	UpdatedAt time.Time
	ID        int64
}

// UpdateMessageStatus changes the handling status of a message.
func (q *Queries) UpdateMessageStatus(ctx context.Context, arg UpdateMessageStatusParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE messages SET status = ?, updated_at = ? WHERE id = ?",
		arg.Status, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteMessage removes a contact message.
func (q *Queries) DeleteMessage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	return err
}
