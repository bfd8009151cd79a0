// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "zafiralex-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	f.Close()

	db, err := store.NewDB(f.Name())
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(f.Name())
	})
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func insertEvent(t *testing.T, db *sql.DB, createdAt time.Time) {
	t.Helper()
	queries := store.New(db)
	_, err := queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     "info",
		Category:  "system",
		Message:   "test event",
		Metadata:  "{}",
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("inserting event: %v", err)
	}
}

func countEvents(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	n, err := store.New(db).CountEvents(context.Background())
	if err != nil {
		t.Fatalf("counting events: %v", err)
	}
	return n
}

func TestPurgeOldEvents(t *testing.T) {
	db := testDB(t)
	s := New(db, testLogger(), 30)

	now := time.Now()
	insertEvent(t, db, now.AddDate(0, 0, -60))
	insertEvent(t, db, now.AddDate(0, 0, -31))
	insertEvent(t, db, now.AddDate(0, 0, -1))

	if err := s.purgeOldEvents(); err != nil {
		t.Fatalf("purgeOldEvents: %v", err)
	}

	if got := countEvents(t, db); got != 1 {
		t.Errorf("remaining events = %d, want 1", got)
	}
}

func TestPurgeOldEventsDisabled(t *testing.T) {
	db := testDB(t)
	s := New(db, testLogger(), 0)

	insertEvent(t, db, time.Now().AddDate(0, 0, -365))

	if err := s.purgeOldEvents(); err != nil {
		t.Fatalf("purgeOldEvents: %v", err)
	}

	if got := countEvents(t, db); got != 1 {
		t.Errorf("remaining events = %d, want 1 (retention disabled)", got)
	}
}

func TestStartStop(t *testing.T) {
	db := testDB(t)
	s := New(db, testLogger(), 30)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := len(s.cron.Entries()); got != 1 {
		t.Errorf("registered jobs = %d, want 1", got)
	}
	s.Stop()
}
