// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sergio129/zafiralex-sub000/internal/service"
)

// Scheduler handles scheduled maintenance like audit event retention.
type Scheduler struct {
	db            *sql.DB
	cron          *cron.Cron
	events        *service.EventService
	logger        *slog.Logger
	retentionDays int
}

// New creates a new scheduler instance.
func New(db *sql.DB, logger *slog.Logger, retentionDays int) *Scheduler {
	return &Scheduler{
		db:            db,
		cron:          cron.New(),
		events:        service.NewEventService(db),
		logger:        logger,
		retentionDays: retentionDays,
	}
}

// Start begins the scheduler with a nightly audit log purge.
func (s *Scheduler) Start() error {
	// Run at 03:30 every night
	_, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.purgeOldEvents(); err != nil {
			s.logger.Error("failed to purge old audit events", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// purgeOldEvents deletes audit events older than the retention window.
func (s *Scheduler) purgeOldEvents() error {
	if s.retentionDays <= 0 {
		return nil
	}

	ctx := context.Background()
	retention := time.Duration(s.retentionDays) * 24 * time.Hour

	deleted, err := s.events.DeleteOldEvents(ctx, retention)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("purged old audit events", "deleted", deleted, "retention_days", s.retentionDays)
	}
	return nil
}
