// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// LoginAttempt tracks failed login attempts for an account.
type LoginAttempt struct {
	Count       int
	FirstFailed time.Time
	LockedUntil time.Time
	Lockouts    int
}

// AttemptStore holds login attempt counters. The default in-memory store
// is suitable for a single instance; a shared store can be injected when
// running more than one.
type AttemptStore interface {
	Get(account string) (LoginAttempt, bool)
	Put(account string, attempt LoginAttempt)
	Delete(account string)
	// Prune removes entries for which keep returns false.
	Prune(keep func(LoginAttempt) bool)
}

// memoryAttemptStore is the default map-backed AttemptStore.
type memoryAttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]LoginAttempt
}

// NewMemoryAttemptStore creates an in-memory AttemptStore.
func NewMemoryAttemptStore() AttemptStore {
	return &memoryAttemptStore{attempts: make(map[string]LoginAttempt)}
}

func (s *memoryAttemptStore) Get(account string) (LoginAttempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[account]
	return a, ok
}

func (s *memoryAttemptStore) Put(account string, attempt LoginAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[account] = attempt
}

func (s *memoryAttemptStore) Delete(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, account)
}

func (s *memoryAttemptStore) Prune(keep func(LoginAttempt) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for account, attempt := range s.attempts {
		if !keep(attempt) {
			delete(s.attempts, account)
		}
	}
}

// LoginProtection provides combined IP rate limiting and account lockout
// protection for the login endpoint.
type LoginProtection struct {
	ipLimiters *limiterCache[string]
	store      AttemptStore
	mu         sync.Mutex // serializes read-modify-write on the store

	maxFailedAttempts int
	lockoutDuration   time.Duration // base duration, doubles with each lockout
	attemptWindow     time.Duration
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is requests per second per IP (default: 0.5)
	IPRateLimit float64
	// IPBurst is the maximum burst size for IP rate limiting (default: 5)
	IPBurst int
	// MaxFailedAttempts before account lockout (default: 5)
	MaxFailedAttempts int
	// LockoutDuration is base lockout time, doubles with each lockout (default: 15 minutes)
	LockoutDuration time.Duration
	// AttemptWindow is the time window for counting failed attempts (default: 15 minutes)
	AttemptWindow time.Duration
	// Store overrides the default in-memory attempt store.
	Store AttemptStore
}

// DefaultLoginProtectionConfig returns sensible defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection creates a new login protection instance.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = 0.5
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = 5
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = 15 * time.Minute
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryAttemptStore()
	}

	lp := &LoginProtection{
		ipLimiters:        newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		store:             cfg.Store,
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
	}

	go lp.cleanup()

	return lp
}

// CheckIPRateLimit checks if the IP is rate limited.
// Returns true if the request should be allowed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	return lp.ipLimiters.get(ip).Allow()
}

// IsAccountLocked checks if an account is currently locked.
// Returns (locked, remainingTime).
func (lp *LoginProtection) IsAccountLocked(account string) (bool, time.Duration) {
	attempt, exists := lp.store.Get(account)
	if !exists {
		return false, 0
	}

	if time.Now().Before(attempt.LockedUntil) {
		return true, time.Until(attempt.LockedUntil)
	}

	return false, 0
}

// RecordFailedAttempt records a failed login attempt.
// Returns (locked, lockDuration) if the account is now locked.
func (lp *LoginProtection) RecordFailedAttempt(account string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := time.Now()
	attempt, exists := lp.store.Get(account)

	if !exists || now.Sub(attempt.FirstFailed) > lp.attemptWindow {
		lp.store.Put(account, LoginAttempt{
			Count:       1,
			FirstFailed: now,
			Lockouts:    attempt.Lockouts,
		})
		return false, 0
	}

	attempt.Count++

	if attempt.Count >= lp.maxFailedAttempts {
		// Exponential backoff, capped at 24 hours
		lockDuration := lp.lockoutDuration
		for i := 0; i < attempt.Lockouts; i++ {
			lockDuration *= 2
			if lockDuration > 24*time.Hour {
				lockDuration = 24 * time.Hour
				break
			}
		}

		attempt.LockedUntil = now.Add(lockDuration)
		attempt.Lockouts++
		attempt.Count = 0
		lp.store.Put(account, attempt)

		slog.Warn("account locked due to failed attempts",
			"category", "auth",
			"account", account,
			"lockouts", attempt.Lockouts,
			"duration", lockDuration,
		)

		return true, lockDuration
	}

	lp.store.Put(account, attempt)
	return false, 0
}

// RecordSuccessfulLogin clears failed attempt tracking for an account.
func (lp *LoginProtection) RecordSuccessfulLogin(account string) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.store.Delete(account)
}

// GetRemainingAttempts returns the number of remaining attempts before lockout.
func (lp *LoginProtection) GetRemainingAttempts(account string) int {
	attempt, exists := lp.store.Get(account)
	if !exists {
		return lp.maxFailedAttempts
	}

	if time.Since(attempt.FirstFailed) > lp.attemptWindow {
		return lp.maxFailedAttempts
	}

	remaining := lp.maxFailedAttempts - attempt.Count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup periodically removes stale entries.
func (lp *LoginProtection) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		lp.cleanupStaleEntries()
	}
}

func (lp *LoginProtection) cleanupStaleEntries() {
	now := time.Now()

	if lp.ipLimiters.clearIfExceeds(10000) {
		slog.Info("cleared IP rate limiters due to size")
	}

	lp.mu.Lock()
	lp.store.Prune(func(attempt LoginAttempt) bool {
		// Keep entries that are still locked or within the attempt window
		return now.Before(attempt.LockedUntil) ||
			now.Sub(attempt.FirstFailed) <= lp.attemptWindow
	})
	lp.mu.Unlock()
}

// Middleware returns HTTP middleware for IP rate limiting on login.
// This should be applied to the login POST route.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "category", "auth", "ip", ip)
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many login attempts. Please wait and try again.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
