// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/sergio129/zafiralex-sub000/internal/auth"
	"github.com/sergio129/zafiralex-sub000/internal/middleware"
	"github.com/sergio129/zafiralex-sub000/internal/model"
	"github.com/sergio129/zafiralex-sub000/internal/rbac"
	"github.com/sergio129/zafiralex-sub000/internal/store"
)

const minPasswordLength = 10

// CreateUserRequest is the request body for creating an admin user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// UpdateUserRequest is the request body for updating an admin user.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// ChangePasswordRequest is the request body for setting a new password.
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// ListUsers handles GET /api/v1/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)

	users, err := h.queries.ListUsers(ctx, store.ListUsersParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list users")
		return
	}
	total, err := h.queries.CountUsers(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list users")
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userToResponse(u))
	}

	WriteSuccess(w, responses, paginationMeta(total, page, perPage))
}

// GetUser handles GET /api/v1/admin/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEntityByID(w, r, "user", func(id int64) (model.User, error) {
		return h.queries.GetUserByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, userToResponse(user), nil)
}

// CreateUser handles POST /api/v1/admin/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	validationErrors := make(map[string]string)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		validationErrors["email"] = "A valid email address is required"
	}
	if req.Name == "" {
		validationErrors["name"] = "Name is required"
	}
	if !rbac.IsValidRole(req.Role) {
		validationErrors["role"] = "Unknown role"
	}
	if len(req.Password) < minPasswordLength {
		validationErrors["password"] = "Password must be at least 10 characters"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	count, err := h.queries.CountUsersByEmail(ctx, req.Email)
	if err != nil {
		WriteInternalError(w, "Failed to create user")
		return
	}
	if count > 0 {
		WriteValidationError(w, map[string]string{"email": "Email is already in use"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteInternalError(w, "Failed to create user")
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Name:         req.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create user")
		return
	}

	_ = h.events.LogUserEvent(ctx, model.EventLevelInfo, "User created",
		middleware.GetUserIDPtr(r), clientIP(r),
		map[string]any{"id": user.ID, "role": user.Role})

	WriteCreated(w, userToResponse(user))
}

// UpdateUser handles PUT /api/v1/admin/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := requireEntityByID(w, r, "user", func(id int64) (model.User, error) {
		return h.queries.GetUserByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			WriteValidationError(w, map[string]string{"email": "A valid email address is required"})
			return
		}
		if email != user.Email {
			count, err := h.queries.CountUsersByEmail(ctx, email)
			if err != nil {
				WriteInternalError(w, "Failed to update user")
				return
			}
			if count > 0 {
				WriteValidationError(w, map[string]string{"email": "Email is already in use"})
				return
			}
		}
		user.Email = email
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			WriteValidationError(w, map[string]string{"name": "Name cannot be empty"})
			return
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil && *req.Role != user.Role {
		if !rbac.IsValidRole(*req.Role) {
			WriteValidationError(w, map[string]string{"role": "Unknown role"})
			return
		}
		if user.IsAdmin() {
			if blocked := h.blockIfLastAdmin(w, r, "Cannot demote the last administrator"); blocked {
				return
			}
		}
		user.Role = *req.Role
	}

	err := h.queries.UpdateUser(ctx, store.UpdateUserParams{
		Email:     user.Email,
		Role:      user.Role,
		Name:      user.Name,
		UpdatedAt: time.Now(),
		ID:        user.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update user")
		return
	}

	_ = h.events.LogUserEvent(ctx, model.EventLevelInfo, "User updated",
		middleware.GetUserIDPtr(r), clientIP(r),
		map[string]any{"id": user.ID, "role": user.Role})

	WriteSuccess(w, userToResponse(user), nil)
}

// ChangeUserPassword handles PUT /api/v1/admin/users/{id}/password.
func (h *Handler) ChangeUserPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := requireEntityByID(w, r, "user", func(id int64) (model.User, error) {
		return h.queries.GetUserByID(ctx, id)
	})
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if len(req.Password) < minPasswordLength {
		WriteValidationError(w, map[string]string{"password": "Password must be at least 10 characters"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteInternalError(w, "Failed to change password")
		return
	}
	err = h.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    time.Now(),
		ID:           user.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to change password")
		return
	}

	_ = h.events.LogUserEvent(ctx, model.EventLevelInfo, "User password changed",
		middleware.GetUserIDPtr(r), clientIP(r), map[string]any{"id": user.ID})

	WriteSuccess(w, map[string]string{"status": "password_changed"}, nil)
}

// DeleteUser handles DELETE /api/v1/admin/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := requireEntityByID(w, r, "user", func(id int64) (model.User, error) {
		return h.queries.GetUserByID(ctx, id)
	})
	if !ok {
		return
	}

	if user.ID == middleware.GetUserID(r) {
		WriteBadRequest(w, "You cannot delete your own account", nil)
		return
	}
	if user.IsAdmin() {
		if blocked := h.blockIfLastAdmin(w, r, "Cannot delete the last administrator"); blocked {
			return
		}
	}

	// News and documents keep a foreign key to their author, so a user
	// who still owns content cannot be removed.
	newsCount, err := h.queries.CountNewsByAuthor(ctx, user.ID)
	if err != nil {
		WriteInternalError(w, "Failed to delete user")
		return
	}
	docCount, err := h.queries.CountDocumentsByUploader(ctx, user.ID)
	if err != nil {
		WriteInternalError(w, "Failed to delete user")
		return
	}
	if newsCount > 0 || docCount > 0 {
		WriteConflict(w, "User still owns news articles or documents; reassign or delete them first")
		return
	}

	if err := h.queries.DeleteUser(ctx, user.ID); err != nil {
		WriteInternalError(w, "Failed to delete user")
		return
	}

	_ = h.events.LogUserEvent(ctx, model.EventLevelWarning, "User deleted",
		middleware.GetUserIDPtr(r), clientIP(r),
		map[string]any{"id": user.ID, "email": user.Email})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// blockIfLastAdmin writes a 400 response and returns true when only one
// admin account remains.
func (h *Handler) blockIfLastAdmin(w http.ResponseWriter, r *http.Request, message string) bool {
	count, err := h.queries.CountUsersByRole(r.Context(), string(rbac.RoleAdmin))
	if err != nil {
		WriteInternalError(w, "Failed to check administrators")
		return true
	}
	if count <= 1 {
		WriteBadRequest(w, message, nil)
		return true
	}
	return false
}
