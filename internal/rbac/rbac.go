// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rbac is the single source of truth for role-based access control.
// Both the API route guards and any UI capability listing must consult this
// table so the two surfaces cannot drift apart.
package rbac

// Role identifies a user role. The set is closed; unknown strings never
// gain any permission.
type Role string

// User roles.
const (
	RoleAdmin     Role = "admin"
	RoleEditor    Role = "editor"
	RoleSecretary Role = "secretaria"
	RoleLawyer    Role = "abogado"
)

// Roles contains all valid roles.
var Roles = []Role{RoleAdmin, RoleEditor, RoleSecretary, RoleLawyer}

// Module identifies an admin-panel module guarded by permissions.
type Module string

// Admin-panel modules.
const (
	ModuleDashboard    Module = "dashboard"
	ModuleNews         Module = "news"
	ModuleTestimonials Module = "testimonials"
	ModuleMessages     Module = "messages"
	ModuleUsers        Module = "users"
	ModuleDocuments    Module = "documents"
)

// Action identifies an operation on a module.
type Action string

// Module actions. Dashboard only supports ActionView.
const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// perms is the set of actions granted on one module.
type perms struct {
	view, create, edit, delete bool
}

var (
	permsNone = perms{}
	permsView = perms{view: true}
	permsAll  = perms{view: true, create: true, edit: true, delete: true}
)

// table maps role -> module -> granted actions. It is built once at package
// init and never mutated, so unsynchronized concurrent reads are safe.
var table = map[Role]map[Module]perms{
	RoleAdmin: {
		ModuleDashboard:    permsView,
		ModuleNews:         permsAll,
		ModuleTestimonials: permsAll,
		ModuleMessages:     permsAll,
		ModuleUsers:        permsAll,
		ModuleDocuments:    permsAll,
	},
	RoleEditor: {
		ModuleDashboard:    permsView,
		ModuleNews:         permsAll,
		ModuleTestimonials: permsAll,
		ModuleMessages:     permsNone,
		ModuleUsers:        permsNone,
		ModuleDocuments:    perms{view: true, create: true, edit: true},
	},
	RoleSecretary: {
		ModuleDashboard:    permsView,
		ModuleNews:         permsNone,
		ModuleTestimonials: permsView,
		ModuleMessages:     permsAll,
		ModuleUsers:        permsNone,
		ModuleDocuments:    permsView,
	},
	RoleLawyer: {
		ModuleDashboard:    permsView,
		ModuleNews:         permsView,
		ModuleTestimonials: permsView,
		ModuleMessages:     permsNone,
		ModuleUsers:        permsNone,
		ModuleDocuments:    perms{view: true, create: true},
	},
}

// Allowed reports whether the role may perform action on module.
// Unknown roles, modules or actions are denied (fail-closed).
func Allowed(role Role, module Module, action Action) bool {
	modules, ok := table[role]
	if !ok {
		return false
	}
	p, ok := modules[module]
	if !ok {
		return false
	}
	switch action {
	case ActionView:
		return p.view
	case ActionCreate:
		return p.create
	case ActionEdit:
		return p.edit
	case ActionDelete:
		return p.delete
	default:
		return false
	}
}

// IsValidRole reports whether s is a known role.
func IsValidRole(s string) bool {
	for _, r := range Roles {
		if r == Role(s) {
			return true
		}
	}
	return false
}

// ModulesFor returns the modules the role may at least view, in a stable
// order. Used by the "current user" endpoint so the admin UI can build its
// navigation from the same policy the route guards enforce.
func ModulesFor(role Role) []Module {
	ordered := []Module{
		ModuleDashboard,
		ModuleNews,
		ModuleTestimonials,
		ModuleMessages,
		ModuleUsers,
		ModuleDocuments,
	}
	var out []Module
	for _, m := range ordered {
		if Allowed(role, m, ActionView) {
			out = append(out, m)
		}
	}
	return out
}
