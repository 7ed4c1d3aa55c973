package services

import (
	"dispatch/internal/core/domain/model/access"
)

// AuthorizationGuard is the single enforcement point every privileged
// operation passes through. The catalog and hierarchy are injected so tests and
// callers never depend on hidden globals.
//
// Example usage:
//
//	guard := services.NewAuthorizationGuard(access.DefaultPermissionCatalog(), access.DefaultRoleHierarchy())
//	if d := guard.Check(actor.Role(), access.OrdersWrite); !d.IsApproved() {
//	    return d.Err()
//	}
type AuthorizationGuard struct {
	catalog   access.PermissionCatalog
	hierarchy access.RoleHierarchy
}

func NewAuthorizationGuard(catalog access.PermissionCatalog, hierarchy access.RoleHierarchy) AuthorizationGuard {
	return AuthorizationGuard{catalog: catalog, hierarchy: hierarchy}
}

// Catalog returns the catalog the guard checks against.
func (g AuthorizationGuard) Catalog() access.PermissionCatalog {
	return g.catalog
}

// Check approves iff the catalog lists role for permission. Unregistered
// permissions are denied.
func (g AuthorizationGuard) Check(role access.Role, permission access.Permission) access.Decision {
	if g.catalog.IsAllowed(role, permission) {
		return access.Approve()
	}
	return access.Deny("missing permission: " + permission.String())
}

// CheckMinimumRole approves iff role ranks at least as high as minimum.
func (g AuthorizationGuard) CheckMinimumRole(role, minimum access.Role) access.Decision {
	if g.hierarchy.AtLeast(role, minimum) {
		return access.Approve()
	}
	return access.Deny("requires at least role: " + minimum.String())
}

func (g AuthorizationGuard) CheckSuperadmin(role access.Role) access.Decision {
	if role == access.Superadmin {
		return access.Approve()
	}
	return access.Deny("superadmin only")
}
