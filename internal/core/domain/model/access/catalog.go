package access

import (
	"errors"
	"fmt"
	"slices"

	"dispatch/internal/pkg/errs"
)

// ErrUnknownPermission marks a lookup of a permission the catalog never registered.
// It is a configuration error: every permission the application checks must be
// in the catalog, which the tests and NewDispatchCoordinator verify.
var ErrUnknownPermission = errors.New("unknown permission")

// UnknownPermissionError carries the permission that was not registered.
type UnknownPermissionError struct {
	Permission Permission
}

func (e *UnknownPermissionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownPermission, e.Permission)
}

func (e *UnknownPermissionError) Unwrap() error {
	return ErrUnknownPermission
}

// defaultMatrix is the application's permission → allowed roles table.
func defaultMatrix() map[Permission][]Role {
	everyone := Roles()
	staff := []Role{Superadmin, Admin, Supervisor, Operator}
	field := []Role{Superadmin, Admin, Supervisor, Operator, Driver}
	managers := []Role{Superadmin, Admin, Supervisor}

	return map[Permission][]Role{
		OrdersRead:     everyone,
		OrdersWrite:    staff,
		OrdersAssign:   staff,
		OrdersProgress: field,
		OrdersCancel:   managers,

		VehiclesRead:   field,
		VehiclesWrite:  managers,
		VehiclesAssign: staff,

		InventoryRead:      field,
		InventoryWrite:     staff,
		InventoryReconcile: managers,

		ReportsRead:   managers,
		BillingManage: {Superadmin, Admin},
		UsersManage:   {Superadmin, Admin},
		TenantsManage: {Superadmin},
	}
}

// PermissionCatalog is the static source of truth for which roles may exercise
// each permission. It has no mutators; build it once and share it.
type PermissionCatalog struct {
	allowed map[Permission]RoleSet
}

// DefaultPermissionCatalog returns the application matrix.
func DefaultPermissionCatalog() PermissionCatalog {
	return MustPermissionCatalog(defaultMatrix())
}

// MustPermissionCatalog is NewPermissionCatalog for static tables; it panics on
// a configuration error.
func MustPermissionCatalog(matrix map[Permission][]Role) PermissionCatalog {
	c, err := NewPermissionCatalog(matrix)
	if err != nil {
		panic(fmt.Sprintf("access: permission catalog: %v", err))
	}
	return c
}

// NewPermissionCatalog validates and copies matrix. Every permission must be
// well formed and map to at least one valid role.
func NewPermissionCatalog(matrix map[Permission][]Role) (PermissionCatalog, error) {
	allowed := make(map[Permission]RoleSet, len(matrix))
	var problems []error
	for perm, roles := range matrix {
		if err := perm.Validate(); err != nil {
			problems = append(problems, err)
			continue
		}
		for _, r := range roles {
			if err := r.Validate(); err != nil {
				problems = append(problems, fmt.Errorf("%s: %w", perm, err))
			}
		}
		set := NewRoleSet(roles...)
		if set.IsEmpty() {
			problems = append(problems, errs.NewValueIsRequiredError("allowed roles of "+perm.String()))
			continue
		}
		allowed[perm] = set
	}
	if err := errors.Join(problems...); err != nil {
		return PermissionCatalog{}, err
	}
	return PermissionCatalog{allowed: allowed}, nil
}

// AllowedRoles returns the roles that hold p.
func (c PermissionCatalog) AllowedRoles(p Permission) (RoleSet, error) {
	set, ok := c.allowed[p]
	if !ok {
		return 0, &UnknownPermissionError{Permission: p}
	}
	return set, nil
}

// IsAllowed reports whether role holds p. Unknown permissions are never allowed.
func (c PermissionCatalog) IsAllowed(role Role, p Permission) bool {
	set, err := c.AllowedRoles(p)
	if err != nil {
		return false
	}
	return set.Contains(role)
}

// Has reports whether p is registered.
func (c PermissionCatalog) Has(p Permission) bool {
	_, ok := c.allowed[p]
	return ok
}

// Permissions lists every registered permission, sorted.
func (c PermissionCatalog) Permissions() []Permission {
	out := make([]Permission, 0, len(c.allowed))
	for p := range c.allowed {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// PermissionsFor lists the permissions role holds, sorted.
func (c PermissionCatalog) PermissionsFor(role Role) []Permission {
	out := make([]Permission, 0, len(c.allowed))
	for p, set := range c.allowed {
		if set.Contains(role) {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}
