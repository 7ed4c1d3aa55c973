package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard() services.AuthorizationGuard {
	return services.NewAuthorizationGuard(access.DefaultPermissionCatalog(), access.DefaultRoleHierarchy())
}

func TestAuthorizationGuard_Check(t *testing.T) {
	guard := newGuard()

	t.Run("should deny cliente writing orders", func(t *testing.T) {
		// Given
		role := access.Customer

		// When
		d := guard.Check(role, access.OrdersWrite)

		// Then
		assert.False(t, d.IsApproved())
		assert.Equal(t, "missing permission: orders:write", d.Reason())
		require.ErrorIs(t, d.Err(), access.ErrAccessDenied)
	})

	t.Run("should approve iff the catalog lists the role", func(t *testing.T) {
		catalog := access.DefaultPermissionCatalog()

		for _, p := range catalog.Permissions() {
			allowed, err := catalog.AllowedRoles(p)
			require.NoError(t, err)

			for _, r := range access.Roles() {
				assert.Equal(t, allowed.Contains(r), guard.Check(r, p).IsApproved(), "%s / %s", r, p)
			}
		}
	})

	t.Run("should deny unknown permissions for every role", func(t *testing.T) {
		for _, r := range access.Roles() {
			d := guard.Check(r, "fleet:teleport")

			assert.False(t, d.IsApproved())
			assert.Equal(t, "missing permission: fleet:teleport", d.Reason())
		}
	})

	t.Run("should deny invalid roles", func(t *testing.T) {
		assert.False(t, guard.Check(access.RoleUnknown, access.OrdersRead).IsApproved())
	})

	t.Run("should answer identically on repeated calls", func(t *testing.T) {
		first := guard.Check(access.Driver, access.OrdersProgress)
		for range 100 {
			assert.Equal(t, first, guard.Check(access.Driver, access.OrdersProgress))
		}
	})
}

func TestAuthorizationGuard_CheckMinimumRole(t *testing.T) {
	guard := newGuard()

	t.Run("should approve equal and higher roles", func(t *testing.T) {
		assert.True(t, guard.CheckMinimumRole(access.Supervisor, access.Supervisor).IsApproved())
		assert.True(t, guard.CheckMinimumRole(access.Admin, access.Supervisor).IsApproved())
		assert.True(t, guard.CheckMinimumRole(access.Driver, access.Operator).IsApproved())
	})

	t.Run("should name the minimum role without exposing ranks", func(t *testing.T) {
		d := guard.CheckMinimumRole(access.Operator, access.Supervisor)

		assert.False(t, d.IsApproved())
		assert.Equal(t, "requires at least role: supervisor", d.Reason())
		assert.NotContains(t, d.Reason(), "60")
	})
}

func TestAuthorizationGuard_CheckSuperadmin(t *testing.T) {
	guard := newGuard()

	for _, r := range access.Roles() {
		d := guard.CheckSuperadmin(r)
		if r == access.Superadmin {
			assert.True(t, d.IsApproved())
			continue
		}
		assert.False(t, d.IsApproved(), r.String())
		assert.Equal(t, "superadmin only", d.Reason())
	}
}

func TestAuthorizationGuard_ZeroValueDeniesEverything(t *testing.T) {
	var guard services.AuthorizationGuard

	assert.False(t, guard.Check(access.Superadmin, access.OrdersRead).IsApproved())
	assert.False(t, guard.CheckMinimumRole(access.Superadmin, access.Customer).IsApproved())
}

func TestAuthorizationGuard_UnbuiltHierarchyDeniesMinimumRole(t *testing.T) {
	guard := services.NewAuthorizationGuard(access.DefaultPermissionCatalog(), access.RoleHierarchy{})

	d := guard.CheckMinimumRole(access.Customer, access.Superadmin)

	assert.False(t, d.IsApproved())
	assert.Equal(t, "requires at least role: superadmin", d.Reason())
}
