package access_test

import (
	"fmt"
	"testing"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecision(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		d := access.Approve()

		assert.True(t, d.IsApproved())
		assert.Empty(t, d.Reason())
		require.NoError(t, d.Err())
		assert.Equal(t, "approved", d.String())
	})

	t.Run("deny", func(t *testing.T) {
		d := access.Deny("missing permission: orders:write")

		assert.False(t, d.IsApproved())
		assert.Equal(t, "missing permission: orders:write", d.Reason())
		assert.Equal(t, "denied: missing permission: orders:write", d.String())

		err := fmt.Errorf("create order: %w", d.Err())
		require.ErrorIs(t, err, access.ErrAccessDenied)
		var denied *access.AccessDeniedError
		require.ErrorAs(t, err, &denied)
		assert.Equal(t, "missing permission: orders:write", denied.Reason)
	})

	t.Run("zero value is a denial", func(t *testing.T) {
		var d access.Decision

		assert.False(t, d.IsApproved())
		require.ErrorIs(t, d.Err(), access.ErrAccessDenied)
		assert.Equal(t, "denied", d.Reason())
	})
}

func TestNewActor(t *testing.T) {
	userID := kernel.NewUUID()
	tenantID := kernel.NewUUID()

	t.Run("valid actor", func(t *testing.T) {
		actor, err := access.NewActor(userID, tenantID, access.Operator)

		require.NoError(t, err)
		require.NoError(t, actor.Validate())
		assert.Equal(t, userID, actor.UserID())
		assert.Equal(t, tenantID, actor.TenantID())
		assert.Equal(t, access.Operator, actor.Role())
	})

	t.Run("invalid parts are all reported", func(t *testing.T) {
		_, err := access.NewActor(kernel.UUID{}, kernel.UUID{}, access.RoleUnknown)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "role is invalid")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var actor access.Actor

		require.ErrorIs(t, actor.Validate(), access.ErrActorIsNotConstructed)
	})
}
