package queries_test

import (
	"testing"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDecisionRecorder struct{ mock.Mock }

func (m *MockDecisionRecorder) RecordCheck(role access.Role, permission access.Permission, approved bool) {
	m.Called(role, permission, approved)
}

func (m *MockDecisionRecorder) RecordTransition(role access.Role, from, to order.Status, outcome string) {
	m.Called(role, from, to, outcome)
}

func newActorIn(t *testing.T, tenantID kernel.UUID, role access.Role) access.Actor {
	t.Helper()
	actor, err := access.NewActor(kernel.NewUUID(), tenantID, role)
	require.NoError(t, err)
	return actor
}

func newGuard() services.AuthorizationGuard {
	return services.NewAuthorizationGuard(access.DefaultPermissionCatalog(), access.DefaultRoleHierarchy())
}

func newCoordinator() services.DispatchCoordinator {
	return services.MustDispatchCoordinator(newGuard(), order.DefaultLifecycle())
}
