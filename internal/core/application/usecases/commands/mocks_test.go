package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expectedVersion int64) error {
	args := m.Called(ctx, o, expectedVersion)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListByStatus(
	ctx context.Context,
	tenantID kernel.UUID,
	statuses []order.Status,
) ([]*order.Order, error) {
	args := m.Called(ctx, tenantID, statuses)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListAssignedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockDecisionRecorder struct{ mock.Mock }

func (m *MockDecisionRecorder) RecordCheck(role access.Role, permission access.Permission, approved bool) {
	m.Called(role, permission, approved)
}

func (m *MockDecisionRecorder) RecordTransition(role access.Role, from, to order.Status, outcome string) {
	m.Called(role, from, to, outcome)
}

func newActor(t *testing.T, role access.Role) access.Actor {
	t.Helper()
	actor, err := access.NewActor(kernel.NewUUID(), kernel.NewUUID(), role)
	require.NoError(t, err)
	return actor
}

func newGuard() services.AuthorizationGuard {
	return services.NewAuthorizationGuard(access.DefaultPermissionCatalog(), access.DefaultRoleHierarchy())
}

func newCoordinator(t *testing.T) services.DispatchCoordinator {
	t.Helper()
	c, err := services.NewDispatchCoordinator(newGuard(), order.DefaultLifecycle())
	require.NoError(t, err)
	return c
}

func newOrderIn(t *testing.T, tenantID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), tenantID, "ORD-1", time.Now())
	require.NoError(t, err)
	return o
}

func assignedOrderIn(t *testing.T, tenantID kernel.UUID) *order.Order {
	t.Helper()
	o := newOrderIn(t, tenantID)
	driverID, vehicleID := kernel.NewUUID(), kernel.NewUUID()
	require.NoError(t, o.ApplyTransition(order.Assigned, order.TransitionDetails{
		DriverID:  &driverID,
		VehicleID: &vehicleID,
	}, time.Now()))
	return o
}
