package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type changeStatusFixture struct {
	repo     *MockOrderRepository
	uow      *MockOrderUoW
	factory  *MockOrderUoWFactory
	recorder *MockDecisionRecorder
	handler  commands.ChangeOrderStatusCommandHandler
}

func newChangeStatusFixture(t *testing.T) *changeStatusFixture {
	f := &changeStatusFixture{
		repo:     new(MockOrderRepository),
		uow:      new(MockOrderUoW),
		factory:  new(MockOrderUoWFactory),
		recorder: new(MockDecisionRecorder),
	}
	f.factory.On("Create").Return(f.uow).Once()
	f.handler = commands.NewChangeOrderStatusCommandHandler(f.factory, newCoordinator(t), f.recorder)
	return f
}

func (f *changeStatusFixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
	f.recorder.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_AssignsPendingOrder(t *testing.T) {
	// Given
	ctx := t.Context()
	actor := newActor(t, access.Admin)
	aggregate := newOrderIn(t, actor.TenantID())
	driverID, vehicleID := kernel.NewUUID(), kernel.NewUUID()
	cmd, err := commands.NewChangeOrderStatusCommand(actor, aggregate.ID(), order.Assigned, order.TransitionDetails{
		DriverID:  &driverID,
		VehicleID: &vehicleID,
	})
	require.NoError(t, err)

	f := newChangeStatusFixture(t)
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, actor.TenantID(), aggregate.ID()).Return(aggregate, nil).Once(),
		f.repo.On("Update", ctx, aggregate, int64(1)).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	f.recorder.On("RecordTransition", access.Admin, order.Pending, order.Assigned, ports.OutcomeApproved).Once()

	// When
	changed, err := f.handler.Handle(ctx, cmd)

	// Then
	require.NoError(t, err)
	assert.Equal(t, order.Pending, changed.From)
	assert.Equal(t, order.Assigned, changed.To)
	assert.Equal(t, int64(2), changed.Version)
	assert.Equal(t, driverID, *aggregate.DriverID())
	f.assertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_Rejections(t *testing.T) {
	testCases := []struct {
		name      string
		role      access.Role
		setup     func(t *testing.T, tenantID kernel.UUID) *order.Order
		requested order.Status
		outcome   string
		target    error
	}{
		{
			name:      "chofer cannot cancel a pending order",
			role:      access.Driver,
			setup:     newOrderIn,
			requested: order.Cancelled,
			outcome:   ports.OutcomeUnauthorized,
			target:    access.ErrAccessDenied,
		},
		{
			name:      "operator requesting the current status",
			role:      access.Operator,
			setup:     newOrderIn,
			requested: order.Pending,
			outcome:   ports.OutcomeNoOp,
			target:    services.ErrNoOpTransition,
		},
		{
			name: "superadmin reopening a delivered order",
			role: access.Superadmin,
			setup: func(t *testing.T, tenantID kernel.UUID) *order.Order {
				o := assignedOrderIn(t, tenantID)
				require.NoError(t, o.ApplyTransition(order.InProgress, order.TransitionDetails{}, o.UpdatedAt()))
				require.NoError(t, o.ApplyTransition(order.Delivered, order.TransitionDetails{}, o.UpdatedAt()))
				return o
			},
			requested: order.Pending,
			outcome:   ports.OutcomeIllegal,
			target:    order.ErrIllegalTransition,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			actor := newActor(t, tc.role)
			aggregate := tc.setup(t, actor.TenantID())
			from, version := aggregate.Status(), aggregate.Version()
			cmd, err := commands.NewChangeOrderStatusCommand(actor, aggregate.ID(), tc.requested, order.TransitionDetails{})
			require.NoError(t, err)

			f := newChangeStatusFixture(t)
			mock.InOrder(
				f.uow.On("Begin", ctx).Return(nil).Once(),
				f.uow.On("OrderRepository").Return(f.repo).Once(),
				f.repo.On("Get", ctx, actor.TenantID(), aggregate.ID()).Return(aggregate, nil).Once(),
				f.uow.On("Rollback", ctx).Return(nil).Once(),
			)
			f.recorder.On("RecordTransition", tc.role, from, tc.requested, tc.outcome).Once()

			_, err = f.handler.Handle(ctx, cmd)

			require.ErrorIs(t, err, tc.target)
			assert.Equal(t, from, aggregate.Status())
			assert.Equal(t, version, aggregate.Version())
			f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			f.assertExpectations(t)
		})
	}
}

func TestChangeOrderStatusCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()
	actor := newActor(t, access.Driver)
	aggregate := assignedOrderIn(t, actor.TenantID())
	cmd, _ := commands.NewChangeOrderStatusCommand(actor, aggregate.ID(), order.InProgress, order.TransitionDetails{})

	f := newChangeStatusFixture(t)
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, actor.TenantID(), aggregate.ID()).Return(aggregate, nil).Once(),
		f.repo.On("Update", ctx, aggregate, int64(2)).Return(errs.NewVersionIsInvalidError("order")).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	f.recorder.On("RecordTransition", access.Driver, order.Assigned, order.InProgress, ports.OutcomeConflict).Once()

	_, err := f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	f.uow.AssertNotCalled(t, "Commit", ctx)
	f.assertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_OrderOfAnotherTenant(t *testing.T) {
	ctx := t.Context()
	actor := newActor(t, access.Superadmin)
	orderID := kernel.NewUUID()
	cmd, _ := commands.NewChangeOrderStatusCommand(actor, orderID, order.Cancelled, order.TransitionDetails{})

	f := newChangeStatusFixture(t)
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, actor.TenantID(), orderID).Return(nil, errs.NewObjectNotFoundError("order", orderID)).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.assertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_MissingAssignmentDetails(t *testing.T) {
	ctx := t.Context()
	actor := newActor(t, access.Operator)
	aggregate := newOrderIn(t, actor.TenantID())
	cmd, _ := commands.NewChangeOrderStatusCommand(actor, aggregate.ID(), order.Assigned, order.TransitionDetails{})

	f := newChangeStatusFixture(t)
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.repo).Once(),
		f.repo.On("Get", ctx, actor.TenantID(), aggregate.ID()).Return(aggregate, nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err := f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Equal(t, order.Pending, aggregate.Status())
	f.assertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	actor := newActor(t, access.Operator)
	cmd, _ := commands.NewChangeOrderStatusCommand(actor, kernel.NewUUID(), order.Cancelled, order.TransitionDetails{})

	f := newChangeStatusFixture(t)
	f.uow.On("Begin", ctx).Return(errors.New("begin error")).Once()

	_, err := f.handler.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
	f.assertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_ValidationError(t *testing.T) {
	f := newChangeStatusFixture(t)

	_, err := f.handler.Handle(t.Context(), commands.ChangeOrderStatusCommand{})

	require.ErrorIs(t, err, commands.ErrChangeOrderStatusCommandIsNotConstructed)
	f.factory.AssertNotCalled(t, "Create")
}
