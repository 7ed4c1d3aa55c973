package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// MinimumSystemRole is the lowest role background jobs may act as.
const MinimumSystemRole = access.Supervisor

// ReleaseStaleAssignmentsCommandHandler unassigns stale orders as a system
// role. The role goes through the coordinator like any other actor, so a
// system role without orders:assign releases nothing.
//
// Each order is released in its own transaction. An order another request
// changed in the meantime is skipped, not retried.
type ReleaseStaleAssignmentsCommandHandler struct {
	uowFactory  OrderUoWFactory
	coordinator services.DispatchCoordinator
	systemRole  access.Role
	recorder    ports.DecisionRecorder
}

func NewReleaseStaleAssignmentsCommandHandler(
	uowFactory OrderUoWFactory,
	coordinator services.DispatchCoordinator,
	systemRole access.Role,
	recorder ports.DecisionRecorder,
) (ReleaseStaleAssignmentsCommandHandler, error) {
	guard := coordinator.Guard()
	if d := guard.CheckMinimumRole(systemRole, MinimumSystemRole); !d.IsApproved() {
		return ReleaseStaleAssignmentsCommandHandler{}, errs.NewValueIsInvalidErrorWithCause("systemRole", d.Err())
	}
	// Superadmin is never a system role.
	if guard.CheckSuperadmin(systemRole).IsApproved() {
		return ReleaseStaleAssignmentsCommandHandler{}, errs.NewValueIsInvalidErrorWithCause(
			"systemRole", errSuperadminSystemRole,
		)
	}

	return ReleaseStaleAssignmentsCommandHandler{
		uowFactory:  uowFactory,
		coordinator: coordinator,
		systemRole:  systemRole,
		recorder:    recorder,
	}, nil
}

var errSuperadminSystemRole = errors.New("background jobs do not act as superadmin")

// Handle returns the number of orders released.
func (h *ReleaseStaleAssignmentsCommandHandler) Handle(
	ctx context.Context,
	cmd ReleaseStaleAssignmentsCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	result := h.coordinator.RequestTransition(h.systemRole, order.Assigned, order.Pending)
	if !result.IsApproved() {
		return 0, result.Err()
	}

	stale, err := h.listStale(ctx, cmd)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, candidate := range stale {
		if err = ctx.Err(); err != nil {
			return released, err
		}

		ok, releaseErr := h.release(ctx, candidate)
		if releaseErr != nil {
			return released, releaseErr
		}
		if ok {
			released++
		}
	}

	return released, nil
}

func (h *ReleaseStaleAssignmentsCommandHandler) listStale(
	ctx context.Context,
	cmd ReleaseStaleAssignmentsCommand,
) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().ListAssignedBefore(ctx, cmd.Cutoff(), cmd.Limit())
}

// release reports false when the order was changed by someone else first.
func (h *ReleaseStaleAssignmentsCommandHandler) release(ctx context.Context, candidate *order.Order) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	from := candidate.Status()
	if !h.coordinator.RequestTransition(h.systemRole, from, order.Pending).IsApproved() {
		return false, nil
	}

	expectedVersion := candidate.Version()
	if err := candidate.ApplyTransition(order.Pending, order.TransitionDetails{}, time.Now()); err != nil {
		return false, err
	}

	err := uow.OrderRepository().Update(ctx, candidate, expectedVersion)
	if errors.Is(err, errs.ErrVersionIsInvalid) {
		h.recorder.RecordTransition(h.systemRole, from, order.Pending, ports.OutcomeConflict)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.recorder.RecordTransition(h.systemRole, from, order.Pending, ports.OutcomeApproved)
	return true, nil
}
