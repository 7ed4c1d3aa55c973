package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// OrderStatusChanged describes an applied transition.
type OrderStatusChanged struct {
	OrderID kernel.UUID
	From    order.Status
	To      order.Status
	Version int64
}

// ChangeOrderStatusCommandHandler runs a transition request through the
// dispatch coordinator and stores the result with the repository's
// compare-and-set.
//
// Rejections come back as errors:
//   - services.ErrNoOpTransition when the order already has the status
//   - order.ErrIllegalTransition when the lifecycle has no such edge
//   - access.ErrAccessDenied when the role lacks the edge's permission
//   - errs.ErrVersionIsInvalid when another request changed the order first
//   - errs.ErrObjectNotFound when the order is not in the actor's tenant
type ChangeOrderStatusCommandHandler struct {
	uowFactory  OrderUoWFactory
	coordinator services.DispatchCoordinator
	recorder    ports.DecisionRecorder
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	coordinator services.DispatchCoordinator,
	recorder ports.DecisionRecorder,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		coordinator: coordinator,
		recorder:    recorder,
	}
}

func (h *ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (OrderStatusChanged, error) {
	if err := cmd.Validate(); err != nil {
		return OrderStatusChanged{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OrderStatusChanged{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	actor := cmd.Actor()

	aggregate, err := repo.Get(ctx, actor.TenantID(), cmd.OrderID())
	if err != nil {
		return OrderStatusChanged{}, err
	}

	from := aggregate.Status()
	result := h.coordinator.RequestTransition(actor.Role(), from, cmd.Requested())
	if !result.IsApproved() {
		h.recorder.RecordTransition(actor.Role(), from, cmd.Requested(), rejectionOutcome(result.Rejection()))
		return OrderStatusChanged{}, result.Err()
	}

	expectedVersion := aggregate.Version()
	if err = aggregate.ApplyTransition(result.NewStatus(), cmd.Details(), time.Now()); err != nil {
		return OrderStatusChanged{}, err
	}

	if err = repo.Update(ctx, aggregate, expectedVersion); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			h.recorder.RecordTransition(actor.Role(), from, result.NewStatus(), ports.OutcomeConflict)
		}
		return OrderStatusChanged{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderStatusChanged{}, err
	}

	h.recorder.RecordTransition(actor.Role(), from, result.NewStatus(), ports.OutcomeApproved)
	return OrderStatusChanged{
		OrderID: aggregate.ID(),
		From:    from,
		To:      aggregate.Status(),
		Version: aggregate.Version(),
	}, nil
}

func rejectionOutcome(kind services.RejectionKind) string {
	switch kind {
	case services.NoOpTransition:
		return ports.OutcomeNoOp
	case services.IllegalTransition:
		return ports.OutcomeIllegal
	default:
		return ports.OutcomeUnauthorized
	}
}
