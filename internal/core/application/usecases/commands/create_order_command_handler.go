package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// CreateOrderCommandHandler creates pending orders on behalf of actors holding
// orders:write.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, guard, recorder)
//	cmd, _ := NewCreateOrderCommand(actor, kernel.NewUUID(), "ORD-1042")
//
//	if err := handler.Handle(ctx, cmd); errors.Is(err, access.ErrAccessDenied) {
//	    // actor's role may not create orders
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	guard      services.AuthorizationGuard
	recorder   ports.DecisionRecorder
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	guard services.AuthorizationGuard,
	recorder ports.DecisionRecorder,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		guard:      guard,
		recorder:   recorder,
	}
}

// Handle checks orders:write for the actor's role before opening a
// transaction, then stores the new order in the actor's tenant.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	role := cmd.Actor().Role()
	decision := h.guard.Check(role, access.OrdersWrite)
	h.recorder.RecordCheck(role, access.OrdersWrite, decision.IsApproved())
	if err := decision.Err(); err != nil {
		return err
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.Actor().TenantID(), cmd.Reference(), time.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
