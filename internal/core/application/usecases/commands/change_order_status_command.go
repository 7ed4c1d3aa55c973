package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand asks to move one order of the actor's tenant to a
// new status. Details carry the driver and vehicle for assignments and the
// reason for failures.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	actor     access.Actor
	orderID   kernel.UUID
	requested order.Status
	details   order.TransitionDetails

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(
	actor access.Actor,
	orderID kernel.UUID,
	requested order.Status,
	details order.TransitionDetails,
) (ChangeOrderStatusCommand, error) {
	command := ChangeOrderStatusCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setActor(actor),
		command.setOrderID(orderID),
		command.setRequested(requested),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return command, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) Actor() access.Actor {
	return c.actor
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderStatusCommand) Requested() order.Status {
	return c.requested
}

func (c ChangeOrderStatusCommand) Details() order.TransitionDetails {
	return c.details
}

func (c *ChangeOrderStatusCommand) setActor(actor access.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setRequested(requested order.Status) error {
	if err := requested.Validate(); err != nil {
		return err
	}

	c.requested = requested
	return nil
}
