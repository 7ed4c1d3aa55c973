package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetDispatchBoardQueryIsNotConstructed = errors.New(
		"GetDispatchBoardQuery must be created via NewGetDispatchBoardQuery constructor",
	)
)

// GetDispatchBoardQuery retrieves the non-terminal orders of the actor's
// tenant, one column per status.
//
// Example:
//
//	query, err := NewGetDispatchBoardQuery(actor)
//	if err != nil {
//	    return err
//	}
//
//	board, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load board: %w", err)
//	}
//
//	for _, column := range board.Columns {
//	    fmt.Printf("%s: %d orders, may move to %v\n",
//	        column.Status, len(column.Cards), column.AllowedNext)
//	}
type GetDispatchBoardQuery struct {
	actor access.Actor
	guard guard.ConstructorGuard
}

func NewGetDispatchBoardQuery(actor access.Actor) (GetDispatchBoardQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetDispatchBoardQuery{}, err
	}
	return GetDispatchBoardQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDispatchBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetDispatchBoardQueryIsNotConstructed)
}

func (q GetDispatchBoardQuery) Actor() access.Actor {
	return q.actor
}

// DispatchBoardCard is one order on the board.
type DispatchBoardCard struct {
	ID        kernel.UUID
	Reference string
	DriverID  *kernel.UUID
	VehicleID *kernel.UUID
	Version   int64
	UpdatedAt time.Time
}

// DispatchBoardColumn holds the orders currently in Status. AllowedNext lists
// the statuses the requesting actor may move them to: legal in the lifecycle
// and granted to the actor's role.
type DispatchBoardColumn struct {
	Status      order.Status
	AllowedNext []order.Status
	Cards       []DispatchBoardCard
}

type GetDispatchBoardQueryResponse struct {
	Columns []DispatchBoardColumn
}
